package model

import (
	"regexp"
	"strings"
)

// Matches generated-image URLs of the form <base>/prompt/<encoded>, with or
// without the image. subdomain, optionally wrapped in markdown image syntax.
var (
	generatedImageMarkdownRe = regexp.MustCompile(`!\[[^\]]*\]\((https?://(?:image\.)?pollinations\.ai/prompt/[^\s)]+)\)`)
	generatedImageBareRe     = regexp.MustCompile(`https?://(?:image\.)?pollinations\.ai/prompt/[^\s<>"')]+`)
)

// RewriteGeneratedImages strips generated-image URLs out of assistant text and
// returns them separately so the renderer can treat them as first-class
// attachments rather than inline markdown.
func RewriteGeneratedImages(content string) (string, []string) {
	var urls []string

	content = generatedImageMarkdownRe.ReplaceAllStringFunc(content, func(match string) string {
		groups := generatedImageMarkdownRe.FindStringSubmatch(match)
		urls = appendUnique(urls, groups[1])
		return ""
	})

	content = generatedImageBareRe.ReplaceAllStringFunc(content, func(match string) string {
		urls = appendUnique(urls, match)
		return ""
	})

	// Collapse whitespace left behind by removed URLs.
	content = strings.TrimSpace(collapseBlankLines(content))
	return content, urls
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
