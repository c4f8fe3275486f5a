package ui

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	messages := a.dataModel.Messages()
	if len(messages) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Start chatting!"))
		return
	}

	var content strings.Builder
	for _, msg := range messages {
		content.WriteString(a.renderMessage(msg))
	}

	if a.streaming {
		content.WriteString(a.streamingBlock())
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) updateStreamingView() {
	a.updateViewportContent(true)
}

func (a *AppView) renderMessage(msg Message) string {
	timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

	// Transient tool status entries get a spinner instead of a role header.
	if msg.IsStatus() {
		return fmt.Sprintf("%s %s\n\n", a.spinner.View(), StatusStyle.Render(msg.Content))
	}

	var roleStyle = DimStyle
	var roleName string
	switch msg.Role {
	case "user":
		roleStyle = UserStyle
		roleName = "You"
	case "assistant":
		roleStyle = AssistantStyle
		roleName = "Assistant"
	default:
		roleStyle = DimStyle
		roleName = "System"
	}
	role := roleStyle.Render(roleName)

	if msg.Role == "user" {
		body := msg.Content
		if msg.Upload != nil {
			body += "\n" + DimStyle.Render("📎 "+msg.Upload.Name)
		}
		return formatUserMessage(timestamp, role, body)
	}

	if msg.Role == "system" && strings.HasPrefix(msg.Content, "Error:") {
		return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, ErrorStyle.Render(msg.Content))
	}

	rendered := a.renderMarkdown(msg.Content)
	var extra strings.Builder
	for _, u := range msg.ImageURLs {
		extra.WriteString(ImageStyle.Render("🖼  " + u))
		extra.WriteString("\n")
	}
	return fmt.Sprintf("%s %s\n%s%s\n\n", timestamp, role, rendered, extra.String())
}

func (a *AppView) streamingBlock() string {
	timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
	role := AssistantStyle.Render("Assistant")

	// Spinner until the first chunk arrives, then raw text with a cursor.
	streamContent := a.spinner.View()
	if a.currentResp.Len() > 0 {
		streamContent = a.currentResp.String() + "▋"
	}
	return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, streamContent)
}

// renderMarkdown converts message content to styled terminal text. Renders
// are memoized per content and width since the transcript is re-rendered on
// every turn event.
func (a *AppView) renderMarkdown(content string) string {
	key := cacheKey(content, a.width)
	if cached, ok := a.renderCache[key]; ok {
		return cached
	}

	// Strip [text](url) down to the bare url so links render as plain red
	// text the terminal can make clickable.
	text := mdLinkRegex.ReplaceAllString(content, "$2")

	// Autolink is disabled so URLs stay plain instead of being doubled into
	// [url](url) form by the parser.
	customExt := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(customExt)
	width := a.width - 4
	if width < 20 {
		width = 20
	}
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(text))
	rendered := postProcessMarkdown(string(gomarkdown.Render(doc, r)))

	a.renderCache[key] = rendered
	return rendered
}

func cacheKey(content string, width int) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:8]) + ":" + strconv.Itoa(width)
}

func postProcessMarkdown(rendered string) string {
	rendered = fixInlineCode(rendered)
	rendered = colorPlainURLs(rendered)
	return strings.TrimRight(rendered, "\n")
}

// fixInlineCode swaps go-term-markdown's blue-background inline code for
// plain red text, which survives more terminal palettes.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorPlainURLs(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines carry the ┃ prefix from the renderer; leave them alone.
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}

func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")
	return result.String()
}
