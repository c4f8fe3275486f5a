package model

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Attachments larger than this are refused rather than silently truncated.
const maxUploadBytes = 4 << 20

var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ResolveUpload reads a file attachment and encodes it for inclusion in a user
// message: images become base64 data URLs, text files are inlined.
func ResolveUpload(path string) (*Upload, error) {
	path = strings.TrimSpace(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("attachment %s exceeds %d bytes", filepath.Base(path), maxUploadBytes)
	}

	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	if mime, ok := imageMIMEs[ext]; ok {
		return &Upload{
			Name:    name,
			MIME:    mime,
			DataURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		}, nil
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("attachment %s is not an image or text file", name)
	}

	return &Upload{
		Name: name,
		MIME: "text/plain",
		Text: string(data),
	}, nil
}
