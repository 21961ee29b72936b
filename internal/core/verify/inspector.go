package verify

import (
	"bytes"
	"strings"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

var imageSignatures = [][]byte{
	{0xFF, 0xD8, 0xFF}, // jpeg
	[]byte("\x89PNG"),
	[]byte("GIF8"),
	[]byte("BM"),
}

// Inspect classifies raw bytes into a coarse file kind. Signature bytes win
// over the declared mime type; the mime type is only a fallback hint.
func Inspect(content []byte, mimeType, filename string) domain.FileMeta {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	name := filename
	if name == "" {
		name = "upload"
	}

	isPDF := bytes.HasPrefix(content, []byte("%PDF")) || strings.Contains(mt, "pdf")
	isImage := looksLikeImage(content) || strings.Contains(mt, "image/")

	if mt == "" {
		mt = "application/octet-stream"
	}

	return domain.FileMeta{
		Filename: name,
		MimeType: mt,
		IsPDF:    isPDF,
		IsImage:  isImage,
	}
}

func looksLikeImage(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(content, sig) {
			return true
		}
	}
	// RIFF....WEBP
	return len(content) >= 12 &&
		bytes.Equal(content[:4], []byte("RIFF")) &&
		bytes.Equal(content[8:12], []byte("WEBP"))
}
