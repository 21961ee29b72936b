package cascade

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
)

// minNativeChars is the trimmed length below which a PDF text layer is
// considered absent (scanned document) and OCR takes over.
const minNativeChars = 80

// PDFTextLayer reads the embedded text of a digital PDF.
type PDFTextLayer interface {
	Extract(content []byte) (string, error)
}

// Extractor walks the extraction ladder best-effort: PDF text layer, local
// OCR, UTF-8 plaintext, remote OCR. Every rung is optional; when all of them
// come up empty the result carries the no-text sentinel. It implements
// ports.TextSource and never reports an error to the caller.
type Extractor struct {
	pdf    PDFTextLayer
	local  ports.LocalOCR
	remote ports.RemoteOCR
	logger *slog.Logger
}

func New(pdf PDFTextLayer, local ports.LocalOCR, remote ports.RemoteOCR, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{pdf: pdf, local: local, remote: remote, logger: logger}
}

func (e *Extractor) ExtractText(ctx context.Context, content []byte, meta domain.FileMeta) domain.ExtractedText {
	if len(content) == 0 {
		return noText(domain.MethodNone)
	}

	if meta.IsPDF && e.pdf != nil {
		text, err := e.pdf.Extract(content)
		if err != nil {
			e.logger.Warn("pdf_text_layer_failed", "filename", meta.Filename, "error", err)
		} else if utf8.RuneCountInString(strings.TrimSpace(text)) >= minNativeChars {
			return extracted(text, domain.MethodNative)
		}
	}

	if meta.IsImage && e.local != nil {
		text, err := e.local.Recognize(ctx, content)
		if err != nil {
			e.logger.Warn("local_ocr_failed", "filename", meta.Filename, "error", err)
		} else if strings.TrimSpace(text) != "" {
			return extracted(text, domain.MethodOCRLocal)
		}
	}

	if !meta.IsImage && !meta.IsPDF && utf8.Valid(content) {
		if text := strings.TrimSpace(string(content)); text != "" {
			return extracted(text, domain.MethodNative)
		}
	}

	// Everything else goes to the remote backend regardless of kind: scanned
	// PDFs, images the local engine could not read, and opaque binary formats.
	if e.remote != nil {
		text, err := e.remote.ExtractText(ctx, content, normalizeFilename(meta), meta.MimeType)
		if err != nil {
			e.logger.Warn("remote_ocr_failed", "filename", meta.Filename, "error", err)
			return noText(domain.MethodOCRRemote)
		}
		if strings.TrimSpace(text) != "" {
			return extracted(text, domain.MethodOCRRemote)
		}
		return noText(domain.MethodOCRRemote)
	}

	return noText(domain.MethodNone)
}

// normalizeFilename makes sure the remote backend sees an extension that
// matches the sniffed content type, whatever the upload was called.
func normalizeFilename(meta domain.FileMeta) string {
	name := meta.Filename
	if name == "" {
		name = "upload"
	}
	want := extensionFor(meta.MimeType)
	if want == "" {
		return name
	}
	if strings.EqualFold(filepath.Ext(name), want) {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + want
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func extracted(text string, method domain.ExtractionMethod) domain.ExtractedText {
	text = strings.TrimSpace(text)
	return domain.ExtractedText{
		Text:      text,
		Method:    method,
		CharCount: utf8.RuneCountInString(text),
	}
}

func noText(method domain.ExtractionMethod) domain.ExtractedText {
	return domain.ExtractedText{Text: domain.NoTextSentinel, Method: method}
}
