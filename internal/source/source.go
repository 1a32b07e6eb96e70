package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Decoder turns an uploaded file into the text handed to the vCard converter.
type Decoder interface {
	Decode(r io.Reader, filename string) (string, error)
}

// ErrUnsupportedFile is returned by ForFile for unknown extensions.
var ErrUnsupportedFile = errors.New("unsupported file extension")

// Options tunes individual decoders.
type Options struct {
	// PDFFallbackPdftotext shells out to pdftotext when the Go PDF reader fails.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".vcf":      true,
	".vcard":    true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate decoder for a filename.
func ForFile(filename string, opts Options) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".vcf", ".vcard", ".txt":
		return &TextDecoder{}, nil
	case ".md", ".markdown":
		return &MarkdownDecoder{}, nil
	case ".html", ".htm":
		return &HTMLDecoder{}, nil
	case ".pdf":
		return &PDFDecoder{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Decode picks the decoder for filename and runs it over data.
func Decode(filename string, data []byte, opts Options) (string, error) {
	d, err := ForFile(filename, opts)
	if err != nil {
		return "", err
	}
	text, err := d.Decode(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filename, err)
	}
	return text, nil
}
