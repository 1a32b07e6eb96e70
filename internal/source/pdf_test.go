package source

import (
	"strings"
	"testing"
)

func TestPDFDecoder_InvalidBytes(t *testing.T) {
	d := &PDFDecoder{FallbackPdftotext: false}
	_, err := d.Decode(strings.NewReader("BEGIN:VCARD\nFN:Jane Doe\nEND:VCARD"), "cards.pdf")
	if err == nil {
		t.Fatal("expected error for non-pdf input")
	}
	if !strings.HasPrefix(err.Error(), "extract pdf text:") {
		t.Errorf("expected extract pdf text error, got %v", err)
	}
}

func TestDecode_PDFErrorNamesFile(t *testing.T) {
	_, err := Decode("cards.pdf", []byte("%PDF-garbage"), Options{})
	if err == nil {
		t.Fatal("expected error for invalid pdf")
	}
	if !strings.Contains(err.Error(), "cards.pdf") {
		t.Errorf("expected filename in error, got %v", err)
	}
}
