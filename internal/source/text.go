package source

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextDecoder handles plain .vcf/.txt files. A UTF-16 or UTF-8 byte order
// mark selects the encoding and is stripped; without one the input is UTF-8.
type TextDecoder struct{}

func (d *TextDecoder) Decode(r io.Reader, filename string) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}
