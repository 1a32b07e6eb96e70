// Package vcf converts vCard documents into uniform contact records and
// renders them as CSV. Everything here works on in-memory strings only.
package vcf

import (
	"iter"
	"strings"
)

const (
	beginMarker = "BEGIN:VCARD"
	endMarker   = "END:VCARD"
)

// Split yields one block per card-start marker in doc. Each block starts with
// the canonical marker and runs up to the next marker or end of input. Text
// before the first marker is dropped. The sequence can be ranged over any
// number of times.
func Split(doc string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := indexMarker(doc, 0)
		for start >= 0 {
			body := start + len(beginMarker)
			next := indexMarker(doc, body)
			end := next
			if next < 0 {
				end = len(doc)
			}
			if !yield(beginMarker + doc[body:end]) {
				return
			}
			start = next
		}
	}
}

// Blocks collects Split(doc) into a slice.
func Blocks(doc string) []string {
	var blocks []string
	for b := range Split(doc) {
		blocks = append(blocks, b)
	}
	return blocks
}

// indexMarker finds the next case-insensitive BEGIN:VCARD at or after from.
func indexMarker(s string, from int) int {
	for i := from; i+len(beginMarker) <= len(s); i++ {
		if hasPrefixFold(s[i:], beginMarker) {
			return i
		}
	}
	return -1
}

// hasPrefixFold reports whether s starts with the ASCII prefix, ignoring case.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if 'a' <= a && a <= 'z' {
			a -= 'a' - 'A'
		}
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// splitLines breaks a block on \r\n, \r and \n and trims every line.
func splitLines(block string) []string {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	block = strings.ReplaceAll(block, "\r", "\n")
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
