package vcf

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Mode selects the record schema.
type Mode string

const (
	ModeFixed   Mode = "fixed"
	ModeDynamic Mode = "dynamic"
)

// ErrUnknownMode is returned for a mode other than fixed or dynamic.
var ErrUnknownMode = errors.New("unknown conversion mode")

// ParseMode accepts "fixed" or "dynamic" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFixed:
		return ModeFixed, nil
	case ModeDynamic:
		return ModeDynamic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Record is one converted card.
type Record interface {
	// Value returns the cell for column, or "" if the record lacks it.
	Value(column string) string
	// Columns lists the record's own columns.
	Columns() []string
}

// Converter extracts records in one schema and derives the table header for
// a batch of them.
type Converter interface {
	Mode() Mode
	Extract(block string) Record
	Header(records []Record) []string
}

// Options configures New.
type Options struct {
	Mode Mode
	// Collation is the BCP 47 tag used to order dynamic columns. Empty
	// means plain byte order.
	Collation string
}

// New returns the Converter for opts.Mode.
func New(opts Options) (Converter, error) {
	switch opts.Mode {
	case ModeFixed:
		return fixedConverter{}, nil
	case ModeDynamic:
		c := dynamicConverter{}
		if opts.Collation != "" {
			tag, err := language.Parse(opts.Collation)
			if err != nil {
				return nil, fmt.Errorf("parse collation %q: %w", opts.Collation, err)
			}
			c.collation = &tag
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.Mode)
}

type fixedConverter struct{}

func (fixedConverter) Mode() Mode { return ModeFixed }

func (fixedConverter) Extract(block string) Record { return ExtractFixed(block) }

func (fixedConverter) Header([]Record) []string {
	return slices.Clone(FixedHeader)
}

type dynamicConverter struct {
	collation *language.Tag
}

func (dynamicConverter) Mode() Mode { return ModeDynamic }

func (dynamicConverter) Extract(block string) Record { return ExtractDynamic(block) }

// Header returns the union of all record keys with First Name and Last Name
// leading and the rest sorted.
func (c dynamicConverter) Header(records []Record) []string {
	seen := make(map[string]bool)
	var rest []string
	hasFirst, hasLast := false, false
	for _, r := range records {
		for _, k := range r.Columns() {
			if seen[k] {
				continue
			}
			seen[k] = true
			switch k {
			case ColFirstName:
				hasFirst = true
			case ColLastName:
				hasLast = true
			default:
				rest = append(rest, k)
			}
		}
	}

	if c.collation != nil {
		// Collators keep internal buffers, so one per call.
		collate.New(*c.collation).SortStrings(rest)
	} else {
		slices.Sort(rest)
	}

	header := make([]string, 0, len(rest)+2)
	if hasFirst {
		header = append(header, ColFirstName)
	}
	if hasLast {
		header = append(header, ColLastName)
	}
	return append(header, rest...)
}

// Parse extracts one record per card block in doc.
func Parse(c Converter, doc string) []Record {
	var records []Record
	for block := range Split(doc) {
		records = append(records, c.Extract(block))
	}
	return records
}

// Convert parses doc and renders it as CSV in one step.
func Convert(c Converter, doc string) string {
	return NewTable(c, Parse(c, doc)).CSV()
}
