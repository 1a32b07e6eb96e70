package vcf

import "strings"

// Table is a batch of records plus the header derived from them.
type Table struct {
	Mode    Mode
	Columns []string
	Records []Record
}

// NewTable derives the header for records using c.
func NewTable(c Converter, records []Record) *Table {
	return &Table{
		Mode:    c.Mode(),
		Columns: c.Header(records),
		Records: records,
	}
}

// Rows returns one string slice per record aligned to Columns. Missing
// values are empty strings.
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.Records))
	for _, r := range t.Records {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = r.Value(col)
		}
		rows = append(rows, row)
	}
	return rows
}

// CSV renders the header and rows. Every cell is quoted with embedded quotes
// doubled; rows are joined with "\n" and there is no trailing newline. A
// table without columns renders as "".
func (t *Table) CSV() string {
	if len(t.Columns) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow(&b, t.Columns)
	for _, row := range t.Rows() {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
}
