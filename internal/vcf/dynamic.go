package vcf

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/emersion/go-vcard"
)

// labels maps well-known vCard field types to column labels. Types missing
// from the table keep their name as written.
var labels = map[string]string{
	vcard.FieldFormattedName: "Full Name",
	vcard.FieldName:          "Name",
	vcard.FieldOrganization:  "Organization",
	vcard.FieldTitle:         "Title",
	vcard.FieldRole:          "Role",
	vcard.FieldBirthday:      "Birthday",
	vcard.FieldURL:           "Website",
	vcard.FieldNote:          "Notes",
	vcard.FieldNickname:      "Nickname",
	vcard.FieldCategories:    "Categories",
}

// typedLabels are the field types whose label carries the TYPE parameter.
var typedLabels = map[string]string{
	vcard.FieldTelephone: "Phone",
	vcard.FieldEmail:     "Email",
	vcard.FieldAddress:   "Address",
}

// normalizeLabel returns the column label for f. A typed phone line such as
// TEL;TYPE=cell becomes "Phone Cell".
func normalizeLabel(f field) string {
	upper := strings.ToUpper(f.name)
	if base, ok := typedLabels[upper]; ok {
		if t, ok := f.typeParam(); ok {
			return base + " " + capitalize(t)
		}
		return base
	}
	if l, ok := labels[upper]; ok {
		return l
	}
	return f.name
}

// DynamicRecord is an insertion-ordered map of column label to value.
type DynamicRecord struct {
	keys   []string
	values map[string]string
}

func newDynamicRecord() *DynamicRecord {
	return &DynamicRecord{values: make(map[string]string)}
}

// ExtractDynamic parses one card block into a DynamicRecord with one key per
// distinct label. Repeated labels are suffixed with their occurrence count.
func ExtractDynamic(block string) *DynamicRecord {
	rec := newDynamicRecord()
	counts := make(map[string]int)

	for _, line := range splitLines(block) {
		f, ok := parseField(line)
		if !ok {
			continue
		}
		switch {
		case f.isExactly(vcard.FieldFormattedName):
			first, last := splitName(f.value)
			rec.setName(first, last)
		case f.isExactly(vcard.FieldName):
			parts := strings.Split(f.value, ";")
			var first string
			if len(parts) > 1 {
				first = parts[1]
			}
			rec.setName(first, parts[0])
		case f.is(vcard.FieldAddress):
			if addr := joinAddress(f.value); addr != "" {
				rec.add(counts, normalizeLabel(f), addr)
			}
		default:
			rec.add(counts, normalizeLabel(f), f.value)
		}
	}

	rec.setIfAbsent(ColFirstName, "")
	rec.setIfAbsent(ColLastName, "")
	return rec
}

// setName fills the name columns only where they are still unset, so the
// first FN or N line in a card wins.
func (r *DynamicRecord) setName(first, last string) {
	r.setIfAbsent(ColFirstName, first)
	r.setIfAbsent(ColLastName, last)
}

// add stores value under label, or "<label> <n>" for the nth repeat.
func (r *DynamicRecord) add(counts map[string]int, label, value string) {
	counts[label]++
	key := label
	if n := counts[label]; n > 1 {
		key = label + " " + strconv.Itoa(n)
	}
	r.set(key, value)
}

func (r *DynamicRecord) set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *DynamicRecord) setIfAbsent(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.set(key, value)
	}
}

// Get returns the value stored under key.
func (r *DynamicRecord) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for column, or "" when the card had no such field.
func (r *DynamicRecord) Value(column string) string {
	return r.values[column]
}

// Columns returns the keys in encounter order.
func (r *DynamicRecord) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// MarshalJSON encodes the record as a JSON object in encounter order.
func (r *DynamicRecord) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
