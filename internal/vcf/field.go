package vcf

import (
	"strings"

	"github.com/emersion/go-vcard"
)

// field is one parsed NAME[;PARAM=VALUE...]:VALUE line.
type field struct {
	spec   string   // everything before the first colon, group prefix removed
	name   string   // type name as written, e.g. "tel" or "X-SKYPE"
	params []string // raw parameter segments after the name
	value  string
}

// parseField splits a trimmed line into its field spec and value. It reports
// false for lines that carry no usable value.
func parseField(line string) (field, bool) {
	if skipLine(line) {
		return field{}, false
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return field{}, false
	}
	value := line[colon+1:]
	if strings.TrimSpace(value) == "" {
		return field{}, false
	}

	spec := line[:colon]
	// Apple exports prefix grouped properties as "item1.TEL;...".
	if dot := strings.IndexByte(spec, '.'); dot >= 0 && dot < strings.IndexAny(spec+";", ";") {
		spec = spec[dot+1:]
	}
	parts := strings.Split(spec, ";")
	return field{
		spec:   spec,
		name:   strings.TrimSpace(parts[0]),
		params: parts[1:],
		value:  value,
	}, true
}

func skipLine(line string) bool {
	if line == "" {
		return true
	}
	if strings.EqualFold(line, beginMarker) || strings.EqualFold(line, endMarker) {
		return true
	}
	return hasPrefixFold(line, vcard.FieldVersion)
}

// is reports whether the field's type name equals fieldType, ignoring case.
func (f field) is(fieldType string) bool {
	return strings.EqualFold(f.name, fieldType)
}

// isExactly reports whether the whole field spec equals fieldType, i.e. the
// line carries no parameters.
func (f field) isExactly(fieldType string) bool {
	return strings.EqualFold(f.spec, fieldType)
}

// typeParam returns the value of the first TYPE=xxx parameter.
func (f field) typeParam() (string, bool) {
	for _, p := range f.params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), vcard.ParamType) {
			continue
		}
		v = strings.Trim(strings.TrimSpace(v), `"`)
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// splitName returns the first whitespace token as the first name and the
// remaining tokens, joined by single spaces, as the last name.
func splitName(full string) (first, last string) {
	tokens := strings.Fields(full)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}

// joinAddress drops blank ADR components and joins the rest with ", ".
func joinAddress(value string) string {
	var kept []string
	for _, part := range strings.Split(value, ";") {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
