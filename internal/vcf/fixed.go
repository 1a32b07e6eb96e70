package vcf

import (
	"strings"

	"github.com/emersion/go-vcard"
)

// Column labels shared by both schemas.
const (
	ColFirstName = "First Name"
	ColLastName  = "Last Name"
)

// FixedHeader is the column order of the fixed schema.
var FixedHeader = []string{
	ColFirstName, ColLastName,
	"Phone 1", "Phone 2", "Phone 3",
	"Email 1", "Email 2", "Email 3",
	"Addresses",
}

const fixedSlots = 3

// FixedRecord holds a contact in the bounded fixed schema. Phones and emails
// past the third are dropped.
type FixedRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone1    string `json:"phone_1"`
	Phone2    string `json:"phone_2"`
	Phone3    string `json:"phone_3"`
	Email1    string `json:"email_1"`
	Email2    string `json:"email_2"`
	Email3    string `json:"email_3"`
	Addresses string `json:"addresses"`
}

// ExtractFixed parses one card block into a FixedRecord.
func ExtractFixed(block string) FixedRecord {
	var fullName string
	var phones, emails, addresses []string

	for _, line := range splitLines(block) {
		f, ok := parseField(line)
		if !ok {
			continue
		}
		switch {
		case f.isExactly(vcard.FieldFormattedName):
			fullName = f.value
		case f.is(vcard.FieldTelephone):
			phones = append(phones, strings.TrimSpace(f.value))
		case f.is(vcard.FieldEmail):
			emails = append(emails, strings.TrimSpace(f.value))
		case f.is(vcard.FieldAddress):
			if addr := joinAddress(f.value); addr != "" {
				addresses = append(addresses, addr)
			}
		}
	}

	var rec FixedRecord
	rec.FirstName, rec.LastName = splitName(fullName)
	p := slots(phones)
	rec.Phone1, rec.Phone2, rec.Phone3 = p[0], p[1], p[2]
	e := slots(emails)
	rec.Email1, rec.Email2, rec.Email3 = e[0], e[1], e[2]
	rec.Addresses = strings.Join(addresses, ", ")
	return rec
}

func slots(values []string) [fixedSlots]string {
	var out [fixedSlots]string
	copy(out[:], values)
	return out
}

// Value returns the cell for one of the FixedHeader columns.
func (r FixedRecord) Value(column string) string {
	switch column {
	case ColFirstName:
		return r.FirstName
	case ColLastName:
		return r.LastName
	case "Phone 1":
		return r.Phone1
	case "Phone 2":
		return r.Phone2
	case "Phone 3":
		return r.Phone3
	case "Email 1":
		return r.Email1
	case "Email 2":
		return r.Email2
	case "Email 3":
		return r.Email3
	case "Addresses":
		return r.Addresses
	}
	return ""
}

// Columns always returns FixedHeader.
func (r FixedRecord) Columns() []string {
	return FixedHeader
}
