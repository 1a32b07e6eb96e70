package vcf

import (
	"testing"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Jane Mary Doe", "Jane", "Mary Doe"},
		{"Jane", "Jane", ""},
		{"  Jane   Mary\tDoe ", "Jane", "Mary Doe"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("splitName(%q): expected (%q, %q), got (%q, %q)", tt.in, tt.first, tt.last, first, last)
		}
	}
}

func TestParseField_Skips(t *testing.T) {
	lines := []string{
		"",
		"BEGIN:VCARD",
		"end:vcard",
		"VERSION:3.0",
		"no colon here",
		"TEL:",
		"TEL:   ",
	}
	for _, l := range lines {
		if _, ok := parseField(l); ok {
			t.Errorf("expected %q to be skipped", l)
		}
	}
}

func TestParseField_GroupPrefix(t *testing.T) {
	f, ok := parseField("item1.TEL;TYPE=cell:555")
	if !ok {
		t.Fatal("expected line to parse")
	}
	if !f.is("TEL") {
		t.Errorf("expected type TEL, got %q", f.name)
	}
	if v, _ := f.typeParam(); v != "cell" {
		t.Errorf("expected type param %q, got %q", "cell", v)
	}
	if f.value != "555" {
		t.Errorf("expected value %q, got %q", "555", f.value)
	}
}

func TestExtractFixed_NameSplit(t *testing.T) {
	rec := ExtractFixed("BEGIN:VCARD\nFN:Jane Mary Doe\nEND:VCARD")
	if rec.FirstName != "Jane" {
		t.Errorf("expected first name %q, got %q", "Jane", rec.FirstName)
	}
	if rec.LastName != "Mary Doe" {
		t.Errorf("expected last name %q, got %q", "Mary Doe", rec.LastName)
	}
}

func TestExtractFixed_LastFullNameWins(t *testing.T) {
	rec := ExtractFixed("BEGIN:VCARD\nFN:Jane Doe\nFN:John Roe\nEND:VCARD")
	if rec.FirstName != "John" || rec.LastName != "Roe" {
		t.Errorf("expected John Roe, got %q %q", rec.FirstName, rec.LastName)
	}
}

func TestExtractFixed_DropsFourthPhone(t *testing.T) {
	block := "BEGIN:VCARD\nTEL:111\nTEL;TYPE=CELL:222\nTEL:333\nTEL:444\nEND:VCARD"
	rec := ExtractFixed(block)
	if rec.Phone1 != "111" || rec.Phone2 != "222" || rec.Phone3 != "333" {
		t.Errorf("expected phones 111/222/333, got %q/%q/%q", rec.Phone1, rec.Phone2, rec.Phone3)
	}
	for _, col := range FixedHeader {
		if rec.Value(col) == "444" {
			t.Errorf("expected 444 to be dropped, found in column %q", col)
		}
	}
}

func TestExtractFixed_EmailsAndAddresses(t *testing.T) {
	block := "BEGIN:VCARD\r\n" +
		"EMAIL;TYPE=work: jane@work.example \r\n" +
		"EMAIL:jane@home.example\r\n" +
		"ADR;TYPE=home:;;123 Main St;;Springfield;;12345\r\n" +
		"ADR:;;;\r\n" +
		"ADR:;;9 Elm Rd;Shelbyville\r\n" +
		"END:VCARD\r\n"
	rec := ExtractFixed(block)
	if rec.Email1 != "jane@work.example" || rec.Email2 != "jane@home.example" || rec.Email3 != "" {
		t.Errorf("unexpected emails %q/%q/%q", rec.Email1, rec.Email2, rec.Email3)
	}
	want := "123 Main St, Springfield, 12345, 9 Elm Rd, Shelbyville"
	if rec.Addresses != want {
		t.Errorf("expected addresses %q, got %q", want, rec.Addresses)
	}
}

func TestExtractFixed_Empty(t *testing.T) {
	rec := ExtractFixed("BEGIN:VCARD\nthis is not a field\nEND:VCARD")
	if rec != (FixedRecord{}) {
		t.Errorf("expected zero record, got %+v", rec)
	}
}

func TestExtractDynamic_RepeatedPhones(t *testing.T) {
	rec := ExtractDynamic("BEGIN:VCARD\nTEL:111\nTEL:222\nTEL:333\nEND:VCARD")
	want := map[string]string{"Phone": "111", "Phone 2": "222", "Phone 3": "333"}
	for k, v := range want {
		got, ok := rec.Get(k)
		if !ok || got != v {
			t.Errorf("key %q: expected %q, got %q (present=%v)", k, v, got, ok)
		}
	}
}

func TestExtractDynamic_TypedLabels(t *testing.T) {
	block := "BEGIN:VCARD\n" +
		"TEL;TYPE=CELL:111\n" +
		"TEL;type=cell:222\n" +
		"EMAIL;TYPE=home:a@example.com\n" +
		"ADR;TYPE=WORK:;;1 Loop;;Cupertino\n" +
		"END:VCARD"
	rec := ExtractDynamic(block)
	want := map[string]string{
		"Phone Cell":   "111",
		"Phone Cell 2": "222",
		"Email Home":   "a@example.com",
		"Address Work": "1 Loop, Cupertino",
	}
	for k, v := range want {
		if got, _ := rec.Get(k); got != v {
			t.Errorf("key %q: expected %q, got %q", k, v, got)
		}
	}
}

func TestExtractDynamic_LabelTable(t *testing.T) {
	block := "BEGIN:VCARD\n" +
		"ORG:Acme\n" +
		"TITLE:Engineer\n" +
		"BDAY:1990-01-01\n" +
		"URL:https://example.com\n" +
		"NOTE:likes tea\n" +
		"X-SKYPE;TYPE=home:jdoe\n" +
		"END:VCARD"
	rec := ExtractDynamic(block)
	want := []string{"Organization", "Title", "Birthday", "Website", "Notes", "X-SKYPE"}
	for _, k := range want {
		if _, ok := rec.Get(k); !ok {
			t.Errorf("expected key %q, got columns %q", k, rec.Columns())
		}
	}
}

func TestExtractDynamic_FullNameBeatsLaterStructuredName(t *testing.T) {
	rec := ExtractDynamic("BEGIN:VCARD\nFN:Jane Mary Doe\nN:Other;Person;;;\nEND:VCARD")
	if v, _ := rec.Get(ColFirstName); v != "Jane" {
		t.Errorf("expected first name %q, got %q", "Jane", v)
	}
	if v, _ := rec.Get(ColLastName); v != "Mary Doe" {
		t.Errorf("expected last name %q, got %q", "Mary Doe", v)
	}
}

func TestExtractDynamic_StructuredNameBeatsLaterFullName(t *testing.T) {
	rec := ExtractDynamic("BEGIN:VCARD\nN:Doe;Jane;;;\nFN:Someone Else\nEND:VCARD")
	if v, _ := rec.Get(ColFirstName); v != "Jane" {
		t.Errorf("expected first name %q, got %q", "Jane", v)
	}
	if v, _ := rec.Get(ColLastName); v != "Doe" {
		t.Errorf("expected last name %q, got %q", "Doe", v)
	}
	if _, ok := rec.Get("Full Name"); ok {
		t.Error("expected FN line not to produce a Full Name column")
	}
}

func TestExtractDynamic_NameDefaults(t *testing.T) {
	rec := ExtractDynamic("BEGIN:VCARD\nEMAIL:a@example.com\nEND:VCARD")
	cols := rec.Columns()
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %q", cols)
	}
	for _, k := range []string{ColFirstName, ColLastName} {
		v, ok := rec.Get(k)
		if !ok || v != "" {
			t.Errorf("expected %q defaulted to empty, got %q (present=%v)", k, v, ok)
		}
	}
}

func TestExtractDynamic_EncounterOrder(t *testing.T) {
	rec := ExtractDynamic("BEGIN:VCARD\nFN:A B\nTEL:1\nEMAIL:e\nTEL:2\nEND:VCARD")
	want := []string{ColFirstName, ColLastName, "Phone", "Email", "Phone 2"}
	got := rec.Columns()
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"cell":       "Cell",
		"HOME":       "Home",
		"wORK,voice": "Work,voice",
		"":           "",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestDynamicRecord_MarshalJSON(t *testing.T) {
	rec := ExtractDynamic("BEGIN:VCARD\nFN:Jane Doe\nNOTE:say \"hi\"\nEND:VCARD")
	b, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"First Name":"Jane","Last Name":"Doe","Notes":"say \"hi\""}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}
