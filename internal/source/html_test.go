package source

import (
	"strings"
	"testing"
)

func TestHTMLDecoder_PreBlock(t *testing.T) {
	input := `<html><head><title>Contact</title><style>pre{}</style></head><body>
<h1>Reach us</h1>
<pre>BEGIN:VCARD
FN:Jane Doe
TEL:555-0100
END:VCARD</pre>
<script>var x = "BEGIN:VCARD";</script>
</body></html>`
	d := &HTMLDecoder{}
	got, err := d.Decode(strings.NewReader(input), "contact.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(got, "BEGIN:VCARD") != 1 {
		t.Errorf("expected exactly one card marker (script skipped), got %q", got)
	}
	if !strings.Contains(got, "FN:Jane Doe\nTEL:555-0100\n") {
		t.Errorf("expected card lines preserved, got %q", got)
	}
	if strings.Contains(got, "pre{}") {
		t.Errorf("expected style content dropped, got %q", got)
	}
}

func TestHTMLDecoder_BreaksAndParagraphs(t *testing.T) {
	input := `<p>BEGIN:VCARD<br>FN:Jane Doe<br/>END:VCARD</p><div>after</div>`
	d := &HTMLDecoder{}
	got, err := d.Decode(strings.NewReader(input), "card.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "BEGIN:VCARD\nFN:Jane Doe\nEND:VCARD\nafter\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
