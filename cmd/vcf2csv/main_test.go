package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const card = "BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nTEL:111\nEND:VCARD\n"

func TestRun_Stdin(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-mode", "fixed"}, strings.NewReader(card), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `"First Name","Last Name","Phone 1","Phone 2","Phone 3","Email 1","Email 2","Email 3","Addresses"` + "\n" +
		`"Jane","Doe","111","","","","","",""`
	if out.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out.String())
	}
}

func TestRun_FilesMergedIntoOneTable(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.vcf")
	b := filepath.Join(dir, "b.md")
	if err := os.WriteFile(a, []byte(card), 0o600); err != nil {
		t.Fatal(err)
	}
	md := "# Contacts\n\n```\nBEGIN:VCARD\nFN:John Roe\nEMAIL:john@example.com\nEND:VCARD\n```\n"
	if err := os.WriteFile(b, []byte(md), 0o600); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.csv")

	if err := run([]string{"-mode", "dynamic", "-o", outPath, a, b}, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(string(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", got)
	}
	if lines[0] != `"First Name","Last Name","Email","Phone"` {
		t.Errorf("unexpected header %s", lines[0])
	}
}

func TestRun_BadMode(t *testing.T) {
	if err := run([]string{"-mode", "wide"}, strings.NewReader(card), &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRun_MissingFile(t *testing.T) {
	if err := run([]string{filepath.Join(t.TempDir(), "missing.vcf")}, nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}
