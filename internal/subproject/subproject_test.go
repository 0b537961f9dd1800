package subproject

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	input := `# this is a manifest
executable main bin/main

static_library libmath lib/libmath.a
bogus-line-with-too-few-tokens
`
	m, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := m.Target("main")
	if !ok {
		t.Fatal("expected target \"main\" in manifest")
	}
	want := Entry{Kind: "executable", Name: "main", RelativeOutputPath: "bin/main"}
	if e != want {
		t.Errorf("Target(\"main\") = %+v, want %+v", e, want)
	}
	if _, ok := m.Target("libmath"); !ok {
		t.Error("expected target \"libmath\" in manifest")
	}
	if len(m.byName) != 2 {
		t.Errorf("len(byName) = %d, want 2 (malformed line should be skipped)", len(m.byName))
	}
}

func TestWriteThenParseRoundTrips(t *testing.T) {
	entries := []Entry{
		{Kind: "executable", Name: "main", RelativeOutputPath: "bin/main"},
		{Kind: "shared_library", Name: "libfoo", RelativeOutputPath: "lib/libfoo.so"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		t.Fatal(err)
	}
	m, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range entries {
		got, ok := m.Target(want.Name)
		if !ok {
			t.Fatalf("Target(%q) missing after round trip", want.Name)
		}
		if got != want {
			t.Errorf("Target(%q) = %+v, want %+v", want.Name, got, want)
		}
	}
}
