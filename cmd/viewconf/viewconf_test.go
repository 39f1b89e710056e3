package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/schema"
)

func TestInFormat(t *testing.T) {
	y := format.YAMLFormat
	tests := []struct {
		cfg  *MainConfig
		path string
		want format.Format
	}{
		{&MainConfig{}, "a.json", format.JSONFormat},
		{&MainConfig{}, "a.yml", format.YAMLFormat},
		{&MainConfig{}, "-", format.JSONFormat},
		{&MainConfig{Y: true}, "a.json", format.YAMLFormat},
		{&MainConfig{J: true}, "a.yaml", format.JSONFormat},
		{&MainConfig{J: true, InFormat: &y}, "a.json", format.YAMLFormat},
	}
	for _, tc := range tests {
		if got := tc.cfg.inFormat(tc.path); got != tc.want {
			t.Errorf("inFormat(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestReportErr(t *testing.T) {
	verr := &schema.ValidationError{
		Def: "Viewconf",
		Errors: []schema.FieldError{
			&schema.MissingFieldError{Path: "views[0].tracks"},
			&schema.UnknownFieldError{Path: "bogus"},
		},
	}
	var buf bytes.Buffer
	reportErr(&buf, newPalette(false), "doc.json", verr)
	want := strings.Join([]string{
		"doc.json: 2 errors",
		"  views[0].tracks: required field is missing",
		"  bogus: field is not allowed",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("report (-want +got):\n%s", diff)
	}

	buf.Reset()
	reportErr(&buf, newPalette(false), "stdin", errors.New("json: bad"))
	if got := buf.String(); got != "stdin: json: bad\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriteLineDiff(t *testing.T) {
	var buf bytes.Buffer
	writeLineDiff(&buf, newPalette(false), "a\nb\nc", "a\nB\nc\nd")
	want := "-b\n+B\n+d\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("diff (-want +got):\n%s", diff)
	}
}

func TestWriteDoc(t *testing.T) {
	cfg := &MainConfig{Y: true}
	var buf bytes.Buffer
	doc := map[string]any{"uid": "a"}
	if err := writeDoc(cfg, &buf, doc, "", false); err != nil {
		t.Fatal(err)
	}
	if err := writeDoc(cfg, &buf, doc, "", true); err != nil {
		t.Fatal(err)
	}
	want := "uid: a\n---\nuid: a\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("yaml (-want +got):\n%s", diff)
	}
}
