package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/viewconf"
	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/jsonschema"
	"github.com/signadot/viewconf/model"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func schemaMain(cfg *SchemaConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Schema.Parse(cc, args)
	if err != nil {
		cfg.Schema.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: schema takes no arguments, got %v", cli.ErrUsage, args)
	}
	r, err := cfg.registry()
	if err != nil {
		return err
	}
	doc, err := jsonschema.Generate(r, model.RootName, jsonschema.WithID(viewconf.SchemaID))
	if err != nil {
		return fmt.Errorf("error exporting schema: %w", err)
	}
	indent := "  "
	if cfg.Compact {
		indent = ""
	}
	d, err := doc.Marshal(indent)
	if err != nil {
		return err
	}
	f := cfg.outFormat()
	if cfg.Check != "" {
		f = cfg.inFormat(cfg.Check)
	}
	if f.IsYAML() {
		d, err = format.ToYAML(d)
		if err != nil {
			return err
		}
	}
	if cfg.Check == "" {
		d = append(bytes.TrimRight(d, "\n"), '\n')
		_, err := cc.Out.Write(d)
		return err
	}
	have, err := readFile(cc, cfg.Check)
	if err != nil {
		return err
	}
	want := strings.TrimRight(string(d), "\n")
	got := strings.TrimRight(string(have), "\n")
	if want == got {
		fmt.Fprintf(cc.Out, "%s: ok\n", displayName(cfg.Check))
		return nil
	}
	writeLineDiff(cc.Out, cfg.palette(cc.Out), got, want)
	return cli.ExitCodeErr(1)
}

// writeLineDiff prints the lines changed from a to b, prefixed by - and +.
func writeLineDiff(w io.Writer, p *palette, a, b string) {
	dmp := diffmatchpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(a+"\n", b+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)
	for _, d := range diffs {
		var mark string
		var paint func(string, ...any) string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			mark, paint = "-", p.Delete
		case diffmatchpatch.DiffInsert:
			mark, paint = "+", p.Insert
		default:
			continue
		}
		for _, line := range strings.SplitAfter(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprintln(w, paint("%s%s", mark, strings.TrimSuffix(line, "\n")))
		}
	}
}
