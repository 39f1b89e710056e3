package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/model"

	"github.com/scott-cotton/cli"
)

func readFile(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

// loadDoc reads, decodes and validates the viewconf at path ("-" is
// stdin).
func loadDoc(cfg *MainConfig, cc *cli.Context, path string) (*model.Viewconf, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return nil, err
	}
	raw, err := format.Decode(d, cfg.inFormat(path))
	if err != nil {
		return nil, err
	}
	r, err := cfg.registry()
	if err != nil {
		return nil, err
	}
	return model.FromValue(r, raw)
}

func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

// writeDoc encodes v in the output format, separating documents after the
// first.
func writeDoc(cfg *MainConfig, w io.Writer, v any, indent string, sep bool) error {
	f := cfg.outFormat()
	d, err := format.Marshal(v, f, indent)
	if err != nil {
		return err
	}
	if sep && f.IsYAML() {
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
	}
	if f.IsJSON() {
		d = append(d, '\n')
	}
	_, err = w.Write(d)
	return err
}
