package main

import (
	"bytes"
	"fmt"

	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/model"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := loadDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	b, err := loadDoc(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[1], err)
	}
	if cfg.Reverse {
		a, b = b, a
	}
	if model.Equal(a, b) {
		return nil
	}
	d, err := model.Diff(a, b)
	if err != nil {
		return fmt.Errorf("error diffing: %w", err)
	}
	if cfg.outFormat().IsYAML() {
		if d, err = format.ToYAML(d); err != nil {
			return err
		}
	}
	d = append(bytes.TrimRight(d, "\n"), '\n')
	if _, err := cc.Out.Write(d); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
