package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func fmtMain(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	indent := "  "
	if cfg.Compact {
		indent = ""
	}
	for i, path := range inputs(args) {
		vc, err := loadDoc(cfg.MainConfig, cc, path)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", displayName(path), err)
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, vc, indent, i > 0); err != nil {
			return fmt.Errorf("error encoding %s: %w", displayName(path), err)
		}
	}
	return nil
}
