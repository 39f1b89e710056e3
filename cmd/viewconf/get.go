package main

import (
	"fmt"

	"github.com/signadot/viewconf/kpath"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a kpath", cli.ErrUsage)
	}
	path := args[0]
	kp, err := kpath.Parse(path)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for i, arg := range inputs(args[1:]) {
		vc, err := loadDoc(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", displayName(arg), err)
		}
		doc, err := vc.ToValue()
		if err != nil {
			return err
		}
		var res any
		if kp.HasWildcard() {
			res, err = kpath.List(doc, path)
		} else {
			res, err = kpath.Get(doc, path)
		}
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", displayName(arg), path, err)
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, res, "  ", i > 0); err != nil {
			return err
		}
	}
	return nil
}
