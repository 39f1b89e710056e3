package main

import (
	"fmt"

	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/model"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file and optionally files to which to apply it", cli.ErrUsage)
	}
	p, err := getPatch(cfg, cc, args[0])
	if err != nil {
		return err
	}
	r, err := cfg.registry()
	if err != nil {
		return err
	}
	apply := model.MergePatch
	if cfg.Ops {
		apply = model.JSONPatch
	}
	for i, arg := range inputs(args[1:]) {
		target, err := loadDoc(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", displayName(arg), err)
		}
		res, err := apply(r, target, p)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", displayName(arg), err)
		}
		if err := writeDoc(cfg.MainConfig, cc.Out, res, "  ", i > 0); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	return nil
}

// getPatch reads a patch file as JSON, converting it from YAML if needed.
func getPatch(cfg *PatchConfig, cc *cli.Context, path string) ([]byte, error) {
	d, err := readFile(cc, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	res, err := format.ToJSON(d, cfg.inFormat(path))
	if err != nil {
		return nil, fmt.Errorf("error decoding patch %s: %w", path, err)
	}
	return res, nil
}
