package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y (default by file extension)",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "viewconf").
		WithSynopsis("viewconf [opts] command [opts]").
		WithDescription("viewconf validates HiGlass view configurations and exports their JSON Schema.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return vcMain(cfg, cc, args)
		}).
		WithSubs(
			SchemaCommand(cfg),
			CheckCommand(cfg),
			FmtCommand(cfg),
			GetCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg))
}

func SchemaCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SchemaConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Schema, "schema").
		WithAliases("s").
		WithSynopsis("schema [-check file] [-compact]").
		WithDescription("print the viewconf JSON Schema, or check a schema file is up to date").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return schemaMain(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-q] [files]").
		WithDescription("validate viewconf documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithAliases("f").
		WithSynopsis("fmt [-compact] [files]").
		WithDescription("print viewconf documents in normalized form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fmtMain(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <kpath> [files]").
		WithDescription("get elements of validated viewconf documents, [*] and .* list").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-r] a b").
		WithDescription("print the merge patch turning viewconf a into b, failing if they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p").
		WithSynopsis("patch [-ops] <patchfile> [files]").
		WithDescription("apply a merge patch to viewconf documents and print the validated results").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}
