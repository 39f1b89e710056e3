package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/model"
	"github.com/signadot/viewconf/schema"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='report in color'"`
	Verbose bool `cli:"name=v aliases=verbose desc='log schema definition and resolution'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	reg  *schema.Registry
	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat is the format of the input named path: -I, then -j/-y, then
// the file extension.
func (cfg *MainConfig) inFormat(path string) format.Format {
	switch {
	case cfg.InFormat != nil:
		return *cfg.InFormat
	case cfg.Y:
		return format.YAMLFormat
	case cfg.J:
		return format.JSONFormat
	}
	return format.FromPath(path)
}

func (cfg *MainConfig) outFormat() format.Format {
	switch {
	case cfg.OutFormat != nil:
		return *cfg.OutFormat
	case cfg.Y:
		return format.YAMLFormat
	}
	return format.JSONFormat
}

// registry returns the registry documents are checked against.  With -v
// a fresh registry is built so that its definition is logged.
func (cfg *MainConfig) registry() (*schema.Registry, error) {
	if !cfg.Verbose {
		return model.Default(), nil
	}
	if cfg.reg != nil {
		return cfg.reg, nil
	}
	logLevel.Set(slog.LevelDebug)
	r, err := model.NewRegistry(schema.WithLogger(theLog))
	if err != nil {
		return nil, err
	}
	cfg.reg = r
	return r, nil
}

func (cfg *MainConfig) palette(w io.Writer) *palette {
	if cfg.Color {
		return newPalette(true)
	}
	colorSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorSet = opt.Value != nil
		break
	}
	if colorSet {
		return newPalette(false)
	}
	f, ok := w.(*os.File)
	if !ok {
		return newPalette(false)
	}
	return newPalette(isatty.IsTerminal(f.Fd()))
}

type SchemaConfig struct {
	*MainConfig
	Check   string `cli:"name=check desc='compare with a schema file, failing if they differ'"`
	Compact bool   `cli:"name=compact desc='print without indentation'"`

	Schema *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='do not report valid documents'"`

	Check *cli.Command
}

type FmtConfig struct {
	*MainConfig
	Compact bool `cli:"name=compact desc='print json without indentation'"`

	Fmt *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Ops bool `cli:"name=ops desc='patch is an RFC 6902 list of operations'"`

	Patch *cli.Command
}
