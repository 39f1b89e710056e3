package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/viewconf/schema"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	p := cfg.palette(cc.Out)
	failed := 0
	for _, path := range inputs(args) {
		_, err := loadDoc(cfg.MainConfig, cc, path)
		if err == nil {
			if !cfg.Quiet {
				fmt.Fprintf(cc.Out, "%s: %s\n", displayName(path), p.OK("ok"))
			}
			continue
		}
		failed++
		reportErr(cc.Out, p, displayName(path), err)
	}
	if failed != 0 {
		theLog.Debug("check failed", "documents", failed)
		return cli.ExitCodeErr(1)
	}
	return nil
}

// reportErr prints a document error, one line per field for validation
// errors.
func reportErr(w io.Writer, p *palette, name string, err error) {
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "%s: %s\n", name, p.Error("%v", err))
		return
	}
	n := len(verr.Errors)
	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	fmt.Fprintf(w, "%s: %s\n", name, p.Error("%d %s", n, noun))
	for _, fe := range verr.Errors {
		at := fe.FieldPath()
		if at == "" {
			at = "(root)"
		}
		msg := strings.TrimPrefix(fe.Error(), at+": ")
		fmt.Fprintf(w, "  %s: %s\n", p.Path("%s", at), msg)
	}
}
