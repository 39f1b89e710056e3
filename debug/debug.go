// Package debug exposes environment-driven diagnostic switches.
//
// Each switch is read once at startup from a VIEWCONF_DEBUG_* environment
// variable holding a value strconv.ParseBool accepts.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Resolve  bool
	Validate bool
	Export   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("VIEWCONF_DEBUG_RESOLVE")
	d.Validate = boolEnv("VIEWCONF_DEBUG_VALIDATE")
	d.Export = boolEnv("VIEWCONF_DEBUG_EXPORT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Resolve() bool {
	return d.Resolve
}
func Validate() bool {
	return d.Validate
}
func Export() bool {
	return d.Export
}

// Any reports whether any switch is on.
func Any() bool {
	return d.Resolve || d.Validate || d.Export
}

// Logf writes a diagnostic line to stderr. Decoded JSON arguments are
// rendered as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch a.(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
