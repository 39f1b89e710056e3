package main

import (
	"fmt"

	"github.com/fatih/color"
)

type palette struct {
	Path   func(string, ...any) string
	Error  func(string, ...any) string
	OK     func(string, ...any) string
	Delete func(string, ...any) string
	Insert func(string, ...any) string
}

func newPalette(on bool) *palette {
	if !on {
		return &palette{
			Path:   fmt.Sprintf,
			Error:  fmt.Sprintf,
			OK:     fmt.Sprintf,
			Delete: fmt.Sprintf,
			Insert: fmt.Sprintf,
		}
	}
	return &palette{
		Path:   colorFunc(color.New(color.FgYellow)),
		Error:  colorFunc(color.New(color.FgRed, color.Bold)),
		OK:     colorFunc(color.RGB(128, 216, 236)),
		Delete: colorFunc(color.New(color.FgRed)),
		Insert: colorFunc(color.New(color.FgGreen)),
	}
}

func colorFunc(c *color.Color) func(string, ...any) string {
	c.EnableColor()
	return c.SprintfFunc()
}
