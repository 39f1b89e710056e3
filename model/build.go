package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewUID returns a fresh uid in the form HiGlass front ends generate:
// a random UUID with the dashes removed.
func NewUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewView returns a view with a fresh uid, the default layout and no
// tracks.
func NewView() *View {
	return &View{
		UID:    NewUID(),
		Layout: Layout{W: 12, H: 12},
	}
}

// Add appends tracks at pos.
func (v *View) Add(pos Position, tracks ...Track) {
	l := v.Tracks.At(pos)
	if l == nil {
		return
	}
	if *l == nil {
		*l = TrackList{}
	}
	*l = append(*l, tracks...)
}

// Walk calls f on every track of every view, depth first through
// combined tracks, stopping at the first error.
func (v *Viewconf) Walk(f func(view *View, pos Position, t Track) error) error {
	for _, view := range v.Views {
		for _, pos := range Positions {
			err := view.Tracks.At(pos).Walk(func(t Track) error {
				return f(view, pos, t)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
