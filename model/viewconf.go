package model

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Viewconf is the root of a HiGlass view configuration.
type Viewconf struct {
	Editable           *bool            `json:"editable,omitempty"`
	ViewEditable       *bool            `json:"viewEditable,omitempty"`
	TracksEditable     *bool            `json:"tracksEditable,omitempty"`
	ZoomFixed          *bool            `json:"zoomFixed,omitempty"`
	CompactLayout      *bool            `json:"compactLayout,omitempty"`
	ExportViewURL      string           `json:"exportViewUrl,omitempty"`
	TrackSourceServers []string         `json:"trackSourceServers,omitzero"`
	Views              []*View          `json:"views,omitzero"`
	ZoomLocks          *ZoomLocks       `json:"zoomLocks,omitempty"`
	LocationLocks      *LocationLocks   `json:"locationLocks,omitempty"`
	ValueScaleLocks    *ValueScaleLocks `json:"valueScaleLocks,omitempty"`
	ChromInfoPath      string           `json:"chromInfoPath,omitempty"`
}

// View returns the view with the given uid, or nil.
func (v *Viewconf) View(uid string) *View {
	for _, view := range v.Views {
		if view.UID == uid {
			return view
		}
	}
	return nil
}

// View is one panel of a viewconf.
type View struct {
	Layout                         Layout                   `json:"layout"`
	Tracks                         Tracks                   `json:"tracks"`
	UID                            string                   `json:"uid,omitempty"`
	AutocompleteSource             string                   `json:"autocompleteSource,omitempty"`
	ChromInfoPath                  string                   `json:"chromInfoPath,omitempty"`
	GenomePositionSearchBox        *GenomePositionSearchBox `json:"genomePositionSearchBox,omitempty"`
	GenomePositionSearchBoxVisible *bool                    `json:"genomePositionSearchBoxVisible,omitempty"`
	InitialXDomain                 *Domain                  `json:"initialXDomain,omitempty"`
	InitialYDomain                 *Domain                  `json:"initialYDomain,omitempty"`
	Overlays                       []*Overlay               `json:"overlays,omitzero"`
	SelectionView                  *bool                    `json:"selectionView,omitempty"`
	ZoomFixed                      *bool                    `json:"zoomFixed,omitempty"`
	ZoomLimits                     ZoomLimits               `json:"zoomLimits,omitzero"`
}

// Domain is a [start, end] interval.
type Domain [2]float64

// ZoomLimits bounds a view's zoom; a nil upper bound is unbounded.
type ZoomLimits [2]*float64

// Layout is the size and position of a view on the grid.
type Layout struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	W      int   `json:"w"`
	H      int   `json:"h"`
	Moved  *bool `json:"moved,omitempty"`
	Static *bool `json:"static,omitempty"`
}

// Position names a track slot of a view.
type Position string

const (
	Left    Position = "left"
	Right   Position = "right"
	Top     Position = "top"
	Bottom  Position = "bottom"
	Center  Position = "center"
	Whole   Position = "whole"
	Gallery Position = "gallery"
)

// Positions lists the track slots in declaration order.
var Positions = []Position{Left, Right, Top, Bottom, Center, Whole, Gallery}

// Tracks holds a view's track lists by position.  A nil list is absent;
// an empty list is present and empty.
type Tracks struct {
	Left    TrackList `json:"left,omitzero"`
	Right   TrackList `json:"right,omitzero"`
	Top     TrackList `json:"top,omitzero"`
	Bottom  TrackList `json:"bottom,omitzero"`
	Center  TrackList `json:"center,omitzero"`
	Whole   TrackList `json:"whole,omitzero"`
	Gallery TrackList `json:"gallery,omitzero"`
}

// At returns a pointer to the list at pos, or nil for an unknown position.
func (t *Tracks) At(pos Position) *TrackList {
	switch pos {
	case Left:
		return &t.Left
	case Right:
		return &t.Right
	case Top:
		return &t.Top
	case Bottom:
		return &t.Bottom
	case Center:
		return &t.Center
	case Whole:
		return &t.Whole
	case Gallery:
		return &t.Gallery
	}
	return nil
}

// All iterates over the top-level tracks of every position in order.
func (t *Tracks) All() iter.Seq2[Position, Track] {
	return func(yield func(Position, Track) bool) {
		for _, pos := range Positions {
			for _, tr := range *t.At(pos) {
				if !yield(pos, tr) {
					return
				}
			}
		}
	}
}

// GenomePositionSearchBox configures location search within a view.
type GenomePositionSearchBox struct {
	AutocompleteServer string `json:"autocompleteServer,omitempty"`
	AutocompleteID     string `json:"autocompleteId,omitempty"`
	ChromInfoServer    string `json:"chromInfoServer,omitempty"`
	ChromInfoID        string `json:"chromInfoId,omitempty"`
	Visible            *bool  `json:"visible,omitempty"`
}

type Overlay struct {
	Type          string          `json:"type,omitempty"`
	UID           string          `json:"uid,omitempty"`
	ChromInfoPath string          `json:"chromInfoPath,omitempty"`
	Includes      []string        `json:"includes,omitzero"`
	Options       *OverlayOptions `json:"options,omitempty"`
}

type OverlayOptions struct {
	Extent         [][]int      `json:"extent,omitzero"`
	MinWidth       *float64     `json:"minWidth,omitempty"`
	Fill           string       `json:"fill,omitempty"`
	FillOpacity    *float64     `json:"fillOpacity,omitempty"`
	Stroke         string       `json:"stroke,omitempty"`
	StrokeOpacity  *float64     `json:"strokeOpacity,omitempty"`
	StrokeWidth    *float64     `json:"strokeWidth,omitempty"`
	StrokePos      StringOrList `json:"strokePos,omitzero"`
	Outline        string       `json:"outline,omitempty"`
	OutlineOpacity *float64     `json:"outlineOpacity,omitempty"`
	OutlineWidth   *float64     `json:"outlineWidth,omitempty"`
	OutlinePos     StringOrList `json:"outlinePos,omitzero"`
}

// StringOrList holds either a string or a list of strings.
type StringOrList struct {
	String string
	List   []string
}

func (s StringOrList) IsZero() bool {
	return s.String == "" && s.List == nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	if s.List != nil {
		return json.Marshal(s.List)
	}
	return json.Marshal(s.String)
}

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	*s = StringOrList{}
	if len(data) != 0 && data[0] == '[' {
		return json.Unmarshal(data, &s.List)
	}
	if err := json.Unmarshal(data, &s.String); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	return nil
}
