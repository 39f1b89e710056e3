package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	HeatmapType  = "heatmap"
	CombinedType = "combined"
)

// ViewportProjectionTypes are the tags of ViewportProjectionTrack.
var ViewportProjectionTypes = []string{
	"viewport-projection-center",
	"viewport-projection-vertical",
	"viewport-projection-horizontal",
}

// TiledTypes are the tags of TiledTrack.
var TiledTypes = []string{
	"multivec",
	"1d-heatmap",
	"line",
	"point",
	"bar",
	"divergent-bar",
	"stacked-interval",
	"gene-annotations",
	"linear-2d-rectangle-domains",
	"chromosome-labels",
	"linear-heatmap",
	"1d-value-interval",
	"2d-annotations",
	"2d-chromosome-annotations",
	"2d-chromosome-grid",
	"2d-chromosome-labels",
	"2d-rectangle-domains",
	"2d-tiles",
	"arrowhead-domains",
	"bedlike",
	"cross-rule",
	"dummy",
	"horizontal-1d-annotations",
	"horizontal-1d-heatmap",
	"horizontal-1d-tiles",
	"horizontal-1d-value-interval",
	"horizontal-2d-rectangle-domains",
	"horizontal-bar",
	"horizontal-chromosome-grid",
	"horizontal-chromosome-labels",
	"horizontal-divergent-bar",
	"horizontal-gene-annotations",
	"horizontal-heatmap",
	"horizontal-line",
	"horizontal-multivec",
	"horizontal-point",
	"horizontal-rule",
	"horizontal-vector-heatmap",
	"image-tiles",
	"left-axis",
	"left-stacked-interval",
	"mapbox-tiles",
	"osm-2d-tile-ids",
	"osm-tiles",
	"raster-tiles",
	"simple-svg",
	"square-markers",
	"top-axis",
	"top-stacked-interval",
	"vertical-1d-annotations",
	"vertical-1d-heatmap",
	"vertical-1d-tiles",
	"vertical-1d-value-interval",
	"vertical-2d-rectangle-domains",
	"vertical-bar",
	"vertical-bedlike",
	"vertical-chromosome-grid",
	"vertical-chromosome-labels",
	"vertical-gene-annotations",
	"vertical-heatmap",
	"vertical-line",
	"vertical-multivec",
	"vertical-point",
	"vertical-rule",
	"vertical-vector-heatmap",
}

// TrackTypes returns every known track type tag.
func TrackTypes() []string {
	res := []string{HeatmapType, CombinedType}
	res = append(res, ViewportProjectionTypes...)
	return append(res, TiledTypes...)
}

// Track is one of *HeatmapTrack, *CombinedTrack, *ViewportProjectionTrack
// or *TiledTrack.
type Track interface {
	Base() *TrackBase
	isTrack()
}

// TrackBase holds the fields shared by every track.
type TrackBase struct {
	Type    string         `json:"type"`
	UID     string         `json:"uid,omitempty"`
	Width   *int           `json:"width,omitempty"`
	Height  *int           `json:"height,omitempty"`
	Options map[string]any `json:"options,omitzero"`
}

func (b *TrackBase) Base() *TrackBase { return b }

// TilesetSourceRef locates a remote tileset.
type TilesetSourceRef struct {
	Server     string `json:"server,omitempty"`
	TilesetUID string `json:"tilesetUid,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Data is an inline data source.
type Data struct {
	Type        string         `json:"type,omitempty"`
	URL         string         `json:"url,omitempty"`
	Server      string         `json:"server,omitempty"`
	Filetype    string         `json:"filetype,omitempty"`
	Children    []any          `json:"children,omitzero"`
	TilesetInfo map[string]any `json:"tilesetInfo,omitzero"`
	Tiles       map[string]any `json:"tiles,omitzero"`
}

type HeatmapTrack struct {
	TrackBase
	TilesetSourceRef
	Data       *Data  `json:"data,omitempty"`
	Position   string `json:"position,omitempty"`
	Transforms []any  `json:"transforms,omitzero"`
}

// CombinedTrack overlays its contents in one track slot.
type CombinedTrack struct {
	TrackBase
	Contents TrackList `json:"contents"`
	Position string    `json:"position,omitempty"`
}

type ViewportProjectionTrack struct {
	TrackBase
	FromViewUID       string   `json:"fromViewUid,omitempty"`
	ProjectionXDomain *Domain  `json:"projectionXDomain,omitempty"`
	ProjectionYDomain *Domain  `json:"projectionYDomain,omitempty"`
	Transforms        []any    `json:"transforms,omitzero"`
	X                 *float64 `json:"x,omitempty"`
	Y                 *float64 `json:"y,omitempty"`
}

// TiledTrack is any track type other than heatmap, combined and the
// viewport projections.
type TiledTrack struct {
	TrackBase
	TilesetSourceRef
	Data          *Data    `json:"data,omitempty"`
	ChromInfoPath string   `json:"chromInfoPath,omitempty"`
	FromViewUID   string   `json:"fromViewUid,omitempty"`
	X             *float64 `json:"x,omitempty"`
	Y             *float64 `json:"y,omitempty"`
}

func (*HeatmapTrack) isTrack()            {}
func (*CombinedTrack) isTrack()           {}
func (*ViewportProjectionTrack) isTrack() {}
func (*TiledTrack) isTrack()              {}

// NewTrack returns an empty track of the variant for typ.
func NewTrack(typ string) (Track, error) {
	var t Track
	switch {
	case typ == HeatmapType:
		t = &HeatmapTrack{}
	case typ == CombinedType:
		t = &CombinedTrack{Contents: TrackList{}}
	case slices.Contains(ViewportProjectionTypes, typ):
		t = &ViewportProjectionTrack{}
	case slices.Contains(TiledTypes, typ):
		t = &TiledTrack{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrackType, typ)
	}
	t.Base().Type = typ
	return t, nil
}

// TrackList is a list of tracks decoded by their type tag.
type TrackList []Track

func (l *TrackList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*l = nil
		return nil
	}
	res := make(TrackList, len(raws))
	for i, raw := range raws {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
		t, err := NewTrack(head.Type)
		if err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, t); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
		res[i] = t
	}
	*l = res
	return nil
}

// Walk calls f on each track in l and, depth first, on the contents of
// combined tracks, stopping at the first error.
func (l TrackList) Walk(f func(Track) error) error {
	for _, t := range l {
		if err := f(t); err != nil {
			return err
		}
		if c, ok := t.(*CombinedTrack); ok {
			if err := c.Contents.Walk(f); err != nil {
				return err
			}
		}
	}
	return nil
}
