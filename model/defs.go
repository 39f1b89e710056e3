package model

import (
	"github.com/signadot/viewconf/schema"
)

// Register defines every viewconf type in r.  Types are defined from the
// root down, so most references are forward references.
func Register(r *schema.Registry) error {
	for _, defs := range [][]schema.Def{
		rootDefs(),
		viewDefs(),
		trackDefs(),
		lockDefs(),
	} {
		if err := r.Define(defs...); err != nil {
			return err
		}
	}
	return nil
}

func nonNegative() *schema.Type {
	return schema.Integer().Min(0)
}

func domain() *schema.Type {
	return schema.TupleOf(schema.Number(), schema.Number())
}

func openObject() *schema.Type {
	return schema.MapOf(schema.Any())
}

func orderedDomain(field string) *schema.Rule {
	return &schema.Rule{
		Expr:    field + " == nil || " + field + "[0] <= " + field + "[1]",
		Message: field + " starts after it ends",
		Field:   field,
	}
}

func rootDefs() []schema.Def {
	return []schema.Def{
		&schema.Record{
			Name:        RootName,
			Title:       "HiGlass viewconf",
			Description: "Root object describing a HiGlass visualization.",
			Unknown:     schema.UnknownForbid,
			Fields: []*schema.Field{
				{Name: "editable", Type: schema.Boolean(), Default: true},
				{Name: "viewEditable", Type: schema.Boolean(), Default: true},
				{Name: "tracksEditable", Type: schema.Boolean(), Default: true},
				{Name: "zoomFixed", Type: schema.Boolean()},
				{Name: "compactLayout", Type: schema.Boolean()},
				{Name: "exportViewUrl", Type: schema.String()},
				{Name: "trackSourceServers", Type: schema.ArrayOf(schema.String())},
				{Name: "views", Type: schema.ArrayOf(schema.Ref("View")).Len(1, -1).Unique("uid")},
				{Name: "zoomLocks", Type: schema.Ref("ZoomLocks")},
				{Name: "locationLocks", Type: schema.Ref("LocationLocks")},
				{Name: "valueScaleLocks", Type: schema.Ref("ValueScaleLocks")},
				{Name: "chromInfoPath", Type: schema.String()},
			},
		},
	}
}

func viewDefs() []schema.Def {
	return []schema.Def{
		&schema.Record{
			Name:        "View",
			Description: "An arrangement of Tracks to display within a given Layout.",
			Unknown:     schema.UnknownForbid,
			Fields: []*schema.Field{
				{Name: "layout", Type: schema.Ref("Layout"), Default: map[string]any{}},
				{Name: "tracks", Type: schema.Ref("Tracks"), Required: true},
				{Name: "uid", Type: schema.String()},
				{Name: "autocompleteSource", Type: schema.String()},
				{Name: "chromInfoPath", Type: schema.String()},
				{Name: "genomePositionSearchBox", Type: schema.Ref("GenomePositionSearchBox")},
				{Name: "genomePositionSearchBoxVisible", Type: schema.Boolean()},
				{Name: "initialXDomain", Type: domain()},
				{Name: "initialYDomain", Type: domain()},
				{Name: "overlays", Type: schema.ArrayOf(schema.Ref("Overlay"))},
				{Name: "selectionView", Type: schema.Boolean()},
				{Name: "zoomFixed", Type: schema.Boolean()},
				{
					Name:    "zoomLimits",
					Type:    schema.TupleOf(schema.Number(), schema.Number().OrNull()),
					Default: []any{1, nil},
				},
			},
			Rules: []*schema.Rule{
				orderedDomain("initialXDomain"),
				orderedDomain("initialYDomain"),
				{
					Expr:    "zoomLimits[1] == nil || zoomLimits[0] <= zoomLimits[1]",
					Message: "zoomLimits lower bound exceeds upper bound",
					Field:   "zoomLimits",
				},
			},
		},
		tracksDef(),
		&schema.Record{
			Name:        "Layout",
			Description: "Size and position of a View.",
			Fields: []*schema.Field{
				{Name: "x", Type: nonNegative(), Default: 0, Description: "The X Position"},
				{Name: "y", Type: nonNegative(), Default: 0, Description: "The Y Position"},
				{Name: "w", Type: nonNegative(), Default: 12, Description: "Width"},
				{Name: "h", Type: nonNegative(), Default: 12, Description: "Height"},
				{Name: "moved", Type: schema.Boolean()},
				{Name: "static", Type: schema.Boolean()},
			},
		},
		&schema.Record{
			Name:        "GenomePositionSearchBox",
			Description: "Locations to search within a View.",
			Fields: []*schema.Field{
				{
					Name:        "autocompleteServer",
					Type:        schema.String(),
					Description: "The Autocomplete Server URL",
					Examples:    []any{"//higlass.io/api/v1"},
				},
				{
					Name:        "autocompleteId",
					Type:        schema.String(),
					Description: "The Autocomplete ID",
					Examples:    []any{"OHJakQICQD6gTD7skx4EWA"},
				},
				{
					Name:        "chromInfoServer",
					Type:        schema.String(),
					Description: "The Chrominfo Server URL",
					Examples:    []any{"//higlass.io/api/v1"},
				},
				{
					Name:        "chromInfoId",
					Type:        schema.String(),
					Description: "The Chromosome Info ID",
					Examples:    []any{"hg19"},
				},
				{Name: "visible", Type: schema.Boolean(), Description: "The Visible Schema"},
			},
		},
		&schema.Record{
			Name: "Overlay",
			Fields: []*schema.Field{
				{Name: "type", Type: schema.String()},
				{Name: "uid", Type: schema.String()},
				{Name: "chromInfoPath", Type: schema.String()},
				{Name: "includes", Type: schema.ArrayOf(schema.String())},
				{Name: "options", Type: schema.Ref("OverlayOptions")},
			},
		},
		&schema.Record{
			Name: "OverlayOptions",
			Fields: []*schema.Field{
				{Name: "extent", Type: schema.ArrayOf(schema.ArrayOf(schema.Integer()))},
				{Name: "minWidth", Type: schema.Number()},
				{Name: "fill", Type: schema.String()},
				{Name: "fillOpacity", Type: schema.Number()},
				{Name: "stroke", Type: schema.String()},
				{Name: "strokeOpacity", Type: schema.Number()},
				{Name: "strokeWidth", Type: schema.Number()},
				{Name: "strokePos", Type: schema.OneOf(schema.String(), schema.ArrayOf(schema.String()))},
				{Name: "outline", Type: schema.String()},
				{Name: "outlineOpacity", Type: schema.Number()},
				{Name: "outlineWidth", Type: schema.Number()},
				{Name: "outlinePos", Type: schema.OneOf(schema.String(), schema.ArrayOf(schema.String()))},
			},
		},
	}
}

func tracksDef() *schema.Record {
	rec := &schema.Record{
		Name:        "Tracks",
		Description: "Track layout within a View.",
	}
	for _, pos := range Positions {
		rec.Fields = append(rec.Fields, &schema.Field{
			Name: string(pos),
			Type: schema.ArrayOf(schema.Ref("Track")),
		})
	}
	return rec
}

// trackFields returns the fields common to every track variant, the type
// tag restricted to tags.
func trackFields(tags []string) []*schema.Field {
	tagVals := make([]any, len(tags))
	for i, t := range tags {
		tagVals[i] = t
	}
	return []*schema.Field{
		{Name: "type", Type: schema.String().OneOfValues(tagVals...), Required: true},
		{Name: "uid", Type: schema.String()},
		{Name: "width", Type: nonNegative()},
		{Name: "height", Type: nonNegative()},
		{Name: "options", Type: openObject()},
	}
}

func tilesetFields() []*schema.Field {
	return []*schema.Field{
		{Name: "server", Type: schema.String(), Description: "Tileset server URL"},
		{
			Name:        "tilesetUid",
			Type:        schema.String().Match(TilesetUIDPattern),
			Description: "Tileset identifier on the server",
		},
		{Name: "name", Type: schema.String()},
	}
}

func fields(groups ...[]*schema.Field) []*schema.Field {
	var res []*schema.Field
	for _, g := range groups {
		res = append(res, g...)
	}
	return res
}

func trackDefs() []schema.Def {
	projection := append([]string(nil), ViewportProjectionTypes...)
	return []schema.Def{
		&schema.Union{
			Name:        "Track",
			Description: "A track, selected by its type.",
			Tag:         "type",
			Variants: []*schema.Variant{
				{Values: []string{HeatmapType}, Record: "HeatmapTrack"},
				{Values: []string{CombinedType}, Record: "CombinedTrack"},
				{Values: projection, Record: "ViewportProjectionTrack"},
				{Values: append([]string(nil), TiledTypes...), Record: "TiledTrack"},
			},
		},
		&schema.Record{
			Name: "HeatmapTrack",
			Fields: fields(
				trackFields([]string{HeatmapType}),
				tilesetFields(),
				[]*schema.Field{
					{Name: "data", Type: schema.Ref("Data")},
					{Name: "position", Type: schema.String()},
					{Name: "transforms", Type: schema.ArrayOf(schema.Any())},
				},
			),
		},
		&schema.Record{
			Name: "CombinedTrack",
			Fields: fields(
				trackFields([]string{CombinedType}),
				[]*schema.Field{
					{Name: "contents", Type: schema.ArrayOf(schema.Ref("Track")), Required: true},
					{Name: "position", Type: schema.String()},
				},
			),
		},
		&schema.Record{
			Name: "ViewportProjectionTrack",
			Fields: fields(
				trackFields(projection),
				[]*schema.Field{
					{Name: "fromViewUid", Type: schema.String()},
					{Name: "projectionXDomain", Type: domain()},
					{Name: "projectionYDomain", Type: domain()},
					{Name: "transforms", Type: schema.ArrayOf(schema.Any())},
					{Name: "x", Type: schema.Number()},
					{Name: "y", Type: schema.Number()},
				},
			),
			Rules: []*schema.Rule{
				orderedDomain("projectionXDomain"),
				orderedDomain("projectionYDomain"),
			},
		},
		&schema.Record{
			Name: "TiledTrack",
			Fields: fields(
				trackFields(TiledTypes),
				tilesetFields(),
				[]*schema.Field{
					{Name: "data", Type: schema.Ref("Data")},
					{Name: "chromInfoPath", Type: schema.String()},
					{Name: "fromViewUid", Type: schema.String()},
					{Name: "x", Type: schema.Number()},
					{Name: "y", Type: schema.Number()},
				},
			),
		},
		&schema.Record{
			Name: "Data",
			Fields: []*schema.Field{
				{Name: "type", Type: schema.String()},
				{Name: "url", Type: schema.String()},
				{Name: "server", Type: schema.String()},
				{Name: "filetype", Type: schema.String()},
				{Name: "children", Type: schema.ArrayOf(schema.Any())},
				{Name: "tilesetInfo", Type: openObject()},
				{Name: "tiles", Type: openObject()},
			},
		},
	}
}

func lockDefs() []schema.Def {
	lockMap := func(value *schema.Type) *schema.Field {
		return &schema.Field{Name: "locksDict", Type: schema.MapOf(value), Default: map[string]any{}}
	}
	return []schema.Def{
		&schema.Record{
			Name:    "ZoomLocks",
			Unknown: schema.UnknownForbid,
			Fields: []*schema.Field{
				{Name: "locksByViewUid", Type: schema.MapOf(schema.String()), Default: map[string]any{}},
				lockMap(schema.Ref("Lock")),
			},
		},
		&schema.Record{
			Name: "LocationLocks",
			Fields: []*schema.Field{
				{
					Name:    "locksByViewUid",
					Type:    schema.MapOf(schema.OneOf(schema.String(), schema.Ref("AxisSpecificLocks"))),
					Default: map[string]any{},
				},
				lockMap(schema.Ref("Lock")),
			},
		},
		&schema.Record{
			Name:    "ValueScaleLocks",
			Unknown: schema.UnknownForbid,
			Fields: []*schema.Field{
				{Name: "locksByViewUid", Type: schema.MapOf(schema.String()), Default: map[string]any{}},
				lockMap(schema.Ref("ValueScaleLock")),
			},
		},
		&schema.Record{
			Name:       "Lock",
			Unknown:    schema.UnknownAllow,
			Additional: schema.TupleOf(schema.Number(), schema.Number(), schema.Number()),
			Fields: []*schema.Field{
				{Name: "uid", Type: schema.String()},
			},
		},
		&schema.Record{
			Name:       "ValueScaleLock",
			Unknown:    schema.UnknownAllow,
			Additional: schema.Ref("ValueScaleLockEntry"),
			Fields: []*schema.Field{
				{Name: "uid", Type: schema.String()},
				{Name: "ignoreOffScreenValues", Type: schema.Boolean()},
			},
		},
		&schema.Record{
			Name: "ValueScaleLockEntry",
			Fields: []*schema.Field{
				{Name: "view", Type: schema.String(), Required: true},
				{Name: "track", Type: schema.String(), Required: true},
			},
		},
		&schema.Record{
			Name: "AxisSpecificLocks",
			Fields: []*schema.Field{
				{Name: "x", Type: schema.Ref("AxisSpecificLock")},
				{Name: "y", Type: schema.Ref("AxisSpecificLock")},
			},
		},
		&schema.Record{
			Name: "AxisSpecificLock",
			Fields: []*schema.Field{
				{Name: "axis", Type: schema.String().OneOfValues("x", "y"), Required: true},
				{Name: "lock", Type: schema.String(), Required: true},
			},
		},
	}
}
