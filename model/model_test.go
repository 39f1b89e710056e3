package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/schema"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	d, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func parseString(t *testing.T, s string) (*Viewconf, error) {
	t.Helper()
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("bad test input: %v", err)
	}
	return FromValue(Default(), raw)
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	if !r.Resolved() {
		t.Fatal("default registry is not resolved")
	}
	if r.Version() != SchemaVersion {
		t.Errorf("Version() = %q", r.Version())
	}
	if r.Names()[0] != RootName {
		t.Errorf("first definition = %q, want %q", r.Names()[0], RootName)
	}
	def, ok := r.Lookup("Track")
	if !ok {
		t.Fatal("Track not defined")
	}
	if diff := cmp.Diff(TrackTypes(), def.(*schema.Union).Values()); diff != "" {
		t.Errorf("Track tags (-want +got):\n%s", diff)
	}
}

func TestParseFixture(t *testing.T) {
	vc, err := Parse(readFixture(t, "viewconf.json"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(vc.Views) != 2 {
		t.Fatalf("got %d views", len(vc.Views))
	}
	aa := vc.View("aa")
	if aa == nil {
		t.Fatal("no view aa")
	}
	if got := len(aa.Tracks.Top); got != 2 {
		t.Fatalf("top tracks = %d", got)
	}
	combo, ok := aa.Tracks.Top[1].(*CombinedTrack)
	if !ok {
		t.Fatalf("top[1] is %T", aa.Tracks.Top[1])
	}
	if _, ok := combo.Contents[0].(*TiledTrack); !ok {
		t.Errorf("contents[0] is %T", combo.Contents[0])
	}
	proj, ok := combo.Contents[1].(*ViewportProjectionTrack)
	if !ok {
		t.Fatalf("contents[1] is %T", combo.Contents[1])
	}
	if diff := cmp.Diff(&Domain{100, 200}, proj.ProjectionXDomain); diff != "" {
		t.Errorf("projection domain (-want +got):\n%s", diff)
	}
	hm, ok := aa.Tracks.Center[0].(*HeatmapTrack)
	if !ok {
		t.Fatalf("center[0] is %T", aa.Tracks.Center[0])
	}
	if hm.TilesetUID != "CQMd6V_cRw6iCI_-Unl3PQ" || hm.Position != "center" {
		t.Errorf("heatmap = %+v", hm)
	}
	wantOpts := map[string]any{"colorRange": []any{"white", "black"}, "maxZoom": nil}
	if diff := cmp.Diff(wantOpts, hm.Options); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
	if aa.Tracks.Bottom == nil || len(aa.Tracks.Bottom) != 0 {
		t.Errorf("bottom = %#v, want empty list", aa.Tracks.Bottom)
	}
	if aa.Tracks.Gallery != nil {
		t.Errorf("gallery = %#v, want absent", aa.Tracks.Gallery)
	}

	lz := vc.ZoomLocks.LocksDict["lockz"]
	wantLock := Lock{UID: "lockz", Views: map[string]LockEntry{"aa": {1, 2, 3}, "bb": {4, 5, 6.5}}}
	if diff := cmp.Diff(wantLock, lz); diff != "" {
		t.Errorf("zoom lock (-want +got):\n%s", diff)
	}
	ll := vc.LocationLocks.LocksByViewUID
	if ll["aa"].Lock != "lockl" || ll["aa"].Axes != nil {
		t.Errorf("location lock aa = %+v", ll["aa"])
	}
	if ax := ll["bb"].Axes; ax == nil || ax.X.Lock != "lockl" || ax.Y.Axis != "y" {
		t.Errorf("location lock bb = %+v", ll["bb"])
	}
	vl := vc.ValueScaleLocks.LocksDict["lockv"]
	wantVL := ValueScaleLock{
		UID:                   "lockv",
		IgnoreOffScreenValues: Ptr(true),
		Tracks:                map[string]ValueScaleLockEntry{"aa.hm": {View: "aa", Track: "hm"}},
	}
	if diff := cmp.Diff(wantVL, vl); diff != "" {
		t.Errorf("value scale lock (-want +got):\n%s", diff)
	}
	ov := vc.View("bb").Overlays[0].Options
	if diff := cmp.Diff([]string{"top", "bottom"}, ov.StrokePos.List); diff != "" {
		t.Errorf("strokePos (-want +got):\n%s", diff)
	}
	if ov.OutlinePos.String != "left" || ov.OutlinePos.List != nil {
		t.Errorf("outlinePos = %+v", ov.OutlinePos)
	}
}

func TestRoundTrip(t *testing.T) {
	vc, err := Parse(readFixture(t, "viewconf.json"))
	if err != nil {
		t.Fatal(err)
	}
	d, err := json.Marshal(vc)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(d)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(vc, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	d2, err := json.Marshal(again)
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != string(d2) {
		t.Errorf("serialized forms differ:\n%s\n%s", d, d2)
	}
}

func TestYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := Parse(readFixture(t, "viewconf.json"))
	if err != nil {
		t.Fatal(err)
	}
	fromYAML, err := ParseFormat(readFixture(t, "viewconf.yaml"), format.YAMLFormat)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("yaml and json differ (-json +yaml):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	vc, err := parseString(t, `{"views": [{"uid": "a", "tracks": {"top": []}}]}`)
	if err != nil {
		t.Fatal(err)
	}
	want := &Viewconf{
		Editable:       Ptr(true),
		ViewEditable:   Ptr(true),
		TracksEditable: Ptr(true),
		Views: []*View{{
			UID:        "a",
			Layout:     Layout{X: 0, Y: 0, W: 12, H: 12},
			Tracks:     Tracks{Top: TrackList{}},
			ZoomLimits: ZoomLimits{Ptr(1.0), nil},
		}},
	}
	if diff := cmp.Diff(want, vc); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}

	vc, err = parseString(t, `{"zoomLocks": {}, "editable": null}`)
	if err != nil {
		t.Fatal(err)
	}
	if !*vc.Editable {
		t.Error("explicit null did not take the default")
	}
	if vc.ZoomLocks.LocksDict == nil || vc.ZoomLocks.LocksByViewUID == nil {
		t.Errorf("lock maps not defaulted: %+v", vc.ZoomLocks)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantPath string
		wantKind error
	}{
		{
			name:     "missing tracks",
			in:       `{"views": [{"uid": "a"}]}`,
			wantPath: "views[0].tracks",
			wantKind: schema.ErrMissingField,
		},
		{
			name:     "missing track type",
			in:       `{"views": [{"layout": {}, "tracks": {"top": [{"uid": "x"}]}}]}`,
			wantPath: "views[0].tracks.top[0].type",
			wantKind: schema.ErrMissingField,
		},
		{
			name:     "missing combined contents",
			in:       `{"views": [{"layout": {}, "tracks": {"top": [{"type": "combined"}]}}]}`,
			wantPath: "views[0].tracks.top[0].contents",
			wantKind: schema.ErrMissingField,
		},
		{
			name:     "unknown track type",
			in:       `{"views": [{"layout": {}, "tracks": {"top": [{"type": "sparkles"}]}}]}`,
			wantPath: "views[0].tracks.top[0].type",
			wantKind: schema.ErrInvalidDiscriminant,
		},
		{
			name:     "negative heatmap width",
			in:       `{"views": [{"layout": {}, "tracks": {"center": [{"type": "heatmap", "width": -5}]}}]}`,
			wantPath: "views[0].tracks.center[0].width",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "negative layout",
			in:       `{"views": [{"layout": {"h": -1}, "tracks": {}}]}`,
			wantPath: "views[0].layout.h",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "malformed tileset uid",
			in:       `{"views": [{"layout": {}, "tracks": {"top": [{"type": "line", "tilesetUid": "no spaces"}]}}]}`,
			wantPath: "views[0].tracks.top[0].tilesetUid",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "width is a string",
			in:       `{"views": [{"layout": {}, "tracks": {"top": [{"type": "line", "width": "wide"}]}}]}`,
			wantPath: "views[0].tracks.top[0].width",
			wantKind: schema.ErrTypeMismatch,
		},
		{
			name:     "unknown root field",
			in:       `{"version": 2}`,
			wantPath: "version",
			wantKind: schema.ErrUnknownField,
		},
		{
			name:     "unknown view field",
			in:       `{"views": [{"layout": {}, "tracks": {}, "color": "red"}]}`,
			wantPath: "views[0].color",
			wantKind: schema.ErrUnknownField,
		},
		{
			name:     "no views",
			in:       `{"views": []}`,
			wantPath: "views",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "duplicate view uid",
			in:       `{"views": [{"uid": "a", "layout": {}, "tracks": {}}, {"uid": "a", "layout": {}, "tracks": {}}]}`,
			wantPath: "views[1].uid",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "inverted zoom limits",
			in:       `{"views": [{"layout": {}, "tracks": {}, "zoomLimits": [5, 1]}]}`,
			wantPath: "views[0].zoomLimits",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "inverted domain",
			in:       `{"views": [{"layout": {}, "tracks": {}, "initialXDomain": [10, 0]}]}`,
			wantPath: "views[0].initialXDomain",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "bad lock entry",
			in:       `{"zoomLocks": {"locksDict": {"l": {"a": [1, 2]}}}}`,
			wantPath: "zoomLocks.locksDict.l.a",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "bad axis",
			in:       `{"locationLocks": {"locksByViewUid": {"a": {"x": {"axis": "z", "lock": "l"}}}}}`,
			wantPath: "locationLocks.locksByViewUid.a.x.axis",
			wantKind: schema.ErrConstraintViolation,
		},
		{
			name:     "unknown zoom lock field",
			in:       `{"zoomLocks": {"extra": {}}}`,
			wantPath: "zoomLocks.extra",
			wantKind: schema.ErrUnknownField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc, err := parseString(t, tt.in)
			if vc != nil {
				t.Errorf("got partial viewconf %+v", vc)
			}
			var ve *schema.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *schema.ValidationError", err)
			}
			if diff := cmp.Diff([]string{tt.wantPath}, ve.Paths()); diff != "" {
				t.Errorf("paths (-want +got):\n%s", diff)
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantKind)
			}
		})
	}
}

func TestKnownTrackTypes(t *testing.T) {
	for _, typ := range []string{"heatmap", "line", "combined", "1d-heatmap", "viewport-projection-center", "top-axis"} {
		t.Run(typ, func(t *testing.T) {
			in := `{"views": [{"layout": {}, "tracks": {"top": [{"type": "` + typ + `", "contents": []}]}}]}`
			vc, err := parseString(t, in)
			if err != nil {
				t.Fatal(err)
			}
			if got := vc.Views[0].Tracks.Top[0].Base().Type; got != typ {
				t.Errorf("type = %q", got)
			}
		})
	}
}

func TestCombinedNesting(t *testing.T) {
	vc, err := parseString(t, `{"views": [{"layout": {}, "tracks": {"center": [
		{"type": "combined", "uid": "outer", "contents": [
			{"type": "heatmap", "uid": "h"},
			{"type": "combined", "uid": "inner", "contents": [
				{"type": "line", "uid": "l"},
				{"type": "top-axis", "uid": "t"}
			]},
			{"type": "2d-chromosome-grid", "uid": "g"}
		]}
	]}}]}`)
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	var types []string
	err = vc.Walk(func(_ *View, pos Position, tr Track) error {
		if pos != Center {
			t.Errorf("track at %s", pos)
		}
		order = append(order, tr.Base().UID)
		types = append(types, tr.Base().Type)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"outer", "h", "inner", "l", "t", "g"}, order); diff != "" {
		t.Errorf("walk order (-want +got):\n%s", diff)
	}
	outer := vc.Views[0].Tracks.Center[0].(*CombinedTrack)
	inner, ok := outer.Contents[1].(*CombinedTrack)
	if !ok {
		t.Fatalf("contents[1] is %T", outer.Contents[1])
	}
	if len(inner.Contents) != 2 {
		t.Errorf("inner contents = %d", len(inner.Contents))
	}
}

func TestIgnoredAndOpenFields(t *testing.T) {
	vc, err := parseString(t, `{"views": [{"layout": {"extra": 1}, "tracks": {"top": [
		{"type": "line", "renderer": "webgl", "options": {"anything": {"goes": [1, "x"]}}}
	]}}]}`)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := vc.ToValue()
	if err != nil {
		t.Fatal(err)
	}
	track := raw.(map[string]any)["views"].([]any)[0].(map[string]any)["tracks"].(map[string]any)["top"].([]any)[0]
	want := map[string]any{
		"type":    "line",
		"options": map[string]any{"anything": map[string]any{"goes": []any{1.0, "x"}}},
	}
	if diff := cmp.Diff(want, track); diff != "" {
		t.Errorf("track (-want +got):\n%s", diff)
	}
}

func TestBuildAndValidate(t *testing.T) {
	view := NewView()
	if len(view.UID) != 32 {
		t.Errorf("NewUID() = %q", view.UID)
	}
	hm, err := NewTrack(HeatmapType)
	if err != nil {
		t.Fatal(err)
	}
	hm.Base().Width = Ptr(200)
	combo, err := NewTrack(CombinedType)
	if err != nil {
		t.Fatal(err)
	}
	line, _ := NewTrack("line")
	combo.(*CombinedTrack).Contents = append(combo.(*CombinedTrack).Contents, line)
	view.Add(Center, hm)
	view.Add(Top, combo)
	vc := &Viewconf{Views: []*View{view}}
	if err := vc.Validate(Default()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	norm, err := vc.Normalize(Default())
	if err != nil {
		t.Fatal(err)
	}
	if !*norm.Editable || norm.Views[0].ZoomLimits[0] == nil {
		t.Errorf("defaults missing after Normalize: %+v", norm)
	}

	hm.Base().Width = Ptr(-1)
	var ve *schema.ValidationError
	if err := vc.Validate(Default()); !errors.As(err, &ve) {
		t.Fatalf("Validate = %v", err)
	}
	if diff := cmp.Diff([]string{"views[0].tracks.center[0].width"}, ve.Paths()); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}

	if _, err := NewTrack("sparkles"); !errors.Is(err, ErrUnknownTrackType) {
		t.Errorf("NewTrack(sparkles) = %v", err)
	}
}

func TestPatch(t *testing.T) {
	a, err := Parse(readFixture(t, "viewconf.json"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := MergePatch(Default(), a, []byte(`{"editable": false, "exportViewUrl": null}`))
	if err != nil {
		t.Fatal(err)
	}
	if *a.Editable != true || a.ExportViewURL == "" {
		t.Error("MergePatch modified its input")
	}
	if *b.Editable || b.ExportViewURL != "" {
		t.Errorf("patched = editable %v url %q", *b.Editable, b.ExportViewURL)
	}
	if Equal(a, b) {
		t.Error("Equal(a, b) after patch")
	}
	d, err := Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	c, err := MergePatch(Default(), a, d)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(b, c) {
		t.Error("applying Diff(a, b) to a does not give b")
	}

	_, err = MergePatch(Default(), a, []byte(`{"views": [{"uid": "x"}]}`))
	if !errors.Is(err, schema.ErrMissingField) {
		t.Errorf("invalid patch result = %v", err)
	}

	j, err := JSONPatch(Default(), a, []byte(`[{"op": "replace", "path": "/views/0/layout/w", "value": 3}]`))
	if err != nil {
		t.Fatal(err)
	}
	if j.Views[0].Layout.W != 3 {
		t.Errorf("w = %d", j.Views[0].Layout.W)
	}
}
