// Package model defines the HiGlass view configuration types.
//
// Register adds the definitions to a schema.Registry; Default returns a
// registry built at initialization.  Documents are validated by the
// registry and then decoded into the typed Viewconf:
//
//	vc, err := model.Parse(data)
//	var ve *schema.ValidationError
//	if errors.As(err, &ve) {
//	    for _, fe := range ve.Errors {
//	        fmt.Println(fe.FieldPath(), fe)
//	    }
//	}
//
// Tracks are a union over their "type" tag.  The Go form is the Track
// interface, implemented by *HeatmapTrack, *CombinedTrack,
// *ViewportProjectionTrack and *TiledTrack.  A combined track holds further
// tracks in Contents.
//
// Unknown keys are rejected on Viewconf, View, ZoomLocks and
// ValueScaleLocks and dropped elsewhere.  Track options are kept as an
// open map.
package model
