package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// LockEntry is a locked view's [x, y, zoom] at lock time.
type LockEntry [3]float64

// Lock groups views locked together.  Its JSON form is an object with an
// optional "uid" key; every other key is a view uid.
type Lock struct {
	UID   string
	Views map[string]LockEntry
}

func (l Lock) MarshalJSON() ([]byte, error) {
	return marshalFlat(l.UID, nil, l.Views)
}

func (l *Lock) UnmarshalJSON(data []byte) error {
	*l = Lock{}
	return unmarshalFlat(data, map[string]any{"uid": &l.UID}, &l.Views)
}

// ValueScaleLockEntry names a track of a view.
type ValueScaleLockEntry struct {
	View  string `json:"view"`
	Track string `json:"track"`
}

// ValueScaleLock groups tracks sharing a value scale.  Keys other than
// "uid" and "ignoreOffScreenValues" name lock members.
type ValueScaleLock struct {
	UID                   string
	IgnoreOffScreenValues *bool
	Tracks                map[string]ValueScaleLockEntry
}

func (l ValueScaleLock) MarshalJSON() ([]byte, error) {
	var fixed map[string]any
	if l.IgnoreOffScreenValues != nil {
		fixed = map[string]any{"ignoreOffScreenValues": *l.IgnoreOffScreenValues}
	}
	return marshalFlat(l.UID, fixed, l.Tracks)
}

func (l *ValueScaleLock) UnmarshalJSON(data []byte) error {
	*l = ValueScaleLock{}
	return unmarshalFlat(data, map[string]any{
		"uid":                   &l.UID,
		"ignoreOffScreenValues": &l.IgnoreOffScreenValues,
	}, &l.Tracks)
}

// marshalFlat writes uid, the fixed keys and the entries as one object.
// encoding/json sorts map keys, so the output is deterministic.
func marshalFlat[E any](uid string, fixed map[string]any, entries map[string]E) ([]byte, error) {
	m := make(map[string]any, len(entries)+len(fixed)+1)
	for k, e := range entries {
		m[k] = e
	}
	maps.Copy(m, fixed)
	if uid != "" {
		m["uid"] = uid
	}
	return json.Marshal(m)
}

func unmarshalFlat[E any](data []byte, fixed map[string]any, entries *map[string]E) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		if dst, ok := fixed[k]; ok {
			if err := json.Unmarshal(raw[k], dst); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			continue
		}
		var e E
		if err := json.Unmarshal(raw[k], &e); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		if *entries == nil {
			*entries = map[string]E{}
		}
		(*entries)[k] = e
	}
	return nil
}

// AxisSpecificLock ties one axis of a view to a lock.
type AxisSpecificLock struct {
	Axis string `json:"axis"`
	Lock string `json:"lock"`
}

type AxisSpecificLocks struct {
	X *AxisSpecificLock `json:"x,omitempty"`
	Y *AxisSpecificLock `json:"y,omitempty"`
}

// LocationLockRef is a lock uid or per-axis locks.
type LocationLockRef struct {
	Lock string
	Axes *AxisSpecificLocks
}

func (r LocationLockRef) MarshalJSON() ([]byte, error) {
	if r.Axes != nil {
		return json.Marshal(r.Axes)
	}
	return json.Marshal(r.Lock)
}

func (r *LocationLockRef) UnmarshalJSON(data []byte) error {
	*r = LocationLockRef{}
	if len(data) != 0 && data[0] == '{' {
		r.Axes = &AxisSpecificLocks{}
		return json.Unmarshal(data, r.Axes)
	}
	return json.Unmarshal(data, &r.Lock)
}

type LocationLocks struct {
	LocksByViewUID map[string]LocationLockRef `json:"locksByViewUid,omitzero"`
	LocksDict      map[string]Lock            `json:"locksDict,omitzero"`
}

type ZoomLocks struct {
	LocksByViewUID map[string]string `json:"locksByViewUid,omitzero"`
	LocksDict      map[string]Lock   `json:"locksDict,omitzero"`
}

type ValueScaleLocks struct {
	LocksByViewUID map[string]string         `json:"locksByViewUid,omitzero"`
	LocksDict      map[string]ValueScaleLock `json:"locksDict,omitzero"`
}
