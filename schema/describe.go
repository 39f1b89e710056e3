package schema

// Description is a snapshot of a registry's definitions in definition
// order.  It shares nothing with the registry.
type Description struct {
	Version  string
	Resolved bool
	Defs     []Def
}

// Describe returns a deep copy of every definition.
func (r *Registry) Describe() *Description {
	d := &Description{
		Version:  r.version,
		Resolved: r.resolved,
		Defs:     make([]Def, len(r.defs)),
	}
	for i, def := range r.defs {
		d.Defs[i] = def.clone()
	}
	return d
}

// Lookup returns the definition with the given name.
func (d *Description) Lookup(name string) (Def, bool) {
	for _, def := range d.Defs {
		if def.DefName() == name {
			return def, true
		}
	}
	return nil, false
}

// Record returns the record with the given name, or nil.
func (d *Description) Record(name string) *Record {
	def, _ := d.Lookup(name)
	rec, _ := def.(*Record)
	return rec
}
