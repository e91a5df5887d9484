package deps

// Extract collects the specifiers a manifest declares in the given
// sections. With no types, DefaultDepTypes are read. Sections the manifest
// does not declare are skipped; a name declared in several sections gets
// the union of its specifiers.
func Extract(m *Manifest, types ...DepType) DemandSet {
	if len(types) == 0 {
		types = DefaultDepTypes
	}
	out := make(DemandSet)
	for _, t := range types {
		sec, ok := m.Section(t)
		if !ok {
			continue
		}
		for name, spec := range sec {
			out.Add(name, spec)
		}
	}
	return out
}
