package deps

// Merge folds per-manifest demand into one DemandSet. Specifiers that point
// at the local filesystem are dropped, and a name left without specifiers
// is omitted. The result does not depend on the order of sets.
func Merge(sets ...DemandSet) DemandSet {
	out := make(DemandSet)
	for _, set := range sets {
		for name, specs := range set {
			for spec := range specs {
				if IsFileURL(spec) {
					continue
				}
				out.Add(name, spec)
			}
		}
	}
	return out
}
