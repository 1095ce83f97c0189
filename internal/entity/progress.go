package entity

// ComputeProgress returns the fraction of entries marked done. An empty list
// is never complete.
func ComputeProgress(items []BookEntry) float64 {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.Status {
			done++
		}
	}
	return float64(done) / float64(len(items))
}
