package berth

// MergeLabels merges label maps left to right; later maps win on
// conflicting keys. Nil maps are skipped.
func MergeLabels(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
