package tabular

// Upsert merges a fresh batch of rows into a previously persisted set, both
// keyed by the supplied key function. Persisted rows whose key reappears in
// the fresh batch are dropped; the fresh batch is then appended wholesale.
// Rows present only in the persisted set survive unchanged. Row order is
// surviving persisted rows first, then the fresh batch in its own order.
func Upsert[R any, K comparable](persisted, fresh []R, key func(R) K) []R {
	freshKeys := make(map[K]struct{}, len(fresh))
	for _, row := range fresh {
		freshKeys[key(row)] = struct{}{}
	}

	merged := make([]R, 0, len(persisted)+len(fresh))
	for _, row := range persisted {
		if _, replaced := freshKeys[key(row)]; !replaced {
			merged = append(merged, row)
		}
	}
	return append(merged, fresh...)
}
