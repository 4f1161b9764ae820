package vocab

// mphPreflight attempts to build a static minimal perfect hash over the raw,
// pre-sort token set using github.com/aelaguiz/mph. MPH construction over a
// key set requires the keys to be pairwise distinct. The result is
// discarded either way and never causes Build to fail: rejectDuplicates,
// run after sorting, is the only check that rejects duplicates and reports
// the offending bytes.
func mphPreflight(tokens [][]byte) {
	if len(tokens) == 0 {
		return
	}
	_ = tryBuildMPH(tokens)
}

// rejectDuplicates scans the sorted token slice for adjacent equal entries,
// which is how duplicates in a sorted set are always found. It is the
// authoritative duplicate check behind Builder.Build.
func rejectDuplicates(sorted [][]byte) error {
	for i := 1; i < len(sorted); i++ {
		if string(sorted[i-1]) == string(sorted[i]) {
			return &DuplicateTokenError{Token: append([]byte(nil), sorted[i]...)}
		}
	}
	return nil
}
