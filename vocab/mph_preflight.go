package vocab

import (
	"github.com/aelaguiz/mph"
)

// tryBuildMPH builds a CHD minimal perfect hash over tokens and reports
// whether construction succeeded. mph.Build requires its key set to be
// pairwise distinct, so a failure here is an early, cheap signal that the
// token set (still in input order, before the authoritative sorted scan)
// contains a duplicate.
func tryBuildMPH(tokens [][]byte) bool {
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = string(t)
	}
	_, err := mph.Build(keys)
	return err == nil
}
