package kdags

import (
	"slices"

	"golang.org/x/exp/maps"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
