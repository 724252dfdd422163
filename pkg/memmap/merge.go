package memmap

import (
	"github.com/samber/lo"
)

// MergeRegionNames merges names into existing without a global sort.
//
// existing keeps its relative order. A name missing from it is inserted right
// after its predecessor in names when that one is already known, else right
// before its successor, else at the end. Neither input is modified.
func MergeRegionNames(existing, names []string) []string {
	merged := lo.Uniq(existing)

	for idx, name := range names {
		if lo.Contains(merged, name) {
			continue
		}

		if idx > 0 {
			if pos := lo.IndexOf(merged, names[idx-1]); pos >= 0 {
				merged = insertAt(merged, pos+1, name)
				continue
			}
		}
		if idx < len(names)-1 {
			if pos := lo.IndexOf(merged, names[idx+1]); pos >= 0 {
				merged = insertAt(merged, pos, name)
				continue
			}
		}
		merged = append(merged, name)
	}
	return merged
}

func insertAt(list []string, pos int, name string) []string {
	list = append(list, "")
	copy(list[pos+1:], list[pos:])
	list[pos] = name
	return list
}

// CollectRegionNames merges the region names of every block, in block order,
// into existing.
func (m *MemoryMap) CollectRegionNames(existing []string) []string {
	names := existing
	for _, b := range m.Blocks {
		names = MergeRegionNames(names, b.RegionNames())
	}
	return names
}
