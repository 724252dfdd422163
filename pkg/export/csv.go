// Package export renders parsed memory maps: the region size matrix as CSV
// and human readable tables for the terminal.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// SystemColumn heads the first column of the size matrix.
const SystemColumn = "system"

// RegionSize is the size of the first region called fullname in block order,
// 0 when the map has no such region or it was printed without a size.
func RegionSize(m *memmap.MemoryMap, fullname string) uint64 {
	r, ok := m.Region(fullname)
	if !ok {
		return 0
	}
	return r.Size.N
}

// Row is the CSV record of m: its system name followed by the decimal size
// of every named region.
func Row(m *memmap.MemoryMap, names []string) []string {
	return append([]string{m.System}, lo.Map(names, func(name string, _ int) string {
		return strconv.FormatUint(RegionSize(m, name), 10)
	})...)
}

// WriteCSV writes a header row and one row per map. Columns follow names,
// which is normally the merged region name order of all maps.
func WriteCSV(w io.Writer, maps []*memmap.MemoryMap, names []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{SystemColumn}, names...)); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, m := range maps {
		if err := cw.Write(Row(m, names)); err != nil {
			return errors.Wrapf(err, "write %s", m.System)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
