package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// Size renders a byte count for people: "1.0 KiB", "46 B" or "-" when the
// report gave no size.
func Size(v memmap.Value) string {
	if !v.Valid() {
		return "-"
	}
	return humanize.IBytes(v.N)
}

// Used sums the sizes of the regions placed in b.
func Used(b *memmap.Block) uint64 {
	var used uint64
	for _, r := range b.Regions {
		used += r.Size.N
	}
	return used
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

// WriteBlocks prints the memory configuration with the space used by the
// regions placed into each block.
func WriteBlocks(w io.Writer, m *memmap.MemoryMap) {
	table := newTable(w, "Block", "Origin", "Length", "Attr", "Regions", "Used")
	for _, b := range m.Blocks {
		used := Used(b)
		usage := humanize.IBytes(used)
		if b.Length.N > 0 && b.Name != memmap.DefaultBlockName {
			usage = fmt.Sprintf("%s (%.1f%%)", usage, float64(used)*100/float64(b.Length.N))
		}
		table.Append([]string{
			b.Name,
			b.Address.String(),
			Size(b.Length),
			b.Attribute,
			strconv.Itoa(len(b.Regions)),
			usage,
		})
	}
	table.Render()
}

// WriteRegions prints one line per region: where it starts, how long it is
// and how many symbols it holds.
func WriteRegions(w io.Writer, regions []*memmap.Region) {
	table := newTable(w, "Region", "Start", "Length", "Bytes", "Load", "Symbols")
	for _, r := range regions {
		var bytes string
		if r.Size.Valid() {
			bytes = strconv.FormatUint(r.Size.N, 10)
		}
		var load string
		if r.LoadAddress.Valid() {
			load = r.LoadAddress.String()
		}
		table.Append([]string{
			r.FullName(),
			r.Address.String(),
			Size(r.Size),
			bytes,
			load,
			strconv.Itoa(len(r.Symbols)),
		})
	}
	table.Render()
}

// WriteSymbols prints the symbols of r with their aliases and input file.
func WriteSymbols(w io.Writer, r *memmap.Region) {
	table := newTable(w, "Address", "Size", "Symbol", "Labels", "File")
	for _, s := range r.Symbols {
		name := s.Primary
		if s.Demangled != "" {
			name = s.Demangled
		}
		table.Append([]string{s.Address.String(), s.Size.String(), name, strings.Join(s.Labels, ", "), s.File})
	}
	table.Render()
}

// WriteCommonSymbols prints the common symbol table and the regions each
// symbol was found in.
func WriteCommonSymbols(w io.Writer, symbols []*memmap.CommonSymbol) {
	table := newTable(w, "Symbol", "Size", "File", "Regions")
	for _, c := range symbols {
		refs := lo.Map(c.References, func(r *memmap.Region, _ int) string {
			return r.FullName()
		})
		table.Append([]string{c.Name, Size(c.Size), c.File, strings.Join(refs, ", ")})
	}
	table.Render()
}
