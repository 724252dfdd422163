package mapfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

func parseRegion(t *testing.T, lines ...string) (*memmap.Region, *Cursor) {
	t.Helper()

	c := NewCursor(NewSection(LinkerMemoryMap, lines...))
	r := ParseRegion(c, nil)
	require.NotNil(t, r)
	return r, c
}

func TestSplitName(t *testing.T) {
	type arg struct {
		head   string
		domain string
		name   string
	}

	args := []arg{
		{".text", ".text", ""},
		{".rodata.pin_B6", ".rodata", ".pin_B6"},
		{".ARM.attributes", ".ARM", ".attributes"},
		{".text._ZN3foo3barEv", ".text", "._ZN3foo3barEv"},
		{"/DISCARD/", "/DISCARD/", ""},
		{".", ".", ""},
		{"..x", "..x", ""},
	}

	for _, arg := range args {
		domain, name := SplitName(arg.head)
		assert.Equal(t, arg.domain, domain, arg.head)
		assert.Equal(t, arg.name, name, arg.head)
	}
}

func TestClassify(t *testing.T) {
	type arg struct {
		line string
		want bodyLine
	}

	args := []arg{
		{" *fill*         0x0800011c        0x4 00", fillLine{}},
		{" *(.text*)", patternLine{}},
		{" KEEP (*(.isr_vector))", patternLine{}},
		{" .text          0x080000c0       0x5c main.o", inputSectionLine{}},
		{" COMMON         0x20000014      0x334 py/mpstate.o", inputSectionLine{}},
		{"                0x08000260       0x10 pins.o", footprintLine{}},
		{"                0x08000260", footprintLine{}},
		{"                0x080000c0                main", labelLine{}},
		{"                0x08000188                . = ALIGN (0x4)", assignmentLine{}},
		{"                0x20000348                PROVIDE (end = .)", assignmentLine{}},
		{"                0x20000000                _sdata = .", assignmentLine{}},
		{"                0x20000000                .", assignmentLine{}},
		{" something odd", opaqueLine{}},
	}

	for _, arg := range args {
		assert.IsType(t, arg.want, classify(arg.line), arg.line)
	}
}

func TestClassifyFields(t *testing.T) {
	fill := classify(" *fill*         0x0800011c        0x4 00").(fillLine)
	assert.Equal(t, "0x0800011c", fill.addr)
	assert.Equal(t, "0x4", fill.size)
	assert.Equal(t, "00", fill.with)

	fp := classify("                0x20000000       0x10 load address 0x08000270").(footprintLine)
	assert.Equal(t, "0x20000000", fp.addr)
	assert.Equal(t, "0x10", fp.size)
	assert.Equal(t, []string{"load", "address", "0x08000270"}, fp.extra)

	label := classify("                0x080000c0                main").(labelLine)
	assert.Equal(t, "main", label.label)
}

func TestParseRegionHeader(t *testing.T) {
	type arg struct {
		name    string
		line    string
		domain  string
		address string
		size    string
	}

	args := []arg{
		{"address and size", ".text           0x080000c0      0x1a0", ".text", "0x080000c0", "0x1a0"},
		{"address only", ".heap           0x20000348", ".heap", "0x20000348", "-"},
		{"name only", "/DISCARD/", "/DISCARD/", "-", "-"},
		{"sub label", ".rodata.pin_B6  0x08000260       0x10", ".rodata", "0x08000260", "0x10"},
	}

	for _, arg := range args {
		r, c := parseRegion(t, arg.line)
		assert.Equal(t, arg.domain, r.Domain, arg.name)
		assert.Equal(t, arg.address, r.Address.String(), arg.name)
		assert.Equal(t, arg.size, r.Size.String(), arg.name)
		assert.True(t, c.AtEnd(), arg.name)
	}
}

func TestParseRegionWrappedHeader(t *testing.T) {
	wrapped, c := parseRegion(t,
		".rodata.pin_B6",
		"                0x08000260       0x10",
	)
	assert.True(t, c.AtEnd())

	single, _ := parseRegion(t, ".rodata.pin_B6  0x08000260       0x10")
	assert.Equal(t, single, wrapped)
	assert.Equal(t, ".rodata.pin_B6", wrapped.FullName())
}

func TestParseRegionWrappedHeaderNotFootprint(t *testing.T) {
	r, c := parseRegion(t,
		"/DISCARD/",
		" *(.ARM.exidx*)",
	)
	assert.False(t, r.Address.Valid())
	assert.Empty(t, r.Symbols)
	assert.Empty(t, r.Attributes)
	assert.True(t, c.AtEnd())
}

func TestParseRegionAttributes(t *testing.T) {
	r, _ := parseRegion(t,
		".data           0x20000000       0x10 load address 0x08000270",
		"                0x20000000                . = ALIGN (0x4)",
		"                0x20000000                _sdata = .",
		"                0x20000010                _edata = .",
	)

	assert.Equal(t, uint64(0x08000270), r.LoadAddress.N)
	assert.Equal(t, "(0x4)", r.Align)
	require.Len(t, r.Attributes, 2)
	assert.Equal(t, "_sdata = .", r.Attributes[0].String())
	assert.Equal(t, "0x20000010 _edata = .", r.Attributes[1].String())
}

func TestParseRegionHeaderAttribute(t *testing.T) {
	r, _ := parseRegion(t, ".noinit 0x20000000 NOLOAD")

	assert.Equal(t, uint64(0x20000000), r.Address.N)
	assert.False(t, r.Size.Valid())
	assert.Equal(t, []memmap.Attribute{{"NOLOAD"}}, r.Attributes)
}

func TestParseRegionLabelBeforeSymbol(t *testing.T) {
	r, _ := parseRegion(t,
		".data           0x20000000       0x10",
		"                0x20000000                _sdata",
	)
	assert.Empty(t, r.Symbols)
	assert.Equal(t, []memmap.Attribute{{"_sdata"}}, r.Attributes)
}

func TestParseRegionSymbols(t *testing.T) {
	r, _ := parseRegion(t,
		".text           0x080000c0      0x1a0",
		" *(.text*)",
		" .text          0x080000c0       0x5c main.o",
		"                0x080000c0                main",
		"                0x080000c0                _start",
		"                0x080000f0                helper",
		" *fill*         0x0800011c        0x4 00",
		" .text._ZN3foo3barEv",
		"                0x08000120       0x20 lib.o",
		"                0x08000120                _ZN3foo3barEv",
	)

	require.Len(t, r.Symbols, 3)

	text := r.Symbols[0]
	assert.Equal(t, ".text", text.Primary)
	assert.Equal(t, "main.o", text.File)
	assert.Equal(t, uint64(0x080000c0), text.Address.N)
	assert.Equal(t, uint64(0x5c), text.Size.N)
	assert.Equal(t, []string{"main", "_start"}, text.Labels)
	assert.Equal(t, []string{".text", "main", "_start"}, text.Names())
	assert.Equal(t, uint64(4), text.Fill.N)
	assert.Equal(t, "00", text.FillWith)

	helper := r.Symbols[1]
	assert.Equal(t, "helper", helper.Primary)
	assert.Equal(t, "main.o", helper.File)
	assert.False(t, helper.Size.Valid())

	wrapped := r.Symbols[2]
	assert.Equal(t, ".text._ZN3foo3barEv", wrapped.Primary)
	assert.Equal(t, "lib.o", wrapped.File)
	assert.Equal(t, uint64(0x20), wrapped.Size.N)
	assert.Equal(t, []string{"_ZN3foo3barEv"}, wrapped.Labels)

	assert.False(t, r.Fill.Valid())
	assert.Empty(t, r.Attributes)
}

func TestParseRegionFillAtStart(t *testing.T) {
	r, _ := parseRegion(t,
		".stack          0x20003c00      0x400",
		" *fill*         0x20003c00      0x400",
	)
	assert.Equal(t, uint64(0x400), r.Fill.N)
	assert.Equal(t, "", r.FillWith)
}

func TestParseRegionFileWithSpaces(t *testing.T) {
	r, _ := parseRegion(t,
		".text 0x0 0x10",
		" .text 0x0 0x10 /opt/my libs/libc.a(memcpy.o)",
	)
	require.Len(t, r.Symbols, 1)
	assert.Equal(t, "/opt/my libs/libc.a(memcpy.o)", r.Symbols[0].File)
}

func TestParseRegionStopsAtNextRegion(t *testing.T) {
	r, c := parseRegion(t,
		".text 0x0 0x10",
		" .text 0x0 0x10 a.o",
		".data 0x10 0x4",
		" .data 0x10 0x4 a.o",
	)
	assert.Equal(t, ".text", r.FullName())
	assert.Equal(t, 2, c.Pos())

	next := ParseRegion(c, nil)
	assert.Equal(t, ".data", next.FullName())
	assert.True(t, c.AtEnd())
}

func TestParseRegionUnclassified(t *testing.T) {
	obs := NewCountingObserver(nil)
	c := NewCursor(NewSection(LinkerMemoryMap,
		".text 0x0 0x10",
		" something odd",
		"                0x00000008       0x4",
	))
	r := ParseRegion(c, obs)

	assert.Equal(t, []memmap.Attribute{{"something", "odd"}, {"0x00000008", "0x4"}}, r.Attributes)
	assert.Equal(t, uint64(2), obs.UnclassifiedCount.Load())
	assert.Equal(t, uint64(1), obs.RegionCount.Load())
}
