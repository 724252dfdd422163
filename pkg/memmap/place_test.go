package memmap

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMap() *MemoryMap {
	m := NewMemoryMap("stm32")
	m.Blocks = append(m.Blocks,
		NewBlock("FLASH", MustValue("0x08000000"), MustValue("0x00020000"), "xr"),
		NewBlock("RAM", MustValue("0x20000000"), MustValue("0x00004000"), "xrw"),
		NewBlock(DefaultBlockName, MustValue("0x00000000"), MustValue("0xffffffff"), ""),
	)
	return m
}

func regionAt(domain, addr, size string) *Region {
	r := NewRegion(domain, "")
	if addr != "" {
		r.Address = MustValue(addr)
	}
	if size != "" {
		r.Size = MustValue(size)
	}
	return r
}

func TestPlaceIntoFlash(t *testing.T) {
	m := newTestMap()
	r := regionAt(".text", "0x08000100", "0x40")

	b, err := m.Place(r)
	require.NoError(t, err)
	assert.Equal(t, "FLASH", b.Name)

	flash, _ := m.Block("FLASH")
	ram, _ := m.Block("RAM")
	assert.Equal(t, []*Region{r}, flash.Regions)
	assert.Empty(t, ram.Regions)
}

func TestPlaceFirstMatchWins(t *testing.T) {
	type arg struct {
		addr  string
		block string
	}

	args := []arg{
		{"0x08000000", "FLASH"},
		{"0x08020000", "FLASH"}, // end of range is inclusive
		{"0x08020001", DefaultBlockName},
		{"0x1fffffff", DefaultBlockName},
		{"0x20000000", "RAM"},
		{"0x20004000", "RAM"},
		{"0x00000000", DefaultBlockName},
	}

	for _, arg := range args {
		m := newTestMap()
		b, err := m.Place(regionAt(".data", arg.addr, "0x4"))
		require.NoError(t, err, arg.addr)
		assert.Equal(t, arg.block, b.Name, "[addr = %s] placed in wrong block", arg.addr)
	}
}

func TestPlaceWithoutAddressUsesCatchAll(t *testing.T) {
	m := newTestMap()
	r := regionAt("/DISCARD/", "", "")

	b, err := m.Place(r)
	require.NoError(t, err)
	assert.Equal(t, DefaultBlockName, b.Name)

	// without a *default* block the last block catches it
	m.Blocks = m.Blocks[:2]
	b, err = m.Place(regionAt(".heap", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "RAM", b.Name)
}

func TestPlaceOutsideEveryBlock(t *testing.T) {
	m := newTestMap()
	m.Blocks = m.Blocks[:2]

	r := regionAt(".comment", "0x00000000", "0x6e")
	b, err := m.Place(r)
	assert.Nil(t, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlacement))

	var perr *PlacementError
	require.True(t, errors.As(err, &perr))
	assert.Same(t, r, perr.Region)
	assert.Empty(t, m.Regions())
}

func TestPlaceNoBlocks(t *testing.T) {
	m := NewMemoryMap("empty")
	_, err := m.Place(regionAt(".bss", "", ""))
	assert.True(t, errors.Is(err, ErrPlacement))
}

func TestPlacedRegionsLieInTheirBlock(t *testing.T) {
	m := newTestMap()
	for _, addr := range []string{"0x08000000", "0x0800ffff", "0x20000010", "0x20003c00", "0x00000000", "0x40000000"} {
		_, err := m.Place(regionAt(".x", addr, "0x10"))
		require.NoError(t, err)
	}
	for _, b := range m.Blocks {
		for _, r := range b.Regions {
			assert.True(t, b.Contains(r.Address.N), "%s placed in %s", r.Address, b.Name)
		}
	}
}
