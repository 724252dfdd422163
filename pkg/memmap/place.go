package memmap

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPlacement is wrapped by every PlacementError.
var ErrPlacement = errors.New("region has no owning block")

// PlacementError reports a region that could not be put into a block. It is
// never fatal: the region is left out of the model and parsing goes on.
type PlacementError struct {
	Region *Region
	Reason string
}

func (err *PlacementError) Error() string {
	return fmt.Sprintf("failed to find Block for %s: %s", err.Region, err.Reason)
}

func (err *PlacementError) Unwrap() error {
	return ErrPlacement
}

// CatchAll returns the block that receives regions without an address: the
// *default* block if the configuration has one, else the last block.
func (m *MemoryMap) CatchAll() *Block {
	if b, ok := m.Block(DefaultBlockName); ok {
		return b
	}
	if len(m.Blocks) == 0 {
		return nil
	}
	return m.Blocks[len(m.Blocks)-1]
}

// Place puts r into the first block whose range contains its address.
//
// Blocks are scanned in configuration order and the scan stops at the first
// match. GNU ld lists a *default* block spanning the whole address space
// last, so it only receives what no real device claims.
func (m *MemoryMap) Place(r *Region) (*Block, error) {
	if !r.Address.Valid() {
		b := m.CatchAll()
		if b == nil {
			return nil, &PlacementError{Region: r, Reason: "no blocks configured"}
		}
		b.AddRegion(r)
		return b, nil
	}

	for _, b := range m.Blocks {
		if b.Contains(r.Address.N) {
			b.AddRegion(r)
			return b, nil
		}
	}
	return nil, &PlacementError{Region: r, Reason: fmt.Sprintf("address %s is outside every block", r.Address)}
}
