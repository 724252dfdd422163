// Package memmap holds the memory model reconstructed from a linker map file:
// the memory blocks of the target, the output regions placed into them and
// the symbols inside each region.
package memmap

import (
	"fmt"
	"strings"
)

// DefaultBlockName is the catch-all block GNU ld lists last in its memory
// configuration.
const DefaultBlockName = "*default*"

// MemoryMap is the top level model of one report.
type MemoryMap struct {
	System         string   // system name, used as the row label on export
	Blocks         []*Block // in memory configuration order
	OutputLocation string   // path given by OUTPUT(...)
}

// NewMemoryMap creates an empty map for system.
func NewMemoryMap(system string) *MemoryMap {
	return &MemoryMap{
		System: system,
		Blocks: []*Block{},
	}
}

func (m *MemoryMap) String() string {
	return fmt.Sprintf("<Memmap %s %d blocks>", m.System, len(m.Blocks))
}

// Block returns the block called name.
func (m *MemoryMap) Block(name string) (*Block, bool) {
	for _, b := range m.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Regions returns every placed region in block order.
func (m *MemoryMap) Regions() []*Region {
	var regions []*Region
	for _, b := range m.Blocks {
		regions = append(regions, b.Regions...)
	}
	return regions
}

// Region returns the first region in block order whose full name is fullname.
func (m *MemoryMap) Region(fullname string) (*Region, bool) {
	for _, b := range m.Blocks {
		for _, r := range b.Regions {
			if r.FullName() == fullname {
				return r, true
			}
		}
	}
	return nil, false
}

// Lookup finds what covers addr. Region and symbol are nil when no region or
// symbol with a known footprint contains the address.
func (m *MemoryMap) Lookup(addr uint64) (*Block, *Region, *Symbol) {
	for _, b := range m.Blocks {
		if !b.Contains(addr) {
			continue
		}
		for _, r := range b.Regions {
			if !r.Contains(addr) {
				continue
			}
			return b, r, r.Symbol(addr)
		}
		return b, nil, nil
	}
	return nil, nil, nil
}

// Block is a named address range, typically a flash or RAM device window.
type Block struct {
	Name      string
	Address   Value
	Length    Value
	Attribute string // access flags such as "xrw", empty when not given
	Regions   []*Region
}

// NewBlock creates a block with no regions.
func NewBlock(name string, address, length Value, attribute string) *Block {
	return &Block{
		Name:      name,
		Address:   address,
		Length:    length,
		Attribute: attribute,
		Regions:   []*Region{},
	}
}

func (b *Block) String() string {
	return fmt.Sprintf("<Block %s %s (len %s) %s %d regions>", b.Address, b.Name, b.Length, b.Attribute, len(b.Regions))
}

// AddressWidth is the byte width of the origin as printed.
func (b *Block) AddressWidth() int { return b.Address.Width() }

// LengthWidth is the byte width of the length as printed.
func (b *Block) LengthWidth() int { return b.Length.Width() }

// Contains reports whether addr lies within [Address, Address+Length].
// Both ends are inclusive.
func (b *Block) Contains(addr uint64) bool {
	if addr < b.Address.N {
		return false
	}
	return addr-b.Address.N <= b.Length.N
}

// AddRegion appends r without any range check.
func (b *Block) AddRegion(r *Region) {
	b.Regions = append(b.Regions, r)
}

// RegionNames returns the full names of the block's regions in order.
func (b *Block) RegionNames() []string {
	names := make([]string, 0, len(b.Regions))
	for _, r := range b.Regions {
		names = append(names, r.FullName())
	}
	return names
}

// Attribute is one free-form directive attached to a region, kept as the
// tokens it was printed with (e.g. PROVIDE (end = .)).
type Attribute []string

func (a Attribute) String() string {
	return strings.Join(a, " ")
}

// Region is an output section placed by the linker script, e.g. .text or
// .bss.something. A region without address or size is a pure directive.
type Region struct {
	Domain      string // section class, e.g. ".text"
	Name        string // sub label, e.g. ".pin_B6", may be empty
	Address     Value
	Size        Value
	LoadAddress Value  // set when the load location differs from the run location
	Align       string // final token of a ". = ALIGN (...)" assignment
	Fill        Value
	FillWith    string
	Attributes  []Attribute
	Symbols     []*Symbol
}

// NewRegion creates a region with empty attribute and symbol lists.
func NewRegion(domain, name string) *Region {
	return &Region{
		Domain:     domain,
		Name:       name,
		Attributes: []Attribute{},
		Symbols:    []*Symbol{},
	}
}

// FullName is the identity used to compare regions across reports.
func (r *Region) FullName() string {
	return r.Domain + r.Name
}

func (r *Region) String() string {
	return fmt.Sprintf("Region: %s[%s] addr=%s size=%s %d symbols", r.Domain, r.Name, r.Address, r.Size, len(r.Symbols))
}

// Contains reports whether addr lies in [Address, Address+Size). Regions
// without a footprint contain nothing.
func (r *Region) Contains(addr uint64) bool {
	if !r.Address.Valid() || !r.Size.Valid() {
		return false
	}
	return addr >= r.Address.N && addr-r.Address.N < r.Size.N
}

// Symbol returns the symbol covering addr. Symbols without a size only match
// their exact address; the last match wins so labels inside an input section
// take precedence over the section itself.
func (r *Region) Symbol(addr uint64) *Symbol {
	var found *Symbol
	for _, s := range r.Symbols {
		if s.Contains(addr) {
			found = s
		}
	}
	return found
}

// Symbol is a code or data item inside a region. Every label in Labels
// shares Address with Primary.
type Symbol struct {
	Address   Value
	Size      Value
	Primary   string
	File      string
	Fill      Value
	FillWith  string
	Labels    []string
	Demangled string // set when Primary is a mangled C++ name
}

// NewSymbol creates a symbol with no secondary labels.
func NewSymbol(primary string, address, size Value) *Symbol {
	return &Symbol{
		Primary: primary,
		Address: address,
		Size:    size,
		Labels:  []string{},
	}
}

func (s *Symbol) String() string {
	return fmt.Sprintf("<Symbol %s %s, %s>", s.Primary, s.Address, s.Size)
}

// Names returns the primary label followed by the aliases.
func (s *Symbol) Names() []string {
	return append([]string{s.Primary}, s.Labels...)
}

// Contains reports whether addr falls inside the symbol.
func (s *Symbol) Contains(addr uint64) bool {
	if !s.Address.Valid() {
		return false
	}
	if !s.Size.Valid() || s.Size.N == 0 {
		return addr == s.Address.N
	}
	return addr >= s.Address.N && addr-s.Address.N < s.Size.N
}

// CommonSymbol is a symbol allocated from the common pool rather than placed
// by the linker script.
type CommonSymbol struct {
	Name string
	Size Value
	File string
	// References are the regions in which the name turned up while scanning
	// the memory map.
	References []*Region
}

// NewCommonSymbol creates a common symbol with no references.
func NewCommonSymbol(name string, size Value, file string) *CommonSymbol {
	return &CommonSymbol{
		Name:       name,
		Size:       size,
		File:       file,
		References: []*Region{},
	}
}

func (c *CommonSymbol) String() string {
	return fmt.Sprintf("<Common_symbol %s size=%s from %s>", c.Name, c.Size, c.File)
}

// Reference records r once.
func (c *CommonSymbol) Reference(r *Region) {
	for _, ref := range c.References {
		if ref == r {
			return
		}
	}
	c.References = append(c.References, r)
}

// LinkerLoad is an object or archive consumed by a LOAD directive.
type LinkerLoad struct {
	Filename string
}

func (l LinkerLoad) String() string {
	return fmt.Sprintf("<LOAD %s>", l.Filename)
}

// CrossReference lists the files referencing Symbol. The first file is the
// one defining it.
type CrossReference struct {
	Symbol string
	Files  []string
}
