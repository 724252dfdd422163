// Package mapfile parses the map report written by GNU ld (-Map) into the
// memory model of package memmap.
//
// The report is split into its labelled sections first, each section then
// has a parser of its own. Regions of the memory map and of the OUTPUT
// section share one recursive descent region parser driven by a Cursor.
package mapfile

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ianlancetaylor/demangle"
	"github.com/pkg/errors"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// Options control a parse. The zero value parses quietly without
// demangling.
type Options struct {
	Observer Observer
	Demangle bool
}

func (o Options) observer() Observer {
	if o.Observer == nil {
		return NopObserver{}
	}
	return o.Observer
}

// Result is everything read from one report.
type Result struct {
	Map          *memmap.MemoryMap
	Sections     Sections
	Common       []*memmap.CommonSymbol
	Loads        []memmap.LinkerLoad
	Directives   []memmap.Attribute
	CrossRefs    []*memmap.CrossReference
	OutputFormat string

	// Unplaced collects a *memmap.PlacementError for every region that no
	// block claimed. Nil when all regions were placed.
	Unplaced *multierror.Error
}

// UnplacedErrors returns the placement errors, possibly none.
func (r *Result) UnplacedErrors() []error {
	if r.Unplaced == nil {
		return nil
	}
	return r.Unplaced.Errors
}

// CommonSymbol returns the common symbol called name.
func (r *Result) CommonSymbol(name string) (*memmap.CommonSymbol, bool) {
	for _, c := range r.Common {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// CrossReference returns the cross reference entry for symbol.
func (r *Result) CrossReference(symbol string) (*memmap.CrossReference, bool) {
	for _, x := range r.CrossRefs {
		if x.Symbol == symbol {
			return x, true
		}
	}
	return nil, false
}

// SystemName derives a short system name from a report file name: the base
// name up to the first '_', '-' or '.', e.g. "stmhal_firmware_01.map" gives
// "stmhal".
func SystemName(filename string) string {
	name := filepath.Base(filename)
	if idx := strings.IndexAny(name, "_-."); idx > 0 {
		return name[:idx]
	}
	return name
}

// ParseReader reads a report from r and parses it.
func ParseReader(system string, r io.Reader, opts Options) (*Result, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, errors.Wrap(err, "read map file")
	}
	return Parse(system, lines, opts)
}

// Parse builds the model of one report from its lines.
//
// Memory configuration, memory map and OUTPUT sections are mandatory, the
// common symbol and cross reference tables are optional.
func Parse(system string, lines []string, opts Options) (*Result, error) {
	obs := opts.observer()

	sections := Split(lines)
	for _, label := range Labels {
		if s, ok := sections[label]; ok {
			obs.SectionFound(s)
		}
	}

	res := &Result{
		Map:        memmap.NewMemoryMap(system),
		Sections:   sections,
		Common:     []*memmap.CommonSymbol{},
		Loads:      []memmap.LinkerLoad{},
		Directives: []memmap.Attribute{},
		CrossRefs:  []*memmap.CrossReference{},
	}

	// blocks
	s, err := sections.Require(MemoryConfiguration)
	if err != nil {
		return nil, err
	}
	blocks, err := ParseMemoryConfiguration(s, obs)
	if err != nil {
		return nil, err
	}
	res.Map.Blocks = blocks

	// common symbols
	if s, ok := sections[CommonSymbols]; ok {
		if res.Common, err = ParseCommonSymbols(s, obs); err != nil {
			return nil, err
		}
	}

	// memory map
	s, err = sections.Require(LinkerMemoryMap)
	if err != nil {
		return nil, err
	}
	lm, err := ParseLinkerMap(s, obs)
	if err != nil {
		return nil, err
	}
	res.Loads = lm.Loads
	res.Directives = lm.Directives
	res.place(lm.Regions, obs)
	res.linkCommonSymbols(lm.Regions)

	// output
	s, err = sections.Require(Output)
	if err != nil {
		return nil, err
	}
	out, err := ParseOutput(s, obs)
	if err != nil {
		return nil, err
	}
	res.Map.OutputLocation = out.Path
	res.OutputFormat = out.Format
	res.place(out.Regions, obs)

	// cross references
	if s, ok := sections[CrossReferenceTable]; ok {
		if res.CrossRefs, err = ParseCrossReferences(s, obs); err != nil {
			return nil, err
		}
	}

	if opts.Demangle {
		demangleSymbols(res.Map)
	}
	return res, nil
}

func (r *Result) place(regions []*memmap.Region, obs Observer) {
	for _, region := range regions {
		_, err := r.Map.Place(region)
		if err == nil {
			continue
		}
		var perr *memmap.PlacementError
		if errors.As(err, &perr) {
			obs.Unplaced(perr)
		}
		r.Unplaced = multierror.Append(r.Unplaced, err)
	}
}

// linkCommonSymbols points each common symbol at the regions its name was
// found in.
func (r *Result) linkCommonSymbols(regions []*memmap.Region) {
	if len(r.Common) == 0 {
		return
	}
	common := make(map[string]*memmap.CommonSymbol, len(r.Common))
	for _, c := range r.Common {
		common[c.Name] = c
	}

	for _, region := range regions {
		for _, sym := range region.Symbols {
			for _, name := range sym.Names() {
				if c, ok := common[name]; ok {
					c.Reference(region)
				}
			}
		}
	}
}

// demangleSymbols fills Symbol.Demangled for C++ names. Input sections of
// -ffunction-sections builds embed the name, e.g. .text._ZN3foo3barEv.
func demangleSymbols(m *memmap.MemoryMap) {
	for _, region := range m.Regions() {
		for _, sym := range region.Symbols {
			name := sym.Primary
			if idx := strings.Index(name, "._Z"); idx >= 0 {
				name = name[idx+1:]
			}
			if !strings.HasPrefix(name, "_Z") {
				continue
			}
			if pretty, err := demangle.ToString(name); err == nil {
				sym.Demangled = pretty
			}
		}
	}
}
