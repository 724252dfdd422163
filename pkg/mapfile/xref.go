package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// ParseCrossReferences parses the "Cross Reference Table". A symbol line
// names the defining file, each following single-field line adds a file
// referencing the symbol:
//
//	Symbol                  File
//	memcpy                  libc.a(lib_a-memcpy.o)
//	                        main.o
//
// Demangled C++ names may contain spaces, so everything before the last
// field of a multi-field line is the symbol.
func ParseCrossReferences(s *Section, obs Observer) ([]*memmap.CrossReference, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if err := checkHeader(s, crossReferenceHeader); err != nil {
		return nil, err
	}

	var (
		refs    = []*memmap.CrossReference{}
		current *memmap.CrossReference
	)
	for idx := 1; idx < len(s.Lines); idx++ {
		f := strings.Fields(s.Lines[idx])

		switch len(f) {
		case 0:
			obs.Unclassified(s.Label, s.LineNo(idx), s.Lines[idx])
			continue
		case 1:
			if current == nil {
				return nil, formatError(s, idx, "file without symbol")
			}
			current.Files = append(current.Files, f[0])
			continue
		}

		if current != nil {
			refs = append(refs, current)
		}
		current = &memmap.CrossReference{
			Symbol: strings.Join(f[:len(f)-1], " "),
			Files:  []string{f[len(f)-1]},
		}
	}

	if current != nil {
		refs = append(refs, current)
	}
	return refs, nil
}
