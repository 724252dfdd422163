package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// ParseCommonSymbols parses the "Allocating common symbols" table. A name
// too long for its column is printed alone and size and file follow on the
// next line:
//
//	Common symbol       size              file
//	mp_state_ctx        0x2f4             py/mpstate.o
//	a_really_long_common_symbol_name
//	                    0x40              main.o
func ParseCommonSymbols(s *Section, obs Observer) ([]*memmap.CommonSymbol, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if err := checkHeader(s, commonSymbolsHeader); err != nil {
		return nil, err
	}

	var (
		symbols = []*memmap.CommonSymbol{}
		pending string
	)
	for idx := 1; idx < len(s.Lines); idx++ {
		f := strings.Fields(s.Lines[idx])
		if len(f) == 0 {
			obs.Unclassified(s.Label, s.LineNo(idx), s.Lines[idx])
			continue
		}

		if pending != "" {
			if len(f) != 2 {
				return nil, formatError(s, idx, "want size and file after "+pending)
			}
			size, err := memmap.ParseValue(f[0])
			if err != nil {
				return nil, formatError(s, idx, "invalid size")
			}
			symbols = append(symbols, memmap.NewCommonSymbol(pending, size, f[1]))
			pending = ""
			continue
		}

		switch len(f) {
		case 1:
			pending = f[0]
		case 3:
			size, err := memmap.ParseValue(f[1])
			if err != nil {
				return nil, formatError(s, idx, "invalid size")
			}
			symbols = append(symbols, memmap.NewCommonSymbol(f[0], size, f[2]))
		default:
			return nil, formatError(s, idx, "want symbol, size and file")
		}
	}

	if pending != "" {
		return nil, formatError(s, len(s.Lines)-1, "missing size and file for "+pending)
	}
	return symbols, nil
}
