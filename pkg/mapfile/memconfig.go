package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

var (
	memoryConfigurationHeader = []string{"Name", "Origin", "Length", "Attributes"}
	commonSymbolsHeader       = []string{"Common", "symbol", "size", "file"}
	crossReferenceHeader      = []string{"Symbol", "File"}
)

// hasFields reports whether line consists of exactly the given fields, as
// separated by whitespace.
func hasFields(line string, fields []string) bool {
	got := strings.Fields(line)
	if len(got) != len(fields) {
		return false
	}
	for i := range fields {
		if got[i] != fields[i] {
			return false
		}
	}
	return true
}

// checkHeader verifies the first line of s against its fixed column titles.
func checkHeader(s *Section, header []string) error {
	if len(s.Lines) == 0 {
		return formatError(s, -1, "empty section")
	}
	if !hasFields(s.Lines[0], header) {
		return formatError(s, 0, "unexpected header, want "+strings.Join(header, " "))
	}
	return nil
}

// ParseMemoryConfiguration parses the table of memory blocks:
//
//	Name             Origin             Length             Attributes
//	FLASH            0x08000000         0x00020000         xr
//	*default*        0x00000000         0xffffffff
func ParseMemoryConfiguration(s *Section, obs Observer) ([]*memmap.Block, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if err := checkHeader(s, memoryConfigurationHeader); err != nil {
		return nil, err
	}

	blocks := []*memmap.Block{}
	for idx := 1; idx < len(s.Lines); idx++ {
		f := strings.Fields(s.Lines[idx])
		if len(f) == 0 {
			obs.Unclassified(s.Label, s.LineNo(idx), s.Lines[idx])
			continue
		}
		if len(f) != 3 && len(f) != 4 {
			return nil, formatError(s, idx, "want name, origin, length and optional attributes")
		}

		origin, err := memmap.ParseValue(f[1])
		if err != nil {
			return nil, formatError(s, idx, "invalid origin")
		}
		length, err := memmap.ParseValue(f[2])
		if err != nil {
			return nil, formatError(s, idx, "invalid length")
		}

		var attr string
		if len(f) == 4 {
			attr = f[3]
		}
		blocks = append(blocks, memmap.NewBlock(f[0], origin, length, attr))
	}
	return blocks, nil
}
