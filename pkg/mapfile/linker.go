package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// LinkerMap is the content of the "Linker script and memory map" section.
type LinkerMap struct {
	Regions []*memmap.Region
	Loads   []memmap.LinkerLoad
	// Directives are absolute address statements outside any region,
	// e.g. "0x20004000 _estack = 0x20004000".
	Directives []memmap.Attribute
}

// scriptCommands are linker script statements ld may echo at the top level.
var scriptCommands = []string{"TARGET", "INPUT", "GROUP", "OUTPUT_FORMAT", "OUTPUT_ARCH", "SEARCH_DIR", "ENTRY", "ASSERT"}

func isScriptCommand(tok string) bool {
	name := tok
	if idx := strings.Index(tok, "("); idx >= 0 {
		name = tok[:idx]
	}
	for _, cmd := range scriptCommands {
		if name == cmd {
			return true
		}
	}
	return false
}

// ParseLinkerMap walks the memory map section, handing every region to
// ParseRegion. A line that is neither a region, a LOAD, a group marker nor
// an address statement means the report has a layout this parser does not
// know, and fails the parse.
func ParseLinkerMap(s *Section, obs Observer) (*LinkerMap, error) {
	if obs == nil {
		obs = NopObserver{}
	}

	lm := &LinkerMap{
		Regions:    []*memmap.Region{},
		Loads:      []memmap.LinkerLoad{},
		Directives: []memmap.Attribute{},
	}

	c := NewCursor(s)
	for !c.AtEnd() {
		line, _ := c.Peek()
		f := strings.Fields(line)
		if len(f) == 0 {
			obs.Unclassified(s.Label, c.LineNo(), line)
			c.Advance()
			continue
		}
		head := f[0]

		switch {
		case head[0] == '.' || head[0] == '/':
			lm.Regions = append(lm.Regions, ParseRegion(c, obs))
			continue

		case head == "LOAD":
			if len(f) < 2 {
				return nil, formatError(s, c.Pos(), "LOAD without file")
			}
			lm.Loads = append(lm.Loads, memmap.LinkerLoad{Filename: strings.Join(f[1:], " ")})

		case strings.HasPrefix(head, "START"), strings.HasPrefix(head, "END"):
			// START GROUP / END GROUP

		case strings.HasPrefix(head, "*") || head == "COMMON" || isPatternKeyword(head) || isScriptCommand(head):
			// script echo outside a region

		case memmap.IsHex(head), strings.HasPrefix(head, "[!provide]"):
			lm.Directives = append(lm.Directives, memmap.Attribute(f))

		default:
			return nil, formatError(s, c.Pos(), "unknown statement")
		}
		c.Advance()
	}
	return lm, nil
}
