package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// OutputSection is the part of the report following OUTPUT(...): the debug
// and attribute sections that are not loaded onto the target.
type OutputSection struct {
	Path    string // output file
	Format  string // BFD target, e.g. elf32-littlearm, empty when not printed
	Regions []*memmap.Region
}

// ParseOutputStatement extracts path and format from
// "OUTPUT(build/firmware.elf elf32-littlearm)".
func ParseOutputStatement(line string) (path, format string, ok bool) {
	line = strings.TrimSpace(line)
	open := strings.Index(line, "(")
	end := strings.LastIndex(line, ")")
	if open < 0 || end < open || strings.TrimSpace(line[:open]) != Output {
		return "", "", false
	}

	f := strings.Fields(line[open+1 : end])
	if len(f) == 0 {
		return "", "", false
	}
	path = f[0]
	if len(f) > 1 {
		format = f[1]
	}
	return path, format, true
}

// ParseOutput parses the OUTPUT section. Its first line is the OUTPUT(...)
// statement the section was split on.
func ParseOutput(s *Section, obs Observer) (*OutputSection, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if len(s.Lines) == 0 {
		return nil, formatError(s, -1, "missing OUTPUT statement")
	}

	path, format, ok := ParseOutputStatement(s.Lines[0])
	if !ok {
		return nil, formatError(s, 0, "want OUTPUT(<path>)")
	}
	out := &OutputSection{
		Path:    path,
		Format:  format,
		Regions: []*memmap.Region{},
	}

	c := NewCursor(s)
	c.Advance()
	for !c.AtEnd() {
		line, _ := c.Peek()
		if strings.HasPrefix(strings.TrimSpace(line), ".") {
			out.Regions = append(out.Regions, ParseRegion(c, obs))
			continue
		}
		c.Advance()
	}
	return out, nil
}
