package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// SplitName splits the head token of a region into domain and name on the
// first dot after the leading character:
//
//	.rodata.pin_B6 => .rodata, .pin_B6
//	.text          => .text, ""
func SplitName(head string) (domain, name string) {
	if len(head) < 2 {
		return head, ""
	}
	idx := strings.Index(head[1:], ".")
	if idx <= 0 {
		return head, ""
	}
	return head[:idx+1], head[idx+1:]
}

// regionParser holds the state of one region while its body is consumed.
type regionParser struct {
	c      *Cursor
	obs    Observer
	region *memmap.Region

	input   *memmap.Symbol // symbol opened by the last input section line
	current *memmap.Symbol // last symbol opened, by input section or label
}

// ParseRegion consumes one region starting at the cursor: the header line
// plus every indented line below it. The cursor is left on the first line
// that does not belong to the region.
//
// Parsing never fails. Body lines the parser cannot place are kept as
// opaque region attributes, report layouts vary between ld versions and a
// partial model is more useful than none.
func ParseRegion(c *Cursor, obs Observer) *memmap.Region {
	if obs == nil {
		obs = NopObserver{}
	}
	p := &regionParser{c: c, obs: obs}
	p.parseHeader()
	p.parseBody()

	obs.RegionParsed(c.Section().Label, p.region)
	return p.region
}

func (p *regionParser) parseHeader() {
	f := strings.Fields(p.c.Advance())
	if len(f) == 0 {
		p.region = memmap.NewRegion("", "")
		return
	}
	domain, name := SplitName(f[0])
	p.region = memmap.NewRegion(domain, name)

	rest := f[1:]
	if len(rest) == 0 {
		// address and size wrapped onto the next line
		if next, ok := p.c.Peek(); ok && indented(next) {
			if fp, ok := classify(next).(footprintLine); ok {
				p.c.Advance()
				rest = fp.all
			}
		}
	}

	var attr []string
	switch {
	case len(rest) == 0:
		// directive only, no footprint
	case !memmap.IsHex(rest[0]):
		attr = rest
	case len(rest) == 1:
		p.region.Address = value(rest[0])
	case memmap.IsHex(rest[1]):
		p.region.Address = value(rest[0])
		p.region.Size = value(rest[1])
		attr = rest[2:]
	default:
		p.region.Address = value(rest[0])
		attr = rest[1:]
	}
	if len(attr) != 0 {
		p.addAttribute(attr)
	}
}

// addAttribute interprets the tokens following an address: a load address,
// an alignment or anything else, which is kept verbatim.
func (p *regionParser) addAttribute(tokens []string) {
	r := p.region
	switch {
	case len(tokens) >= 3 && tokens[0] == "load" && tokens[1] == "address":
		r.LoadAddress = value(tokens[2])
		if len(tokens) > 3 {
			r.Attributes = append(r.Attributes, memmap.Attribute(tokens[3:]))
		}
	case len(tokens) >= 3 && tokens[0] == "." && containsAlign(tokens):
		r.Align = tokens[len(tokens)-1]
	default:
		r.Attributes = append(r.Attributes, memmap.Attribute(tokens))
	}
}

func containsAlign(tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(tok, "ALIGN") {
			return true
		}
	}
	return false
}

func (p *regionParser) parseBody() {
	for {
		line, ok := p.c.Peek()
		if !ok || !indented(line) {
			return
		}
		lineNo := p.c.LineNo()
		p.c.Advance()

		switch l := classify(line).(type) {
		case patternLine:
			// echo of the linker script

		case inputSectionLine:
			p.openSymbol(l)

		case labelLine:
			p.addLabel(l, lineNo, line)

		case fillLine:
			p.addFill(l, lineNo, line)

		case assignmentLine:
			if p.atRegionAddress(l.addr) {
				p.addAttribute(l.tokens)
				continue
			}
			p.region.Attributes = append(p.region.Attributes, memmap.Attribute(l.all))

		case footprintLine:
			if p.atRegionAddress(l.addr) && len(l.extra) != 0 {
				p.addAttribute(l.extra)
				continue
			}
			p.opaque(l.all, lineNo, line)

		case opaqueLine:
			p.opaque(l.all, lineNo, line)
		}
	}
}

func (p *regionParser) opaque(f []string, lineNo int, line string) {
	p.region.Attributes = append(p.region.Attributes, memmap.Attribute(f))
	p.obs.Unclassified(p.c.Section().Label, lineNo, line)
}

// openSymbol starts a symbol from an input section line. When the section
// name is long, address, size and file are printed on the next line.
func (p *regionParser) openSymbol(l inputSectionLine) {
	rest := l.rest
	if len(rest) == 0 {
		if next, ok := p.c.Peek(); ok && indented(next) {
			if fp, ok := classify(next).(footprintLine); ok {
				p.c.Advance()
				rest = fp.all
			}
		}
	}

	var (
		addr, size memmap.Value
		file       []string
	)
	switch {
	case len(rest) == 0:
	case !memmap.IsHex(rest[0]):
		file = rest
	case len(rest) == 1 || !memmap.IsHex(rest[1]):
		addr = value(rest[0])
		file = rest[1:]
	default:
		addr = value(rest[0])
		size = value(rest[1])
		file = rest[2:]
	}

	sym := memmap.NewSymbol(l.name, addr, size)
	sym.File = strings.Join(file, " ")
	p.region.Symbols = append(p.region.Symbols, sym)
	p.input = sym
	p.current = sym
}

// addLabel attaches a label to the symbol at the same address or opens a
// new symbol inside the current input section.
func (p *regionParser) addLabel(l labelLine, lineNo int, line string) {
	if p.current == nil {
		if p.atRegionAddress(l.addr) {
			p.addAttribute([]string{l.label})
			return
		}
		p.opaque(l.all, lineNo, line)
		return
	}

	addr := value(l.addr)
	if p.current.Address.Valid() && addr.N == p.current.Address.N {
		p.current.Labels = append(p.current.Labels, l.label)
		return
	}

	sym := memmap.NewSymbol(l.label, addr, memmap.Value{})
	if p.input != nil {
		sym.File = p.input.File
	}
	p.region.Symbols = append(p.region.Symbols, sym)
	p.current = sym
}

// addFill records padding. Padding at the region start belongs to the
// region, padding elsewhere follows the last input section.
func (p *regionParser) addFill(l fillLine, lineNo int, line string) {
	switch {
	case p.atRegionAddress(l.addr):
		p.region.Fill = value(l.size)
		p.region.FillWith = l.with
	case p.input != nil:
		p.input.Fill = value(l.size)
		p.input.FillWith = l.with
	default:
		p.opaque(l.all, lineNo, line)
	}
}

func (p *regionParser) atRegionAddress(addr string) bool {
	if !p.region.Address.Valid() {
		return false
	}
	v := value(addr)
	return v.Valid() && v.N == p.region.Address.N
}

// value parses tok, an unparsable token yields the absent Value.
func value(tok string) memmap.Value {
	v, err := memmap.ParseValue(tok)
	if err != nil {
		return memmap.Value{}
	}
	return v
}
