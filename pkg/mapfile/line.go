package mapfile

import (
	"strings"

	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// bodyLine is one classified line below a region header. The region parser
// switches on the concrete type.
type bodyLine interface {
	fields() []string
}

// footprintLine carries an address and optionally a size, e.g. the second
// half of a header whose name was too long to share the line:
//
//	.rodata.very_long_name
//	                0x08000260       0x10 pins.o
type footprintLine struct {
	addr  string
	size  string   // empty when only the address is printed
	extra []string // trailing tokens, a file name or "load address ..."
	all   []string
}

// assignmentLine starts with an address followed by anything that is not a
// size, e.g. "0x08000188 . = ALIGN (0x4)" or "0x20000000 _sdata = .".
type assignmentLine struct {
	addr   string
	tokens []string // everything after the address
	all    []string
}

// labelLine names an address, e.g. "0x08000188 main".
type labelLine struct {
	addr  string
	label string
	all   []string
}

// fillLine is linker padding: "*fill* 0x0800011c 0x4 00".
type fillLine struct {
	addr string
	size string
	with string
	all  []string
}

// inputSectionLine opens an input section (a symbol), e.g.
// " .text 0x080000c0 0x5c main.o" or " COMMON 0x20000014 0x334 mpstate.o".
// rest is empty when address and size wrapped onto the next line.
type inputSectionLine struct {
	name string
	rest []string
	all  []string
}

// patternLine is a linker script input pattern such as " *(.text*)" or
// " KEEP (*(.isr_vector))". It only echoes the script and is skipped.
type patternLine struct {
	all []string
}

// opaqueLine has no known shape.
type opaqueLine struct {
	all []string
}

func (l footprintLine) fields() []string    { return l.all }
func (l assignmentLine) fields() []string   { return l.all }
func (l labelLine) fields() []string        { return l.all }
func (l fillLine) fields() []string         { return l.all }
func (l inputSectionLine) fields() []string { return l.all }
func (l patternLine) fields() []string      { return l.all }
func (l opaqueLine) fields() []string       { return l.all }

const fillMarker = "*fill*"

var patternKeywords = []string{"KEEP", "SORT", "EXCLUDE_FILE", "INPUT_SECTION_FLAGS"}

// classify determines the shape of a region body line from its tokens only.
// Whether a footprint continues a header or a symbol is decided by the
// caller, which knows what came before.
func classify(line string) bodyLine {
	f := strings.Fields(line)
	if len(f) == 0 {
		return opaqueLine{all: f}
	}

	head := f[0]
	switch {
	case head == fillMarker:
		if len(f) < 3 {
			return opaqueLine{all: f}
		}
		l := fillLine{addr: f[1], size: f[2], all: f}
		if len(f) > 3 {
			l.with = f[3]
		}
		return l

	case strings.HasPrefix(head, "*") || isPatternKeyword(head):
		return patternLine{all: f}

	case (strings.HasPrefix(head, ".") && len(head) > 1) || head == "COMMON":
		return inputSectionLine{name: head, rest: f[1:], all: f}

	case memmap.IsHex(head):
		switch {
		case len(f) == 1:
			return footprintLine{addr: head, all: f}
		case memmap.IsHex(f[1]):
			return footprintLine{addr: head, size: f[1], extra: f[2:], all: f}
		case len(f) == 2 && isLabel(f[1]):
			return labelLine{addr: head, label: f[1], all: f}
		default:
			return assignmentLine{addr: head, tokens: f[1:], all: f}
		}
	}
	return opaqueLine{all: f}
}

func isPatternKeyword(tok string) bool {
	for _, kw := range patternKeywords {
		if strings.HasPrefix(tok, kw) {
			return true
		}
	}
	return false
}

// isLabel reports whether tok can be a symbol name rather than part of an
// assignment or expression.
func isLabel(tok string) bool {
	return tok != "." && !strings.ContainsAny(tok, "=()+*;")
}

// indented reports whether line belongs to the body of the region above it.
func indented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}
