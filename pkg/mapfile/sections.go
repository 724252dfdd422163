package mapfile

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Section labels in the order GNU ld prints them. Preamble is not printed;
// it collects whatever precedes the first label.
const (
	Preamble            = "Preamble"
	CommonSymbols       = "Allocating common symbols"
	DiscardedSections   = "Discarded input sections"
	MemoryConfiguration = "Memory Configuration"
	LinkerMemoryMap     = "Linker script and memory map"
	Output              = "OUTPUT"
	CrossReferenceTable = "Cross Reference Table"
)

// Labels lists every section in report order.
var Labels = []string{
	Preamble,
	CommonSymbols,
	DiscardedSections,
	MemoryConfiguration,
	LinkerMemoryMap,
	Output,
	CrossReferenceTable,
}

// Section is one labelled part of the report. Lines have trailing space
// removed but keep their indentation, which is what groups region bodies.
type Section struct {
	Label   string
	Lines   []string
	Offsets []int // report line number of each entry in Lines
}

// NewSection builds a section from literal lines, numbered from 1.
func NewSection(label string, lines ...string) *Section {
	return &Section{Label: label, Lines: lines}
}

// LineNo is the report line number of Lines[idx].
func (s *Section) LineNo(idx int) int {
	if idx >= 0 && idx < len(s.Offsets) {
		return s.Offsets[idx]
	}
	return idx + 1
}

func (s *Section) append(line string, no int) {
	s.Lines = append(s.Lines, line)
	s.Offsets = append(s.Offsets, no)
}

// Sections maps a label to its section.
type Sections map[string]*Section

// Require returns the section labelled label or a FormatError when the
// report does not have it.
func (ss Sections) Require(label string) (*Section, error) {
	s, ok := ss[label]
	if !ok {
		return nil, errors.WithStack(&FormatError{Section: label, Reason: "section not found"})
	}
	return s, nil
}

// matchesLabel reports whether line opens the section label. OUTPUT has no
// header of its own, the OUTPUT(...) statement is the header.
func matchesLabel(line, label string) bool {
	if label == Output {
		return strings.HasPrefix(line, Output+"(")
	}
	return strings.HasPrefix(line, label)
}

// Split partitions the report lines into sections.
//
// Labels must appear in report order but any of them may be missing, some
// toolchains never print the common symbol or discarded section tables.
// Blank lines are dropped. The OUTPUT(...) line itself is kept as the first
// line of the OUTPUT section since it carries the output file name.
func Split(lines []string) Sections {
	var (
		sections = Sections{}
		current  = 0
		section  = &Section{Label: Labels[current]}
	)

	for idx, raw := range lines {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			continue
		}

		next := -1
		for j := current + 1; j < len(Labels); j++ {
			if matchesLabel(line, Labels[j]) {
				next = j
				break
			}
		}
		if next < 0 {
			section.append(line, idx+1)
			continue
		}

		sections[section.Label] = section
		current = next
		section = &Section{Label: Labels[current]}
		if section.Label == Output {
			section.append(line, idx+1)
		}
	}
	sections[section.Label] = section

	return sections
}

// ReadLines reads r fully and splits it into lines.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return lines, nil
}
