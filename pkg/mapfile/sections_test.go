package mapfile

import (
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestMap(t *testing.T, name string) []string {
	t.Helper()

	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()

	lines, err := ReadLines(f)
	require.NoError(t, err)
	return lines
}

func TestSplit(t *testing.T) {
	sections := Split(readTestMap(t, "firmware_dh_01.map"))

	for _, label := range Labels {
		_, ok := sections[label]
		assert.True(t, ok, label)
	}

	mc := sections[MemoryConfiguration]
	require.Len(t, mc.Lines, 4)
	assert.True(t, strings.HasPrefix(mc.Lines[0], "Name"))
	assert.Equal(t, 20, mc.LineNo(0))
	assert.Equal(t, 21, mc.LineNo(1))

	out := sections[Output]
	assert.Equal(t, "OUTPUT(build/firmware.elf elf32-littlearm)", out.Lines[0])

	for _, s := range sections {
		for _, line := range s.Lines {
			assert.NotEmpty(t, strings.TrimSpace(line), s.Label)
			assert.Equal(t, strings.TrimRight(line, " \t"), line, s.Label)
		}
	}
}

func TestSplitSkipsMissingLabels(t *testing.T) {
	sections := Split(readTestMap(t, "host_dh_02.map"))

	_, ok := sections[CommonSymbols]
	assert.False(t, ok)
	_, ok = sections[CrossReferenceTable]
	assert.False(t, ok)

	require.Contains(t, sections, LinkerMemoryMap)
	require.Contains(t, sections, Output)
	assert.Equal(t, "LOAD host.o", sections[LinkerMemoryMap].Lines[0])
}

func TestSplitLabelsOutOfOrder(t *testing.T) {
	lines := []string{
		"Linker script and memory map",
		".text 0x0 0x10",
		"Memory Configuration",
		"Name Origin Length Attributes",
	}
	sections := Split(lines)

	// a label behind the current one is ordinary content
	_, ok := sections[MemoryConfiguration]
	assert.False(t, ok)
	assert.Equal(t, []string{".text 0x0 0x10", "Memory Configuration", "Name Origin Length Attributes"}, sections[LinkerMemoryMap].Lines)
}

func TestSectionsRequire(t *testing.T) {
	sections := Split([]string{"Memory Configuration", "Name Origin Length Attributes"})

	s, err := sections.Require(MemoryConfiguration)
	require.NoError(t, err)
	assert.Equal(t, MemoryConfiguration, s.Label)

	_, err = sections.Require(LinkerMemoryMap)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))

	var ferr *FormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, LinkerMemoryMap, ferr.Section)
}

func TestCursor(t *testing.T) {
	c := NewCursor(NewSection(Output, "a", "b"))

	line, ok := c.Peek()
	assert.True(t, ok)
	assert.Equal(t, "a", line)
	assert.Equal(t, "a", c.Advance())
	assert.Equal(t, 2, c.LineNo())
	assert.Equal(t, "b", c.Advance())
	assert.True(t, c.AtEnd())

	_, ok = c.Peek()
	assert.False(t, ok)
	assert.Equal(t, "", c.Advance())
	assert.Equal(t, 2, c.Pos())
}

func TestSplitSkipsUnicodeBlankLines(t *testing.T) {
	lines := readTestMap(t, "firmware_dh_01.map")
	want, err := Parse("firmware", lines, Options{})
	require.NoError(t, err)

	blanks := []string{"\f", "\v", "\u00a0", " \f\t", "\r"}
	var n int
	noisy := make([]string, len(lines))
	for idx, line := range lines {
		noisy[idx] = line
		if strings.TrimSpace(line) == "" {
			noisy[idx] = blanks[n%len(blanks)]
			n++
		}
	}
	noisy[len(noisy)-1] += "\v\u00a0"
	require.Greater(t, n, len(blanks))

	sections := Split(noisy)
	for _, s := range sections {
		for _, line := range s.Lines {
			assert.NotEmpty(t, strings.TrimSpace(line), s.Label)
		}
	}

	got, err := Parse("firmware", noisy, Options{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
