package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/mapview/pkg/mapfile"
)

var sectionCmd = &cobra.Command{
	Use:   "section <label> [lineno]",
	Short: "show the raw lines of a report section",
	Long: `show the raw lines of a report section.

label is matched case-insensitively against the start of the section
labels, e.g. "memory" selects "Memory Configuration" and "linker" selects
"Linker script and memory map". With lineno only the lines around that
report line are shown.`,
	Aliases: []string{"l", "list"},
	Args:    cobra.RangeArgs(1, 2),
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}

		s, err := lookupSection(res.Sections, args[0])
		if err != nil {
			return err
		}

		lineno := 0
		if len(args) == 2 {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid lineno: %s", args[1])
			}
			lineno = v
		}

		listSectionLines(cmd.OutOrStdout(), s, lineno, 5)
		return nil
	},
}

func init() {
	inspectRootCmd.AddCommand(sectionCmd)
}

func lookupSection(sections mapfile.Sections, label string) (*mapfile.Section, error) {
	want := strings.ToLower(label)
	for _, l := range mapfile.Labels {
		if !strings.HasPrefix(strings.ToLower(l), want) {
			continue
		}
		if s, ok := sections[l]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("section %s not in report", l)
	}
	return nil, fmt.Errorf("unknown section: %s", label)
}

// listSectionLines prints the lines of s, only those within rng of the
// report line lineno when lineno is positive.
func listSectionLines(out io.Writer, s *mapfile.Section, lineno, rng int) {
	for idx, ln := range s.Lines {
		no := s.LineNo(idx)
		if lineno > 0 && (no < lineno-rng || no > lineno+rng) {
			continue
		}
		if no != lineno {
			fmt.Fprintf(out, "%-4s\t%d\t%s\n", "", no, ln)
		} else {
			fmt.Fprintf(out, "%-4s\t%d\t%s\n", "=>", no, ln)
		}
	}
}
