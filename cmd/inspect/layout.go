package inspect

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/mapview/pkg/export"
	"github.com/hitzhangjie/mapview/pkg/mapfile"
	"github.com/hitzhangjie/mapview/pkg/memmap"
)

var errNoReport = errors.New("no map file loaded")

func report() (*mapfile.Result, error) {
	if current == nil {
		return nil, errNoReport
	}
	return current, nil
}

var blocksCmd = &cobra.Command{
	Use:     "blocks",
	Short:   "list memory blocks and their usage",
	Aliases: []string{"b"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupLayout,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}
		export.WriteBlocks(cmd.OutOrStdout(), res.Map)
		return nil
	},
}

var regionsCmd = &cobra.Command{
	Use:     "regions [block]",
	Short:   "list regions, all or those placed in one block",
	Aliases: []string{"r"},
	Args:    cobra.MaximumNArgs(1),
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupLayout,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}

		regions := res.Map.Regions()
		if len(args) != 0 {
			b, ok := res.Map.Block(args[0])
			if !ok {
				return fmt.Errorf("no block %s", args[0])
			}
			regions = b.Regions
		}
		export.WriteRegions(cmd.OutOrStdout(), regions)
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:     "symbols <region>",
	Short:   "list the symbols of a region",
	Aliases: []string{"s", "syms"},
	Args:    cobra.ExactArgs(1),
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupLayout,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}

		r, ok := res.Map.Region(args[0])
		if !ok {
			return fmt.Errorf("no region %s", args[0])
		}
		export.WriteSymbols(cmd.OutOrStdout(), r)
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <address>",
	Short: "show block, region and symbol covering an address",
	Long: `show block, region and symbol covering an address.

address is hex with 0x prefix, octal with 0 prefix or decimal.`,
	Aliases: []string{"f"},
	Args:    cobra.ExactArgs(1),
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupLayout,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}

		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		b, r, s := res.Map.Lookup(addr)
		if b == nil {
			fmt.Fprintf(out, "%#x: outside every block\n", addr)
			return nil
		}
		fmt.Fprintf(out, "%#x: block %s\n", addr, b.Name)
		if r == nil {
			return nil
		}
		fmt.Fprintf(out, "  region %s [%s, +%s]\n", r.FullName(), r.Address, r.Size)
		if s != nil {
			fmt.Fprintf(out, "  symbol %s\n", describeSymbol(s, addr))
		}
		return nil
	},
}

func describeSymbol(s *memmap.Symbol, addr uint64) string {
	name := s.Primary
	if s.Demangled != "" {
		name = s.Demangled
	}
	desc := fmt.Sprintf("%s+%#x", name, addr-s.Address.N)
	if s.File != "" {
		desc += " (" + s.File + ")"
	}
	return desc
}

func init() {
	inspectRootCmd.AddCommand(blocksCmd)
	inspectRootCmd.AddCommand(regionsCmd)
	inspectRootCmd.AddCommand(symbolsCmd)
	inspectRootCmd.AddCommand(findCmd)
}

func parseAddress(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", s)
	}
	return v, nil
}
