package inspect

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/mapview/pkg/export"
)

var commonCmd = &cobra.Command{
	Use:   "common",
	Short: "list common symbols and the regions they ended up in",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTables,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}
		export.WriteCommonSymbols(cmd.OutOrStdout(), res.Common)
		return nil
	},
}

var xrefCmd = &cobra.Command{
	Use:     "xref [symbol]",
	Short:   "show the files defining and referencing symbols",
	Aliases: []string{"x"},
	Args:    cobra.MaximumNArgs(1),
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTables,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var found bool
		for _, x := range res.CrossRefs {
			if len(args) != 0 && !strings.HasPrefix(x.Symbol, args[0]) {
				continue
			}
			found = true

			fmt.Fprintf(out, "%s\n", x.Symbol)
			for idx, file := range x.Files {
				mark := " "
				if idx == 0 {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", mark, file)
			}
		}
		if !found && len(args) != 0 {
			return fmt.Errorf("no cross reference for %s", args[0])
		}
		return nil
	},
}

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "list loaded objects and absolute address directives",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTables,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, l := range res.Loads {
			fmt.Fprintf(out, "LOAD %s\n", l.Filename)
		}
		for _, d := range res.Directives {
			fmt.Fprintf(out, "%s\n", d)
		}
		if res.Map.OutputLocation != "" {
			fmt.Fprintf(out, "OUTPUT %s %s\n", res.Map.OutputLocation, res.OutputFormat)
		}
		return nil
	},
}

func init() {
	inspectRootCmd.AddCommand(commonCmd)
	inspectRootCmd.AddCommand(xrefCmd)
	inspectRootCmd.AddCommand(loadsCmd)
}
