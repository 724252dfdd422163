/*
Copyright © 2020 hit.zhangjie@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hitzhangjie/mapview/pkg/export"
)

var warnColor = color.New(color.FgYellow)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <mapfile>...",
	Short: "print the memory layout of map files",
	Long: `print the memory layout of map files.

For every file the memory blocks with their usage and the regions placed
into them are listed. Regions no block could claim are reported last.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := loadReports(cmd.Context(), args, cfg.Jobs, cfg.Demangle)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for idx, res := range reports {
			fmt.Fprintf(out, "%s (%s)\n", res.Map.System, args[idx])
			if res.Map.OutputLocation != "" {
				fmt.Fprintf(out, "output: %s %s\n", res.Map.OutputLocation, res.OutputFormat)
			}
			export.WriteBlocks(out, res.Map)
			export.WriteRegions(out, res.Map.Regions())
			for _, err := range res.UnplacedErrors() {
				warnColor.Fprintf(out, "unplaced: %v\n", err)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
