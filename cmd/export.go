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
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/mapview/pkg/config"
	"github.com/hitzhangjie/mapview/pkg/export"
	"github.com/hitzhangjie/mapview/pkg/mapfile"
	"github.com/hitzhangjie/mapview/pkg/memmap"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [-o file] <mapfile>...",
	Short: "write region sizes of map files as CSV",
	Long: `write region sizes of map files as CSV.

One row per map file, one column per region name. The columns start from
the configured categories, region names found in the files are merged in
next to their neighbours.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := loadReports(cmd.Context(), args, cfg.Jobs, cfg.Demangle)
		if err != nil {
			return err
		}

		maps, names := collect(reports, cfg.Categories)

		f, err := os.Create(cfg.Output)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()

		if err := export.WriteCSV(f, maps, names); err != nil {
			return err
		}
		logrus.Infof("wrote %d maps, %d regions to %s", len(maps), len(names), cfg.Output)
		return f.Close()
	},
}

// collect merges the region names of all reports, one after the other so
// the column order does not depend on which parse finished first.
func collect(reports []*mapfile.Result, categories []string) ([]*memmap.MemoryMap, []string) {
	maps := make([]*memmap.MemoryMap, 0, len(reports))
	names := categories
	for _, res := range reports {
		maps = append(maps, res.Map)
		names = res.Map.CollectRegionNames(names)
	}
	return maps, names
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", cfg.Output, "CSV file to write")
	viper.BindPFlag(config.KeyOutput, exportCmd.Flags().Lookup("output"))
}
