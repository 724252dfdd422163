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
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <mapfile>",
	Short: "pretty print the parsed memory model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := loadReports(cmd.Context(), args, 1, cfg.Demangle)
		if err != nil {
			return err
		}

		res := reports[0]
		out := cmd.OutOrStdout()
		pretty.Fprintf(out, "%# v\n", res.Map)
		if len(res.Common) != 0 {
			pretty.Fprintf(out, "%# v\n", res.Common)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
