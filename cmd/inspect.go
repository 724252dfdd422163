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

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/mapview/cmd/inspect"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <mapfile>",
	Short: "explore a map file interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := loadReports(cmd.Context(), args, 1, cfg.Demangle)
		if err != nil {
			return err
		}

		res := reports[0]
		fmt.Printf("loaded %s: %d blocks, %d regions\n", args[0], len(res.Map.Blocks), len(res.Map.Regions()))

		inspect.NewInspectSession(res).AtExit(func() {
			fmt.Println("bye")
		}).Start()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
