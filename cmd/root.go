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
	"context"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/mapview/pkg/config"
)

var (
	cfgFile string
	cfg     = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mapview",
	Short: "analyze GNU ld map files",
	Long: `mapview reads the map report written by GNU ld (-Wl,-Map=<file>) and
shows how the output sections are laid out over the memory blocks of the
target. Several reports can be exported side by side as a CSV matrix of
region sizes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c

		if cfg.Verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000",
		FullTimestamp:   true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mapview.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log parser progress and diagnostics")
	rootCmd.PersistentFlags().IntP("jobs", "j", cfg.Jobs, "number of map files parsed in parallel")
	rootCmd.PersistentFlags().Bool("demangle", cfg.Demangle, "demangle C++ symbol names")

	viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag(config.KeyJobs, rootCmd.PersistentFlags().Lookup("jobs"))
	viper.BindPFlag(config.KeyDemangle, rootCmd.PersistentFlags().Lookup("demangle"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".mapview" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".mapview")
	}

	viper.SetEnvPrefix("MAPVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("using config file: %s", viper.ConfigFileUsed())
	}
}
