// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/LeeDigitalWorks/b2gate/pkg/utils"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "b2gate",
	Short: "b2gate - read-through proxy for versioned object storage",
	Long: `b2gate serves objects from a Backblaze-B2-compatible store by logical path.
It reconciles duplicate uploads of the same path, purges byte-identical
versions, and can merge distinct historical PDF uploads into one document.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
