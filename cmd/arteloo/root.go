// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "arteloo",
		Short:         "Arte.tv catalog addon for Stremio",
		Long:          "arteloo aggregates the Arte.tv catalog, resolves French HLS streams and serves them to Stremio clients.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config file (YAML)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded into the environment when present")
	pf.StringVar(&opts.logLevel, "log-level", "", "override the log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newCatalogCmd(opts),
		newMetaCmd(opts),
		newStreamCmd(opts),
		newLiveCmd(opts),
		newVersionCmd(),
	)
	return root
}
