// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/arteloo/internal/addon"
	"github.com/ManuGH/arteloo/internal/version"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, headerStyle.Render("arteloo"))
			field(out, "version", info.Version)
			field(out, "commit", info.Commit)
			field(out, "built", info.Date)
			field(out, "go", info.GoVersion)
			field(out, "platform", info.Platform)
			field(out, "addon", addon.AddonID+" "+addon.AddonVersion)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version string")
	return cmd
}
