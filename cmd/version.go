package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"snaplink/internal/platform"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// no config needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "snaplink %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

		names := make([]string, 0, 6)
		for _, p := range platform.Platforms() {
			names = append(names, p.String())
		}
		fmt.Fprintf(out, "platforms: %s\n", strings.Join(names, ", "))
	},
}
