package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers the bundled controllers with core.Default.
	_ "github.com/joeydtaylor/frontctl/internal/controllers"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "frontctl",
		Short: "Front controller that routes requests to tagged Go methods",
		Long: `frontctl scans a namespace of Go packages for types tagged with
//frontctl:controller and methods tagged with //frontctl:get, builds a
URL table from the tags and serves every request through one dispatcher.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("manifest", "", "manifest path (default $FRONTCTL_MANIFEST or manifest.toml)")

	root.AddCommand(
		serveCmd(),
		routesCmd(),
		genCmd(),
		versionCmd(),
	)
	return root
}

// manifestFlag resolves --manifest, then FRONTCTL_MANIFEST, then manifest.toml.
func manifestFlag(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("manifest"); p != "" {
		return p
	}
	if p := os.Getenv("FRONTCTL_MANIFEST"); p != "" {
		return p
	}
	return "manifest.toml"
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
