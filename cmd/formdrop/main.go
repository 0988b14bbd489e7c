// Formdrop is a multi-slot file upload client.
//
// It presents an upload form as a set of file slots, submits the
// selected files to a formdrop server (or any endpoint accepting
// multipart/form-data), and decodes the server's JSON response. Servers
// on the local network can be discovered over mDNS.
//
// Usage:
//
//	formdrop [command] [flags]
//
// Running without arguments launches the interactive upload form.
// See 'formdrop --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formdrop/formdrop/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "formdrop",
	Short: "Multi-slot file upload client",
	Long: `A client for uploading files to a formdrop server.

Files are selected into a configurable set of slots and submitted as one
multipart form. Slots can be revealed progressively, and the form can
submit itself automatically once every slot is filled.

If no command is specified, the interactive upload form will launch.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive form when no subcommand provided
		return runForm(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formdrop %s (commit: %s)\n", version.Version, version.Commit)
	},
}
