// Formdrop-server is the upload server for the formdrop client.
//
// It accepts multipart/form-data submissions, stores each uploaded file
// in a configured directory, and answers with the JSON payload the
// client's form controller decodes. Accepted uploads are broadcast to
// WebSocket observers, and the server can advertise itself over mDNS so
// clients find it without configuration.
//
// Usage:
//
//	formdrop-server serve [flags]
//
// See 'formdrop-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formdrop/formdrop/internal/server"
	"github.com/formdrop/formdrop/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "formdrop-server",
	Short: "Formdrop Upload Server",
	Long: `A standalone server accepting formdrop uploads.

Each POST to /upload stores the submitted files and answers with a JSON
payload keyed by the submission's correlation id. Observers can follow
accepted uploads live over the /events WebSocket feed.

Note: For uploading files, use the separate 'formdrop' client.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host         string
	port         int
	certPath     string
	keyPath      string
	storeDir     string
	maxUploadMB  int64
	logLevel     string
	advertise    bool
	instanceName string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload server",
	Long: `Start the formdrop upload server.

Uploads are written to the directory given with --dir. TLS is enabled by
providing both --cert and --key; without them the server speaks plain
HTTP. With --advertise the server registers itself over mDNS as a
"` + "_formdrop._tcp" + `" service so clients can find it with 'formdrop scan'.`,
	Example: `  # Store uploads under ./drops on the default port
  formdrop-server serve --dir ./drops

  # Advertise on the local network under a friendly name
  formdrop-server serve --dir ./drops --advertise --name office-drops

  # Serve HTTPS with a 1 GiB upload limit
  formdrop-server serve --dir ./drops --cert cert.pem --key key.pem --max-upload 1024`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen hostname (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", server.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (enables HTTPS)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&storeDir, "dir", "", "Directory uploads are written to (required)")
	serveCmd.Flags().Int64Var(&maxUploadMB, "max-upload", 0, "Maximum upload size in MiB (0 = default)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the server over mDNS")
	serveCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (defaults to the hostname)")

	_ = serveCmd.MarkFlagRequired("dir")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Either both cert and key are provided, or neither
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	config := &server.Config{
		Host:           host,
		Port:           port,
		CertPath:       certPath,
		KeyPath:        keyPath,
		StoreDir:       storeDir,
		MaxUploadBytes: maxUploadMB << 20,
		LogLevel:       logLevel,
		Advertise:      advertise,
		InstanceName:   instanceName,
	}

	srv, err := server.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formdrop-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
