package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/formdrop/formdrop/internal/config"
	"github.com/formdrop/formdrop/internal/discovery"
	"github.com/formdrop/formdrop/internal/transport"
	"github.com/formdrop/formdrop/internal/ui"
	"github.com/formdrop/formdrop/internal/urls"
	"github.com/formdrop/formdrop/internal/widget"
)

// Upload command flags. The form and send commands each bind their own
// --name variable: cobra writes a flag's default into the bound variable
// at registration, so sharing one variable across commands would let the
// last-registered default leak into the other command's run.
var (
	endpoint      string
	profileName   string
	numFiles      int
	progressive   bool
	autoSubmit    bool
	formInputName string
	sendInputName string
	extraFields   []string
	scanTimeout   int
	sendTimeout   int
	outputFormat  string
	username      string
	password      string
)

func init() {
	// Common flags for upload commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Upload URL (skips discovery and profile lookup)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Named profile from the config file")
	rootCmd.PersistentFlags().StringArrayVar(&extraFields, "field", nil, "Extra form field as key=value (repeatable)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "HTTP Basic Auth username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "HTTP Basic Auth password")

	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(scanCmd)
}

// formCmd launches the interactive upload form
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Launch the interactive upload form",
	Long: `Launch the interactive terminal upload form.

The form presents one slot per file. Choosing a file fills the current
slot; in progressive mode a new slot is revealed as each one is filled.
With auto-submit enabled the form submits itself the moment every slot
holds a file.`,
	Example: `  # Launch the form with the default profile
  formdrop form
  # Or simply (form is default):
  formdrop

  # Three slots, revealed one at a time, submitting automatically
  formdrop form --files 3 --progressive --auto-submit

  # Upload to an explicit endpoint
  formdrop form --endpoint http://files.local:8640/upload`,
	RunE: runForm,
}

func init() {
	formCmd.Flags().IntVar(&numFiles, "files", 0, "Number of file slots (default from profile, else 1)")
	formCmd.Flags().BoolVar(&progressive, "progressive", false, "Reveal slots one at a time")
	formCmd.Flags().BoolVar(&autoSubmit, "auto-submit", false, "Submit once every slot is filled")
	formCmd.Flags().StringVar(&formInputName, "name", "", "Form field name for file parts")
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, name, registry, err := resolveFormConfig(cmd)
	if err != nil {
		return err
	}

	client := transport.NewClient(cfg.FormAction)
	if username != "" && password != "" {
		client.SetAuth(username, password)
	}

	final, err := ui.RunForm(cfg, client)
	if err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	if registry != nil && final.Result() != nil {
		registry.TouchProfile(name)
		if err := registry.Save(); err != nil {
			fmt.Printf("Warning: could not save config: %v\n", err)
		}
	}

	return nil
}

// resolveFormConfig merges the profile, flags, and discovery into the
// form configuration. Flags always win over the profile; discovery only
// runs when no endpoint is known and the preferences allow it.
func resolveFormConfig(cmd *cobra.Command) (widget.Config, string, *config.Registry, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return widget.Config{}, "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	name := profileName
	if name == "" {
		name = registry.Preferences.DefaultProfile
	}
	if name == "" {
		name = config.DefaultProfileName
	}

	cfg := registry.EnsureProfile(name).WidgetConfig()

	if cmd.Flags().Changed("files") {
		cfg.NumberOfFiles = numFiles
	}
	if cmd.Flags().Changed("progressive") {
		cfg.Progressive = progressive
	}
	if cmd.Flags().Changed("auto-submit") {
		cfg.AutoSubmit = autoSubmit
	}
	if cmd.Flags().Changed("name") {
		cfg.InputName = formInputName
	}
	if endpoint != "" {
		cfg.FormAction = endpoint
	}

	fields, err := parseFields(extraFields)
	if err != nil {
		return widget.Config{}, "", nil, err
	}
	cfg.HiddenFields = append(cfg.HiddenFields, fields...)

	if cfg.FormAction == "" && registry.Preferences.AutoDiscover {
		found, err := discoverEndpoint(registry.Preferences.DiscoverTimeout)
		if err != nil {
			return widget.Config{}, "", nil, err
		}
		cfg.FormAction = found
		registry.SetProfileEndpoint(name, found)
	}
	if cfg.FormAction == "" {
		return widget.Config{}, "", nil, fmt.Errorf(
			"no upload endpoint: pass --endpoint, configure a profile, or run a discoverable server (see %s)",
			urls.GettingStarted)
	}

	return cfg, name, registry, nil
}

// discoverEndpoint scans for exactly one server on the local network
func discoverEndpoint(timeoutSeconds int) (string, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	fmt.Println("No endpoint specified, attempting auto-discovery...")

	endpoints, err := discovery.ScanForEndpoints(time.Duration(timeoutSeconds) * time.Second)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(endpoints) == 0 {
		return "", fmt.Errorf("no servers found. Use --endpoint to specify the URL manually (see %s)",
			urls.DiscoveryTroubleshooting)
	}

	if len(endpoints) > 1 {
		fmt.Printf("Found %d servers:\n", len(endpoints))
		for i, ep := range endpoints {
			fmt.Printf("%d. %s (%s)\n", i+1, ep.Name, ep.UploadURL())
		}
		return "", fmt.Errorf("multiple servers found. Use --endpoint to specify which one")
	}

	ep := endpoints[0]
	fmt.Printf("Found server: %s (%s)\n\n", ep.Name, ep.UploadURL())
	return ep.UploadURL(), nil
}

// sendCmd uploads files non-interactively
var sendCmd = &cobra.Command{
	Use:   "send <file>...",
	Short: "Upload files without the interactive form",
	Long: `Upload one or more files in a single multipart form submission.

The files are posted to the endpoint from --endpoint, the selected
profile, or mDNS discovery, in that order. The server's JSON response is
printed on success.`,
	Example: `  # Upload one file to a discovered server
  formdrop send photo.jpg

  # Upload several files with an extra form field
  formdrop send a.pdf b.pdf --field album=reports

  # Upload to an explicit endpoint as JSON for scripting
  formdrop send data.bin --endpoint http://files.local:8640/upload --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendInputName, "name", widget.DefaultInputName, "Form field name for file parts")
	sendCmd.Flags().IntVar(&sendTimeout, "timeout", 30, "Request timeout in seconds")
	sendCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runSend(cmd *cobra.Command, args []string) error {
	target, err := resolveSendEndpoint()
	if err != nil {
		return err
	}

	fields, err := parseFields(extraFields)
	if err != nil {
		return err
	}

	client := transport.NewClient(target)
	client.SetTimeout(time.Duration(sendTimeout) * time.Second)
	if username != "" && password != "" {
		client.SetAuth(username, password)
	}

	req := widget.SubmissionRequest{
		CorrelationID: uuid.NewString(),
		InputName:     sendInputName,
		Values:        args,
		Fields:        fields,
	}

	printer := ui.NewPrinter(nil)
	if outputFormat != "json" {
		printer.PrintHeader("formdrop send", target, map[string]string{
			"Files":       fmt.Sprintf("%d", len(args)),
			"Correlation": req.CorrelationID,
		})
	}

	payload, err := client.Do(req)
	if err != nil {
		if outputFormat == "json" {
			return fmt.Errorf("upload failed: %w", err)
		}
		printer.PrintError("Upload failed", err, []string{
			"Check that the server is running and reachable",
			"Verify the endpoint URL (current: " + target + ")",
			"Use 'formdrop scan' to find servers on the local network",
			"See " + urls.ServerSetup,
		})
		return fmt.Errorf("upload failed")
	}

	if outputFormat == "json" {
		fmt.Println(string(payload))
		return nil
	}

	details := map[string]string{
		"Endpoint":    target,
		"Correlation": req.CorrelationID,
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err == nil {
		for key, value := range decoded {
			if s, ok := value.(string); ok {
				details[key] = s
			}
		}
	}
	printer.PrintSuccess("Upload accepted", details)

	return nil
}

// resolveSendEndpoint resolves the upload URL for a one-shot send
func resolveSendEndpoint() (string, error) {
	if endpoint != "" {
		return endpoint, nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	name := profileName
	if name == "" {
		name = registry.Preferences.DefaultProfile
	}
	if profile := registry.GetProfile(name); profile != nil && profile.Endpoint != "" {
		return profile.Endpoint, nil
	}

	if registry.Preferences.AutoDiscover {
		return discoverEndpoint(registry.Preferences.DiscoverTimeout)
	}

	return "", fmt.Errorf("no upload endpoint: pass --endpoint or configure a profile (see %s)",
		urls.ProfileReference)
}

// scanCmd discovers servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for formdrop servers on the network",
	Long: `Scan for formdrop servers using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from formdrop servers and
displays all discovered servers with their upload URLs and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  formdrop scan

  # Quick 3-second scan
  formdrop scan --timeout 3

  # Longer scan for slower networks
  formdrop scan --timeout 30`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for formdrop servers (timeout: %ds)...\n\n", scanTimeout)

	endpoints, err := discovery.ScanForEndpoints(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(endpoints) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the server is running with --advertise")
		fmt.Println("  - Check that client and server are on the same network")
		fmt.Println("  - Some networks block mDNS; try increasing --timeout")
		fmt.Println("  - Use --endpoint to specify the upload URL manually")
		fmt.Printf("  - See %s\n", urls.DiscoveryTroubleshooting)
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(endpoints))

	for i, ep := range endpoints {
		fmt.Printf("%d. %s\n", i+1, ep.Name)
		fmt.Printf("   Upload:  %s\n", ep.UploadURL())
		fmt.Printf("   Address: %s:%d\n", ep.IP, ep.Port)
		if len(ep.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", ep.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'formdrop send <file> --endpoint <url>' to upload directly")
	fmt.Println("Use 'formdrop' for the interactive form")

	return nil
}

// parseFields turns repeated key=value flags into ordered form fields
func parseFields(raw []string) ([]widget.Field, error) {
	fields := make([]widget.Field, 0, len(raw))
	for _, spec := range raw {
		key, value, ok := strings.Cut(spec, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q (expected key=value)", spec)
		}
		fields = append(fields, widget.Field{Key: key, Value: value})
	}
	return fields, nil
}
