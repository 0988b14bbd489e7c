package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type formdrop servers advertise under
	ServiceType = "_formdrop._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for endpoint discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for formdrop servers
	DefaultPort = 8640

	// DefaultUploadPath is assumed when a server advertises no path
	DefaultUploadPath = "/upload"
)

// Scanner handles mDNS endpoint discovery
type Scanner struct {
	// Timeout is the maximum time to wait for endpoint discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForEndpoints discovers all formdrop servers on the local network
// Returns a list of discovered endpoints or an error
func (s *Scanner) ScanForEndpoints() ([]*Endpoint, error) {
	return s.ScanForEndpointsWithContext(context.Background())
}

// ScanForEndpointsWithContext discovers endpoints with a custom context
func (s *Scanner) ScanForEndpointsWithContext(ctx context.Context) ([]*Endpoint, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	// Channel to receive service entries
	entries := make(chan *zeroconf.ServiceEntry)
	results := s.collectEndpoints(entries)

	// Start the resolver
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Start browsing for formdrop services
	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation), then for
	// the collector to drain the closed entries channel. Returning on
	// ctx.Done alone would race the collector's final appends.
	<-ctx.Done()
	return <-results, nil
}

// collectEndpoints parses entries until the channel closes, then
// delivers the collected endpoints. The browse side owns closing the
// entries channel.
func (s *Scanner) collectEndpoints(entries <-chan *zeroconf.ServiceEntry) <-chan []*Endpoint {
	results := make(chan []*Endpoint, 1)
	go func() {
		endpoints := make([]*Endpoint, 0)
		for entry := range entries {
			if endpoint := s.parseServiceEntry(entry); endpoint != nil {
				endpoints = append(endpoints, endpoint)
			}
		}
		results <- endpoints
	}()
	return results
}

// WaitForEndpoint waits for a server with a specific instance name
// Returns the endpoint or an error if not found within timeout
func (s *Scanner) WaitForEndpoint(name string) (*Endpoint, error) {
	return s.WaitForEndpointWithContext(context.Background(), name)
}

// WaitForEndpointWithContext waits for a specific endpoint with a custom context
func (s *Scanner) WaitForEndpointWithContext(ctx context.Context, name string) (*Endpoint, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	// Channel to receive service entries
	entries := make(chan *zeroconf.ServiceEntry)
	endpointChan := make(chan *Endpoint, 1)

	// Start the resolver
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Browse for services in a goroutine
	go func() {
		for entry := range entries {
			endpoint := s.parseServiceEntry(entry)
			if endpoint != nil && endpoint.Name == name {
				endpointChan <- endpoint
				cancel() // Found the server, cancel context
				return
			}
		}
	}()

	// Start browsing for formdrop services
	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for endpoint or timeout
	select {
	case endpoint := <-endpointChan:
		return endpoint, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("server %q not found within timeout", name)
	}
}

// parseServiceEntry converts a zeroconf service entry to an Endpoint
// Returns nil if the entry is unusable (no address)
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Endpoint {
	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	// Get port (default if not specified)
	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}

	path := metadata["path"]
	if path == "" {
		path = DefaultUploadPath
	}

	return &Endpoint{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Secure:       metadata["tls"] == "1",
		Path:         path,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForEndpoints is a convenience function to scan for servers with a custom timeout
func ScanForEndpoints(timeout time.Duration) ([]*Endpoint, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForEndpoints()
}
