package discovery

import (
	"fmt"
	"time"
)

// Endpoint represents a discovered formdrop server on the network
type Endpoint struct {
	// Name is the mDNS instance name (e.g., "office-nas")
	Name string

	// Hostname is the mDNS hostname (e.g., "nas.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.20")
	IP string

	// Port is the HTTP port (typically 8640)
	Port int

	// Secure indicates the server advertised TLS
	Secure bool

	// Path is the upload path advertised in TXT records (default "/upload")
	Path string

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the endpoint was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the endpoint
func (e *Endpoint) String() string {
	return fmt.Sprintf("Formdrop server %q at %s:%d", e.Name, e.IP, e.Port)
}

// BaseURL returns the HTTP base URL for the endpoint
func (e *Endpoint) BaseURL() string {
	scheme := "http"
	if e.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, e.IP, e.Port)
}

// UploadURL returns the full upload URL for the endpoint
func (e *Endpoint) UploadURL() string {
	path := e.Path
	if path == "" {
		path = DefaultUploadPath
	}
	return e.BaseURL() + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}
