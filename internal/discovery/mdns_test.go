package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantName   string
		wantIP     string
		wantPort   int
		wantSecure bool
		wantPath   string
	}{
		{
			name: "server with IPv4 and TXT records",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "office-nas"},
				HostName:      "nas.local.",
				Port:          8640,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"path=/upload", "tls=1"},
			},
			wantName:   "office-nas",
			wantIP:     "192.168.1.20",
			wantPort:   8640,
			wantSecure: true,
			wantPath:   "/upload",
		},
		{
			name: "server without TXT records gets defaults",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "bare"},
				HostName:      "bare.local.",
				Port:          9000,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantName: "bare",
			wantIP:   "10.0.0.5",
			wantPort: 9000,
			wantPath: DefaultUploadPath,
		},
		{
			name: "zero port falls back to default",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "portless"},
				HostName:      "portless.local.",
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.6")},
			},
			wantName: "portless",
			wantIP:   "10.0.0.6",
			wantPort: DefaultPort,
			wantPath: DefaultUploadPath,
		},
		{
			name: "IPv6-only server",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local.",
				Port:          8640,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantName: "v6",
			wantIP:   "fe80::1",
			wantPort: 8640,
			wantPath: DefaultUploadPath,
		},
		{
			name: "entry without any address is dropped",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				HostName:      "ghost.local.",
				Port:          8640,
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if endpoint != nil {
					t.Errorf("parseServiceEntry() = %+v, want nil", endpoint)
				}
				return
			}

			if endpoint == nil {
				t.Fatal("parseServiceEntry() = nil, want endpoint")
			}
			if endpoint.Name != tt.wantName {
				t.Errorf("Name = %v, want %v", endpoint.Name, tt.wantName)
			}
			if endpoint.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", endpoint.IP, tt.wantIP)
			}
			if endpoint.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", endpoint.Port, tt.wantPort)
			}
			if endpoint.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", endpoint.Secure, tt.wantSecure)
			}
			if endpoint.Path != tt.wantPath {
				t.Errorf("Path = %v, want %v", endpoint.Path, tt.wantPath)
			}
			if endpoint.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestScanner_collectEndpointsDrainsUntilClose(t *testing.T) {
	scanner := NewScanner()

	entries := make(chan *zeroconf.ServiceEntry)
	results := scanner.collectEndpoints(entries)

	go func() {
		entries <- &zeroconf.ServiceEntry{
			ServiceRecord: zeroconf.ServiceRecord{Instance: "first"},
			HostName:      "first.local.",
			Port:          8640,
			AddrIPv4:      []net.IP{net.ParseIP("192.168.1.30")},
		}
		// Unusable entry must be skipped, not delivered
		entries <- &zeroconf.ServiceEntry{
			ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
		}
		entries <- &zeroconf.ServiceEntry{
			ServiceRecord: zeroconf.ServiceRecord{Instance: "second"},
			HostName:      "second.local.",
			Port:          8641,
			AddrIPv4:      []net.IP{net.ParseIP("192.168.1.31")},
		}
		close(entries)
	}()

	// The result only arrives after the channel closes, so every send
	// above is guaranteed to be reflected in the returned slice.
	endpoints := <-results

	if len(endpoints) != 2 {
		t.Fatalf("collected %d endpoints, want 2", len(endpoints))
	}
	if endpoints[0].Name != "first" || endpoints[1].Name != "second" {
		t.Errorf("endpoints = [%s, %s], want [first, second]", endpoints[0].Name, endpoints[1].Name)
	}
}
