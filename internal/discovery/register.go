package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

// Advertise registers a formdrop server instance over mDNS so clients
// can discover it with `formdrop scan`. TXT records should carry at
// least "path=<upload path>" and "tls=1" when the server uses TLS.
//
// The returned stop function unregisters the service; call it on
// shutdown.
func Advertise(instance string, port int, txt []string) (func(), error) {
	if instance == "" {
		return nil, fmt.Errorf("instance name must not be empty")
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	return server.Shutdown, nil
}
