// Package discovery provides mDNS/DNS-SD discovery of formdrop servers.
//
// Servers advertise themselves as "_formdrop._tcp" services in the
// "local." domain; TXT records carry the upload path and whether the
// server expects TLS:
//
//	path=/upload
//	tls=1
//
// Clients browse for these services to find upload endpoints without
// configuration:
//
//	endpoints, err := discovery.ScanForEndpoints(10 * time.Second)
//	for _, ep := range endpoints {
//	    fmt.Println(ep.Name, ep.UploadURL())
//	}
//
// The server side registers itself with Advertise, which returns a stop
// function for shutdown.
//
// Discovery requires multicast to work between client and server; on
// segmented or multicast-filtered networks, pass the endpoint URL
// explicitly instead.
package discovery
