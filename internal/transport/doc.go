// Package transport implements the HTTP upload channel behind the form
// controller's Transport boundary.
//
// The Client posts a widget.SubmissionRequest as a single
// multipart/form-data request: the correlation identifier (as both a
// header and a form field), the auxiliary fields in order, and one file
// part per filled slot. Failed attempts are retried with exponential
// backoff; 4xx responses are treated as deterministic and are not
// retried.
//
// # Asynchronous Use
//
// Submit validates the request synchronously, then uploads in a
// goroutine and reports exactly one terminal outcome:
//
//	client := transport.NewClient("http://host:8640/upload")
//	client.OnComplete = func(id string, payload []byte) { ... }
//	client.OnFailure = func(id string, err error) { ... }
//	err := client.Submit(req) // immediate structural failures only
//
// Hosts route the callback back into the controller's
// HandleTransportComplete / HandleTransportFailure on their own event
// loop; the Bubble Tea UI does this with a program message.
//
// # Synchronous Use
//
// Do performs the same upload on the calling goroutine and returns the
// raw response payload. The CLI `send` command uses this path.
package transport
