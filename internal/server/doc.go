// Package server implements the formdrop upload server.
//
// The server accepts multipart/form-data submissions from the formdrop
// client (or any browser form), stores each file part in a configured
// directory, and answers with a JSON payload the submitting form
// controller decodes:
//
//	{"status":"ok","id":"<correlation id>","files":[{"name":"...","size":123}]}
//
// # Routes
//
//   - POST /upload: accept one form submission
//   - GET /events: WebSocket feed of accepted uploads
//   - GET /healthz: liveness probe
//
// # Correlation
//
// Clients tag each submission with a correlation identifier, sent as
// both the X-Formdrop-Correlation header and a correlation_id form
// field. The id is echoed in the response and in the /events broadcast
// so observers can match uploads to submissions.
//
// # Storage
//
// Stored filenames are the sanitized client name behind a short unique
// token (e.g. "3f9a1c2e_photo.jpg"), so concurrent uploads of the same
// name never collide and client-supplied paths cannot escape the
// storage directory.
//
// # TLS and Discovery
//
// TLS is enabled by providing certificate and key files. When
// advertisement is enabled, the server registers itself over mDNS as a
// "_formdrop._tcp" service so clients can find it with 'formdrop scan'.
package server
