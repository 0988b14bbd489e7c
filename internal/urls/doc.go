// Package urls centralizes documentation links shown in CLI output.
//
// Commands reference these constants in troubleshooting sections so the
// links only need updating in one place when the docs site moves.
package urls
