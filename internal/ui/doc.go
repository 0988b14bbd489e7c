// Package ui provides the terminal user interface for formdrop commands.
//
// The package has two halves. FormModel is the interactive upload form:
// a Bubble Tea model that owns a widget.Controller, presents its slot
// set as a navigable list, opens a file picker for slot selection, and
// shows a spinner while a submission is in flight. Because slot changes
// and transport completions all pass through the model's Update method,
// the controller's single-threading requirement is satisfied without
// extra locking.
//
// The second half is styled one-shot output for non-interactive
// commands: Printer writes header, success, and failure boxes to a
// writer, and the Result type renders the boxes themselves. All styling
// goes through the shared lipgloss palette in styles.go so interactive
// and one-shot output look alike.
package ui
