// Package widget implements the multi-slot file-selection form controller.
//
// The controller owns an ordered set of file slots, tracks each slot's
// current value, decides when to reveal a new slot (progressive mode),
// and when the full set of required selections is satisfied, triggers a
// submission through a pluggable Transport.
//
// # Slots and Actions
//
// Each slot holds one selected file. In progressive mode the form starts
// with a single slot and reveals the next one only once all existing
// slots are filled, up to the configured maximum:
//
//	ctrl, _ := widget.New(widget.Config{
//	    NumberOfFiles: 3,
//	    Progressive:   true,
//	    FormAction:    "http://host:8640/upload",
//	}, transport, delegate)
//
//	action, _ := ctrl.SetSlotValue(0, "a.png") // ActionAddSlot: slot 1 revealed
//
// With AutoSubmit enabled, filling the last slot triggers a submission,
// subject to the delegate's ShouldSubmit veto.
//
// # Submissions
//
// Submit snapshots the slot values plus hidden fields into a
// SubmissionRequest tagged with a fresh correlation id, hands it to the
// Transport, and disables slot interaction until the transport reports
// exactly one terminal outcome:
//
//	id, err := ctrl.Submit()
//	...
//	result, err := ctrl.HandleTransportComplete(payload) // or
//	ctrl.HandleTransportFailure(err)
//
// Both outcomes re-enable interaction; the slot set survives failures so
// the user may retry.
//
// # Concurrency
//
// The controller is single-threaded by design and carries no locks. The
// host must serialize slot changes and completion delivery; a Bubble Tea
// update loop does this naturally, as does a plain sequential CLI flow.
package widget
