package widget

// Delegate receives lifecycle notifications from the form controller.
// All hooks are optional: embed BaseDelegate to pick up safe no-op
// defaults and override only the hooks you care about.
type Delegate interface {
	// ShouldOpenFileSelect is consulted before a file picker is opened
	// for the slot at the given position. Return false to suppress it.
	ShouldOpenFileSelect(position int) bool

	// DidOpenFileSelect is called after a file picker has been opened.
	DidOpenFileSelect(position int)

	// ValueDidChange is called after a slot value has been recorded,
	// with both the new and the prior value.
	ValueDidChange(position int, newValue, previousValue string)

	// ShouldSubmit is the auto-submit veto. Return false to hold the
	// form even when every slot is filled.
	ShouldSubmit() bool

	// WillSubmit is called immediately before a request is handed to
	// the transport.
	WillSubmit()

	// DidSubmit is called once the request has been accepted by the
	// transport, with the submission's correlation identifier.
	DidSubmit(correlationID string)

	// DidComplete is called with the decoded result of a successful
	// submission.
	DidComplete(result *SubmissionResult)

	// DidFail is called on the failure path: malformed responses,
	// transport failures, and rejected submit attempts.
	DidFail(err error)
}

// BaseDelegate provides no-op defaults for every Delegate hook.
// The two policy hooks default to permissive (true).
type BaseDelegate struct{}

// ShouldOpenFileSelect always allows opening the file picker
func (BaseDelegate) ShouldOpenFileSelect(position int) bool { return true }

// DidOpenFileSelect does nothing
func (BaseDelegate) DidOpenFileSelect(position int) {}

// ValueDidChange does nothing
func (BaseDelegate) ValueDidChange(position int, newValue, previousValue string) {}

// ShouldSubmit always allows auto-submit
func (BaseDelegate) ShouldSubmit() bool { return true }

// WillSubmit does nothing
func (BaseDelegate) WillSubmit() {}

// DidSubmit does nothing
func (BaseDelegate) DidSubmit(correlationID string) {}

// DidComplete does nothing
func (BaseDelegate) DidComplete(result *SubmissionResult) {}

// DidFail does nothing
func (BaseDelegate) DidFail(err error) {}
