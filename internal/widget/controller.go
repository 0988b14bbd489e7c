package widget

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/formdrop/formdrop/internal/logging"
	"go.uber.org/zap"
)

// DefaultInputName is the form field name used for file parts when the
// configuration does not specify one
const DefaultInputName = "file"

// Field is one ordered auxiliary key/value pair submitted alongside the files
type Field struct {
	Key   string
	Value string
}

// Config holds the recognized form options
type Config struct {
	// NumberOfFiles is the total number of file slots (must be >= 1)
	NumberOfFiles int

	// Progressive reveals additional slots only as prior ones are filled
	Progressive bool

	// AutoSubmit submits automatically once every slot is filled,
	// subject to the delegate's ShouldSubmit veto
	AutoSubmit bool

	// InputName is the form field name for file parts (default "file")
	InputName string

	// FormAction is the endpoint the form submits to
	FormAction string

	// HiddenFields are submitted with every request, in order
	HiddenFields []Field
}

// Action is the controller's decision after a slot value change
type Action int

const (
	// ActionIdle means no further effect beyond recording the value
	ActionIdle Action = iota
	// ActionAddSlot means a new empty slot was revealed (progressive mode)
	ActionAddSlot
	// ActionSubmit means a submission was triggered
	ActionSubmit
)

// String returns a human-readable name for the action
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionAddSlot:
		return "add_slot"
	case ActionSubmit:
		return "submit"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// SubmissionRequest is the snapshot handed to the transport: the
// correlation identifier, the slot values at submit time, and the
// auxiliary fields.
type SubmissionRequest struct {
	CorrelationID string
	FormAction    string
	InputName     string
	Values        []string
	Fields        []Field
}

// SubmissionResult is the decoded response payload of a completed
// submission. The payload shape is application-defined; the controller
// only requires that it decodes as JSON.
type SubmissionResult struct {
	CorrelationID string
	Payload       map[string]any
}

// Transport performs the actual upload. Submit must either return an
// error immediately (the transport is structurally unusable) or arrange
// for exactly one later completion, which the host routes back into
// HandleTransportComplete or HandleTransportFailure.
type Transport interface {
	Submit(req SubmissionRequest) error
}

// Controller owns the slot set and decides, after each value change,
// whether to reveal a new slot or trigger a submission.
//
// The controller is single-threaded by design: the host must serialize
// SetSlotValue calls and completion delivery. A Bubble Tea update loop
// satisfies this naturally.
type Controller struct {
	cfg       Config
	slots     []*Slot
	delegate  Delegate
	transport Transport

	// inFlightID is non-empty while a submission is outstanding.
	// Slot interaction is disabled for the duration.
	inFlightID string
}

// New creates a controller for the given configuration. A nil delegate
// gets BaseDelegate defaults. The transport may be nil, in which case
// any submit attempt fails with a transport-unavailable error.
func New(cfg Config, transport Transport, delegate Delegate) (*Controller, error) {
	if cfg.NumberOfFiles < 1 {
		return nil, NewValidationError(fmt.Sprintf("numberOfFiles must be >= 1, got %d", cfg.NumberOfFiles))
	}
	if cfg.InputName == "" {
		cfg.InputName = DefaultInputName
	}
	if delegate == nil {
		delegate = BaseDelegate{}
	}
	return &Controller{
		cfg:       cfg,
		slots:     newSlotSet(cfg),
		delegate:  delegate,
		transport: transport,
	}, nil
}

// Config returns the controller's configuration
func (c *Controller) Config() Config {
	return c.cfg
}

// SlotCount returns the number of slots currently revealed
func (c *Controller) SlotCount() int {
	return len(c.slots)
}

// FilledCount returns the number of slots holding a non-empty value
func (c *Controller) FilledCount() int {
	filled := 0
	for _, s := range c.slots {
		if s.Filled() {
			filled++
		}
	}
	return filled
}

// Value returns the value of the slot at the given position
func (c *Controller) Value(position int) (string, error) {
	if position < 0 || position >= len(c.slots) {
		return "", NewValidationError(fmt.Sprintf("no slot at position %d (have %d)", position, len(c.slots)))
	}
	return c.slots[position].Value(), nil
}

// Values returns a snapshot of all slot values, in position order
func (c *Controller) Values() []string {
	values := make([]string, len(c.slots))
	for i, s := range c.slots {
		values[i] = s.Value()
	}
	return values
}

// Enabled reports whether slot interaction is currently allowed.
// Interaction is disabled while a submission is outstanding.
func (c *Controller) Enabled() bool {
	return c.inFlightID == ""
}

// InFlightID returns the correlation id of the outstanding submission,
// or empty when idle
func (c *Controller) InFlightID() string {
	return c.inFlightID
}

// RequestFileSelect asks the delegate whether a file picker may be
// opened for the slot at position, and notifies it when one was.
// Refused while a submission is outstanding.
func (c *Controller) RequestFileSelect(position int) bool {
	if !c.Enabled() {
		return false
	}
	if position < 0 || position >= len(c.slots) {
		return false
	}
	if !c.delegate.ShouldOpenFileSelect(position) {
		return false
	}
	c.delegate.DidOpenFileSelect(position)
	return true
}

// SetSlotValue records a new value for an existing slot and returns the
// resulting action:
//
//   - ActionAddSlot: every slot is filled, the set is below capacity,
//     and progressive mode is on; one empty slot was revealed.
//   - ActionSubmit: auto-submit is on, every slot is filled, and the
//     delegate did not veto; a submission was triggered.
//   - ActionIdle: anything else, including clearing a value.
//
// The add/submit decision is always evaluated after the value has been
// recorded, so rapid-fire changes each see fully-updated state.
func (c *Controller) SetSlotValue(position int, raw string) (Action, error) {
	if !c.Enabled() {
		return ActionIdle, NewSubmissionInFlightError(c.inFlightID)
	}
	if position < 0 || position >= len(c.slots) {
		return ActionIdle, NewValidationError(fmt.Sprintf("no slot at position %d (have %d)", position, len(c.slots)))
	}

	slot := c.slots[position]
	value := NormalizeValue(raw)
	slot.set(value)
	c.delegate.ValueDidChange(position, slot.Value(), slot.Previous())

	filled := c.FilledCount()
	logging.Debug("Slot value recorded",
		zap.Int("position", position),
		zap.Int("filled", filled),
		zap.Int("slots", len(c.slots)),
	)

	// Clearing a value only moves filledCount downward; it can never
	// reveal a slot or submit.
	if value == "" {
		return ActionIdle, nil
	}

	if c.cfg.Progressive && filled == len(c.slots) && len(c.slots) < c.cfg.NumberOfFiles {
		c.slots = append(c.slots, &Slot{position: len(c.slots)})
		return ActionAddSlot, nil
	}

	if c.cfg.AutoSubmit && filled == c.cfg.NumberOfFiles {
		if !c.delegate.ShouldSubmit() {
			return ActionIdle, nil
		}
		if _, err := c.submit(nil); err != nil {
			return ActionSubmit, err
		}
		return ActionSubmit, nil
	}

	return ActionIdle, nil
}

// Submit snapshots the current slot set plus any extra fields and hands
// the request to the transport. It returns the submission's correlation
// identifier immediately; the transport's completion arrives later via
// HandleTransportComplete or HandleTransportFailure.
//
// Only one submission may be outstanding at a time: a second call while
// disabled fails with a submission-in-flight error and does not create
// a second transport request.
func (c *Controller) Submit(extra ...Field) (string, error) {
	if !c.Enabled() {
		err := NewSubmissionInFlightError(c.inFlightID)
		c.delegate.DidFail(err)
		return "", err
	}
	return c.submit(extra)
}

func (c *Controller) submit(extra []Field) (string, error) {
	if c.transport == nil {
		err := NewTransportUnavailableError("no transport configured", nil)
		c.delegate.DidFail(err)
		return "", err
	}

	fields := make([]Field, 0, len(c.cfg.HiddenFields)+len(extra))
	fields = append(fields, c.cfg.HiddenFields...)
	fields = append(fields, extra...)

	req := SubmissionRequest{
		CorrelationID: uuid.NewString(),
		FormAction:    c.cfg.FormAction,
		InputName:     c.cfg.InputName,
		Values:        c.Values(),
		Fields:        fields,
	}

	c.delegate.WillSubmit()

	if err := c.transport.Submit(req); err != nil {
		wrapped := NewTransportUnavailableError("transport rejected request", err)
		c.delegate.DidFail(wrapped)
		return "", wrapped
	}

	c.inFlightID = req.CorrelationID
	logging.LogSubmission(req.CorrelationID, req.FormAction, len(req.Values))
	c.delegate.DidSubmit(req.CorrelationID)
	return req.CorrelationID, nil
}

// HandleTransportComplete decodes the transport's response payload and
// delivers the result to the delegate. Interaction is re-enabled on
// both outcomes; a decode failure leaves the slot set untouched.
func (c *Controller) HandleTransportComplete(raw []byte) (*SubmissionResult, error) {
	id := c.inFlightID
	c.inFlightID = ""

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		wrapped := NewMalformedResponseError("response payload is not valid JSON", err)
		logging.LogSubmissionResult(id, "malformed", wrapped)
		c.delegate.DidFail(wrapped)
		return nil, wrapped
	}

	result := &SubmissionResult{
		CorrelationID: id,
		Payload:       payload,
	}
	logging.LogSubmissionResult(id, "complete", nil)
	c.delegate.DidComplete(result)
	return result, nil
}

// HandleTransportFailure re-enables interaction after a failed
// submission and routes the reason to the delegate. The slot set is
// left untouched so the user may retry.
func (c *Controller) HandleTransportFailure(reason error) {
	id := c.inFlightID
	c.inFlightID = ""
	logging.LogSubmissionResult(id, "failed", reason)
	c.delegate.DidFail(reason)
}

// Reset rebuilds the slot set from the configuration: one empty slot in
// progressive mode, all slots otherwise. Refused while a submission is
// outstanding.
func (c *Controller) Reset() error {
	if !c.Enabled() {
		return NewSubmissionInFlightError(c.inFlightID)
	}
	c.slots = newSlotSet(c.cfg)
	return nil
}
