package widget

import "strings"

// fakePathMarker is the prefix some browsers inject in front of a selected
// filename. Values arriving from such environments are normalized before
// the controller records them.
const fakePathMarker = `c:\fakepath\`

// Slot is one logical file-selection position within the form.
// Slots are created lazily in progressive mode, or all at once otherwise,
// and are never destroyed individually; the whole set is rebuilt on Reset.
type Slot struct {
	position int
	value    string
	previous string
}

// Position returns the slot's index within the selection set
func (s *Slot) Position() int {
	return s.position
}

// Value returns the slot's current value (empty if nothing selected)
func (s *Slot) Value() string {
	return s.value
}

// Previous returns the value the slot held before the last change
func (s *Slot) Previous() string {
	return s.previous
}

// Filled reports whether the slot holds a non-empty value
func (s *Slot) Filled() bool {
	return s.value != ""
}

// set records a new value, retaining the prior one for delegate notification
func (s *Slot) set(value string) {
	s.previous = s.value
	s.value = value
}

// NormalizeValue strips a browser-injected fake path prefix, leaving only
// the trailing filename. Values without the marker are returned unchanged.
//
//	NormalizeValue(`C:\fakepath\photo.jpg`) == "photo.jpg"
//	NormalizeValue("photo.jpg") == "photo.jpg"
func NormalizeValue(raw string) string {
	if len(raw) < len(fakePathMarker) {
		return raw
	}
	prefix := strings.ToLower(raw[:len(fakePathMarker)])
	// Accept either slash direction in the marker
	prefix = strings.ReplaceAll(prefix, "/", `\`)
	if prefix == fakePathMarker {
		return raw[len(fakePathMarker):]
	}
	return raw
}

// newSlotSet builds the initial slot set for the given configuration.
// Progressive mode starts with a single empty slot; otherwise all slots
// exist from construction.
func newSlotSet(cfg Config) []*Slot {
	count := cfg.NumberOfFiles
	if cfg.Progressive {
		count = 1
	}
	slots := make([]*Slot, count)
	for i := range slots {
		slots[i] = &Slot{position: i}
	}
	return slots
}
