package ui

// EventKind identifies a normalized input event.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventPointerPress
	EventPointerRelease
	// EventPointerLeave is sent to the node the pointer was over when it moves
	// to another node.
	EventPointerLeave
	EventScroll
	EventKey
	EventResize
)

// EventMask is a set of event kinds a node wants to receive.
type EventMask uint32

// MaskOf returns the mask containing the given kinds.
func MaskOf(kinds ...EventKind) EventMask {
	var m EventMask
	for _, k := range kinds {
		m |= 1 << uint(k)
	}
	return m
}

// Has reports whether m contains k.
func (m EventMask) Has(k EventKind) bool {
	return m&(1<<uint(k)) != 0
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
)

// Event is one input event in surface coordinates.
type Event struct {
	Kind   EventKind
	Pos    Point
	Button MouseButton
	// Clicks is 2 for the second press of a double click.
	Clicks int
	// DX, DY carry scroll amounts.
	DX, DY float64
	// Key is a key name such as "ArrowLeft", with Modifiers like "Shift".
	Key       string
	Modifiers []string
	Size      Size
}
