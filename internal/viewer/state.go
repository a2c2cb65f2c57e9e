package viewer

import (
	"time"

	"github.com/nekomimist/nvpix/internal/navigator"
)

// State is the phase of the current navigation.
type State int

const (
	// Idle means nothing is shown, either before the first Open or because the
	// directory holds no images.
	Idle State = iota
	Loading
	Displaying
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Displaying:
		return "displaying"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Direction selects the neighbour Navigate moves to.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Desktop performs file operations that belong to the desktop environment.
type Desktop interface {
	MoveToTrash(p navigator.ImagePath) error
	// Reveal shows p in the system file manager.
	Reveal(p navigator.ImagePath) error
	// Launch starts program in the background with env added to the
	// environment.
	Launch(program string, args []string, env map[string]string) error
}

// Overlay message display duration
const overlayMessageDuration = 2 * time.Second

// busyPoll is how soon Tick must run again while decodes are outstanding.
const busyPoll = 16 * time.Millisecond
