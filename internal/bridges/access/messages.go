package access

import (
	"errors"
	"time"

	accessrules "github.com/nerrad567/wayfinder-core/internal/access"
)

// ErrInvalidCommand is returned for a command payload without its state field.
var ErrInvalidCommand = errors.New("access bridge: invalid command")

// GateCommand sets a gate's open flag.
type GateCommand struct {
	IsOpen *bool  `json:"is_open"`
	Source string `json:"source,omitempty"`
}

// PathCommand blocks or unblocks a path.
type PathCommand struct {
	IsBlocked *bool  `json:"is_blocked"`
	Reason    string `json:"reason,omitempty"`
	Source    string `json:"source,omitempty"`
}

// GateStateMessage is the retained payload on wayfinder/state/gate/{id}.
type GateStateMessage struct {
	GateID    string             `json:"gate_id"`
	IsOpen    bool               `json:"is_open"`
	Status    accessrules.Status `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

// PathStateMessage is the retained payload on wayfinder/state/path/{id}.
type PathStateMessage struct {
	PathID    string    `json:"path_id"`
	IsBlocked bool      `json:"is_blocked"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
