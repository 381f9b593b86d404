// Package ipc is the unix-socket control surface: one JSON request line in,
// one JSON response line out.
package ipc

// Commands understood by the running daemon.
const (
	CommandStatus = "status"
	CommandStart  = "start"
	CommandStop   = "stop"
	CommandReset  = "reset"
)

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Partial string `json:"partial,omitempty"`
	Final   string `json:"final,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
