package session

import (
	"context"
	"fmt"

	"github.com/murmurapp/murmur/internal/ipc"
)

// Handle serves the control-socket commands against this controller. The
// stop command blocks until transcription finishes so the caller gets the
// text in the response.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return c.statusResponse(true, "")
	case ipc.CommandStart:
		if err := c.StartRecording(ctx); err != nil {
			return c.errorResponse(err)
		}
		return c.statusResponse(true, "recording started")
	case ipc.CommandStop:
		if _, err := c.StopAndTranscribe(ctx); err != nil {
			return c.errorResponse(err)
		}
		return c.statusResponse(true, "transcription complete")
	case ipc.CommandReset:
		c.ResetToIdle()
		return c.statusResponse(true, "reset to idle")
	default:
		resp := c.statusResponse(false, "")
		resp.Error = fmt.Sprintf("unknown command %q", req.Command)
		return resp
	}
}

func (c *Controller) statusResponse(ok bool, message string) ipc.Response {
	snap := c.Snapshot()
	return ipc.Response{
		OK:      ok,
		State:   string(snap.State),
		Reason:  snap.Reason,
		Partial: snap.Session.PartialText,
		Final:   snap.Session.FinalText,
		Message: message,
	}
}

func (c *Controller) errorResponse(err error) ipc.Response {
	resp := c.statusResponse(false, "")
	resp.Error = err.Error()
	return resp
}
