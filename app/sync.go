package webchat

import (
	"strings"
	"time"

	"github.com/webchat-dev/webchat/core"
)

// The sync loop has two states. Idle: no active room, no timer. Polling:
// an active room whose full transcript is fetched on a fixed cadence and
// swapped in wholesale. armPolling and disarmPolling are the only
// transitions; both run on the event loop.

func (a *App) armPolling() {
	if a.pollStop != nil {
		// already polling; re-arming must not reset the cadence
		return
	}
	if a.config.PollInterval <= 0 {
		return
	}
	stop := make(chan struct{})
	a.pollStop = stop
	ticker := time.NewTicker(a.config.PollInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// ticks bypass the Wait accounting: the timer is unbounded
				// recurring work, not an operation anyone awaits
				select {
				case a.ops <- a.tick:
				case <-stop:
					return
				case <-a.done:
					return
				}
			case <-stop:
				return
			case <-a.done:
				return
			}
		}
	}()
}

func (a *App) disarmPolling() {
	if a.pollStop == nil {
		return
	}
	close(a.pollStop)
	a.pollStop = nil
}

// Tick forces one sync tick. Tests drive the loop with this instead of
// waiting out the timer.
func (a *App) Tick() {
	a.do(a.tick)
}

func (a *App) tick() {
	if a.state.ActiveRoomID == 0 {
		return
	}
	a.fetchTranscript(a.state.ActiveRoomID)
}

// fetchTranscript fetches the full message list for roomID and replaces
// the transcript atomically. The completion applies only while roomID is
// still the active room; responses for a room deselected mid-flight are
// discarded. A failed fetch renders an empty transcript rather than a
// stale one and the loop keeps ticking.
func (a *App) fetchTranscript(roomID int) {
	a.async(func() func() {
		messages, err := a.api.ListMessages(a.ctx, roomID)
		return func() { a.applyTranscript(roomID, messages, err) }
	})
}

func (a *App) applyTranscript(roomID int, messages []core.Message, err error) {
	if a.state.ActiveRoomID != roomID {
		a.logger.Debug("discarding transcript for deselected room", "room_id", roomID)
		return
	}
	if err != nil {
		a.logger.Error("fetch messages", "room_id", roomID, "error", err)
		a.state.Transcript = []core.Message{}
		return
	}
	a.state.Transcript = messages
}

// Post sends a message to roomID and then fetches the transcript once,
// out of band, so the message shows up without waiting for the next tick.
func (a *App) Post(roomID int, content string) {
	a.do(func() { a.post(roomID, content) })
}

func (a *App) post(roomID int, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		a.fail("Message content is empty")
		return
	}
	a.async(func() func() {
		err := a.api.SendMessage(a.ctx, roomID, content)
		return func() {
			if err != nil {
				a.fail("Failed to send message: " + err.Error())
				return
			}
			if a.state.ActiveRoomID == roomID {
				a.fetchTranscript(roomID)
			}
		}
	})
}
