package webchat

import (
	"fmt"
	"strings"

	"github.com/webchat-dev/webchat/core"
)

// Refresh replaces the member room directory with the server's current
// membership list. On failure the directory collapses to empty and the
// active room is cleared: showing nothing is preferred over showing stale
// rooms.
func (a *App) Refresh() {
	a.do(a.refresh)
}

func (a *App) refresh() {
	a.async(func() func() {
		rooms, err := a.api.ListRooms(a.ctx)
		return func() { a.applyRooms(rooms, err) }
	})
}

func (a *App) applyRooms(rooms []core.Room, err error) {
	if err != nil {
		a.logger.Error("refresh rooms", "error", err)
		a.state.Rooms = nil
		a.clearActive()
		return
	}
	a.state.Rooms = dedupeRooms(rooms)
	if a.state.ActiveRoomID != 0 {
		if _, ok := a.state.ActiveRoom(); !ok {
			a.clearActive()
		}
	}
}

// CreateRoom creates a room and optimistically prepends a provisional
// entry with a member count of one, so the list reflects the action before
// the authoritative state lands. A reconciling refresh is scheduled after
// the configured delay; it supersedes the provisional entry.
func (a *App) CreateRoom(name string, isPublic bool) {
	a.do(func() { a.createRoom(name, isPublic) })
}

func (a *App) createRoom(name string, isPublic bool) {
	in := core.CreateRoomInput{Name: strings.TrimSpace(name), IsPublic: isPublic}
	if err := in.Validate(); err != nil {
		a.fail(err.Error())
		return
	}
	a.async(func() func() {
		id, err := a.api.CreateRoom(a.ctx, in.Name, in.IsPublic)
		return func() { a.applyCreated(in, id, err) }
	})
}

func (a *App) applyCreated(in core.CreateRoomInput, id int, err error) {
	if err != nil {
		a.fail("Failed to create chat: " + err.Error())
		return
	}
	provisional := core.Room{
		ID:          id,
		Name:        in.Name,
		Kind:        core.GroupChat,
		MemberCount: 1,
		IsPublic:    in.IsPublic,
	}
	a.state.Rooms = append([]core.Room{provisional}, withoutRoom(a.state.Rooms, id)...)
	a.clearActive()
	a.success(fmt.Sprintf("Chat created successfully! ID: %d", id))
	a.after(a.config.ReconcileDelay, a.refresh)
}

// JoinRoom makes the caller a member of the room. The directory is never
// updated locally: a successful join triggers a refresh so the server list
// stays the single source of truth.
func (a *App) JoinRoom(roomID int) {
	a.do(func() { a.joinRoom(roomID) })
}

func (a *App) joinRoom(roomID int) {
	a.async(func() func() {
		err := a.api.JoinRoom(a.ctx, roomID)
		return func() { a.applyJoin(roomID, err) }
	})
}

func (a *App) applyJoin(roomID int, err error) {
	if err != nil {
		// a failed join from the search preview leaves the preview up for
		// another attempt
		a.fail(err.Error())
		return
	}
	if a.state.Overlay != nil && a.state.Overlay.ID == roomID {
		a.dismissSearch()
	}
	a.success("Successfully joined chat!")
	a.refresh()
}

// Select makes roomID the active room: its transcript is fetched now and
// then polled on the sync cadence. Selecting the already-active room does
// nothing at all: no fetch, no timer reset.
func (a *App) Select(roomID int) {
	a.do(func() { a.selectRoom(roomID) })
}

func (a *App) selectRoom(roomID int) {
	if roomID == a.state.ActiveRoomID {
		return
	}
	if _, ok := a.state.Room(roomID); !ok {
		a.logger.Warn("select: room not in directory", "room_id", roomID)
		return
	}
	a.state.ActiveRoomID = roomID
	a.state.Transcript = nil
	a.fetchTranscript(roomID)
	a.armPolling()
}

// clearActive drops the active room, its transcript, and leaves the sync
// loop idle.
func (a *App) clearActive() {
	a.state.ActiveRoomID = 0
	a.state.Transcript = nil
	a.disarmPolling()
}

// dedupeRooms drops duplicate ids, keeping the first (server-ordered)
// occurrence.
func dedupeRooms(rooms []core.Room) []core.Room {
	seen := make(map[int]struct{}, len(rooms))
	out := rooms[:0]
	for _, r := range rooms {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func withoutRoom(rooms []core.Room, id int) []core.Room {
	out := make([]core.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
