package core

import "time"

type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is a short-lived user-visible notice. It is not removed from the
// state when it lapses; renderers check Visible instead, which keeps status
// expiry out of the event loop entirely.
type Status struct {
	Text   string
	Kind   StatusKind
	Expiry time.Time
}

func (s Status) Visible(now time.Time) bool {
	return s.Text != "" && now.Before(s.Expiry)
}

// State is the whole client state: session, member room directory, the
// single search preview slot, the active room and its transcript, and the
// current status notice. It is owned by exactly one goroutine (the
// controller's event loop); everything else sees it only through Snapshot
// copies.
type State struct {
	Session Session
	// Rooms is the member room directory: always the last successful
	// refresh result, except for the short optimistic window after a create.
	Rooms []Room
	// Overlay is the search preview. Nil when no search result is shown.
	Overlay     *Room
	SearchInput string
	// ActiveRoomID is 0 when no room is selected. A non-zero value always
	// resolves to an entry in Rooms.
	ActiveRoomID int
	Transcript   []Message
	Status       Status
}

// Room returns the directory entry with the given id.
func (s *State) Room(id int) (Room, bool) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// ActiveRoom resolves ActiveRoomID against the directory.
func (s *State) ActiveRoom() (Room, bool) {
	if s.ActiveRoomID == 0 {
		return Room{}, false
	}
	return s.Room(s.ActiveRoomID)
}

// Reset clears everything: the logout end state.
func (s *State) Reset() {
	*s = State{}
}

// Snapshot returns an independent copy of the state that is safe to hand
// to renderers on other goroutines.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Session:      s.Session,
		SearchInput:  s.SearchInput,
		ActiveRoomID: s.ActiveRoomID,
		Status:       s.Status,
	}
	if len(s.Rooms) > 0 {
		snap.Rooms = make([]Room, len(s.Rooms))
		copy(snap.Rooms, s.Rooms)
	}
	if len(s.Transcript) > 0 {
		snap.Transcript = make([]Message, len(s.Transcript))
		copy(snap.Transcript, s.Transcript)
	}
	if s.Overlay != nil {
		overlay := *s.Overlay
		snap.Overlay = &overlay
	}
	return snap
}

// Snapshot is an immutable copy of a State. It shares no memory with the
// live state.
type Snapshot struct {
	Session      Session
	Rooms        []Room
	Overlay      *Room
	SearchInput  string
	ActiveRoomID int
	Transcript   []Message
	Status       Status
}

// ActiveRoom resolves ActiveRoomID against the snapshot's directory.
func (s Snapshot) ActiveRoom() (Room, bool) {
	for _, r := range s.Rooms {
		if r.ID == s.ActiveRoomID {
			return r, true
		}
	}
	return Room{}, false
}
