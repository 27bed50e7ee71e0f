package stubserver

import (
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/webchat-dev/webchat/core"
)

var (
	errUserExists    = errors.New("username already exists")
	errRoomNotFound  = errors.New("chat not found")
	errAlreadyMember = errors.New("already a member of this chat")
	errPrivateRoom   = errors.New("chat is private")
	errNotMember     = errors.New("not a member of this chat")
)

type user struct {
	ID           int
	Username     string
	Email        string
	PasswordHash []byte
}

type roomRecord struct {
	ID       int
	Name     string
	Kind     string
	IsPublic bool
	Members  map[int]struct{}
	Messages []core.Message
}

func (r roomRecord) wire() core.Room {
	return core.Room{
		ID:          r.ID,
		Name:        r.Name,
		Kind:        r.Kind,
		MemberCount: len(r.Members),
		IsPublic:    r.IsPublic,
	}
}

// memStore is the stub's storage: users and rooms in concurrency-safe
// maps, ids from atomic counters. Everything is lost on restart, which is
// the point of a stub.
type memStore struct {
	users     *SyncMap[string, user]
	usersByID *SyncMap[int, user]
	rooms     *SyncMap[int, roomRecord]

	nextUserID atomic.Int64
	nextRoomID atomic.Int64
}

func newMemStore() *memStore {
	return &memStore{
		users:     NewSyncMap[string, user](),
		usersByID: NewSyncMap[int, user](),
		rooms:     NewSyncMap[int, roomRecord](),
	}
}

func (s *memStore) createUser(username, email string, passwordHash []byte) (user, error) {
	u := user{
		ID:           int(s.nextUserID.Add(1)),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := s.users.Update(username, func(existing user, ok bool) (user, error) {
		if ok {
			return existing, errUserExists
		}
		return u, nil
	})
	if err != nil {
		return user{}, err
	}
	s.usersByID.Store(u.ID, u)
	return u, nil
}

func (s *memStore) userByName(username string) (user, bool) {
	return s.users.Load(username)
}

func (s *memStore) userByID(id int) (user, bool) {
	return s.usersByID.Load(id)
}

func (s *memStore) createRoom(name string, isPublic bool, ownerID int) roomRecord {
	r := roomRecord{
		ID:       int(s.nextRoomID.Add(1)),
		Name:     name,
		Kind:     core.GroupChat,
		IsPublic: isPublic,
		Members:  map[int]struct{}{ownerID: {}},
	}
	s.rooms.Store(r.ID, r)
	return r
}

func (s *memStore) room(id int) (roomRecord, bool) {
	return s.rooms.Load(id)
}

// memberRooms returns the rooms userID belongs to, ordered by id.
func (s *memStore) memberRooms(userID int) []core.Room {
	var out []core.Room
	s.rooms.RRange(func(_ int, r roomRecord) bool {
		if _, ok := r.Members[userID]; ok {
			out = append(out, r.wire())
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) join(roomID, userID int) error {
	return s.rooms.Update(roomID, func(r roomRecord, ok bool) (roomRecord, error) {
		if !ok {
			return r, errRoomNotFound
		}
		if _, member := r.Members[userID]; member {
			return r, errAlreadyMember
		}
		if !r.IsPublic {
			return r, errPrivateRoom
		}
		members := make(map[int]struct{}, len(r.Members)+1)
		for id := range r.Members {
			members[id] = struct{}{}
		}
		members[userID] = struct{}{}
		r.Members = members
		return r, nil
	})
}

func (s *memStore) messages(roomID, userID int) ([]core.Message, error) {
	r, ok := s.rooms.Load(roomID)
	if !ok {
		return nil, errRoomNotFound
	}
	if _, member := r.Members[userID]; !member {
		return nil, errNotMember
	}
	return r.Messages, nil
}

func (s *memStore) appendMessage(roomID int, sender user, content string) error {
	msg := core.Message{
		SenderID:   sender.ID,
		SenderName: sender.Username,
		Content:    content,
		Timestamp:  time.Now().Format("2006-01-02 15:04:05"),
	}
	return s.rooms.Update(roomID, func(r roomRecord, ok bool) (roomRecord, error) {
		if !ok {
			return r, errRoomNotFound
		}
		if _, member := r.Members[sender.ID]; !member {
			return r, errNotMember
		}
		// fresh slice so readers holding the old one never see the append
		messages := make([]core.Message, len(r.Messages), len(r.Messages)+1)
		copy(messages, r.Messages)
		r.Messages = append(messages, msg)
		return r, nil
	})
}
