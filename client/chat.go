package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/webchat-dev/webchat/core"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
}

// Login exchanges credentials for a session. The returned session is not
// installed on the transport; that is the caller's decision.
func (c *Client) Login(ctx context.Context, username, password string) (core.Session, error) {
	var resp loginResponse
	err := c.call(ctx, http.MethodPost, "/api/login",
		loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return core.Session{}, err
	}
	// older backends do not echo the username back
	if resp.Username == "" {
		resp.Username = username
	}
	return core.Session{
		Token:    resp.SessionToken,
		UserID:   resp.UserID,
		Username: resp.Username,
	}, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Register creates an account. It does not establish a session.
func (c *Client) Register(ctx context.Context, username, password, email string) error {
	return c.call(ctx, http.MethodPost, "/api/register",
		registerRequest{Username: username, Password: password, Email: email}, nil)
}

// ValidateSession asks the server whether the installed credential is still
// good. It is a single probe; callers must not retry it.
func (c *Client) ValidateSession(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/api/validate_session", nil, nil)
}

type roomListResponse struct {
	Chats []core.Room `json:"chats"`
}

// ListRooms returns the caller's member rooms in server order.
func (c *Client) ListRooms(ctx context.Context) ([]core.Room, error) {
	var resp roomListResponse
	if err := c.call(ctx, http.MethodGet, "/api/chats", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Chats == nil {
		return []core.Room{}, nil
	}
	return resp.Chats, nil
}

type createRoomRequest struct {
	Name     string `json:"chat_name"`
	IsPublic bool   `json:"is_public"`
}

type createRoomResponse struct {
	ChatID   int  `json:"chat_id"`
	IsPublic bool `json:"is_public"`
}

// CreateRoom creates a room with the caller as its only member and returns
// the server-assigned id.
func (c *Client) CreateRoom(ctx context.Context, name string, isPublic bool) (int, error) {
	var resp createRoomResponse
	err := c.call(ctx, http.MethodPost, "/api/chats/create_with_privacy",
		createRoomRequest{Name: name, IsPublic: isPublic}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ChatID, nil
}

type roomIDRequest struct {
	ChatID int `json:"chat_id"`
}

// SearchRoom looks a room up by exact id, regardless of the caller's
// membership or the room's visibility.
func (c *Client) SearchRoom(ctx context.Context, roomID int) (core.Room, error) {
	var room core.Room
	err := c.call(ctx, http.MethodPost, "/api/chats/search",
		roomIDRequest{ChatID: roomID}, &room)
	if err != nil {
		return core.Room{}, err
	}
	return room, nil
}

// JoinRoom adds the caller to a room. A conflict from the server means the
// caller already belongs to it.
func (c *Client) JoinRoom(ctx context.Context, roomID int) error {
	err := c.call(ctx, http.MethodPost, "/api/chats/join",
		roomIDRequest{ChatID: roomID}, nil)
	if core.IsKind(err, core.KindConflict) {
		return core.NewError(core.KindAlreadyMember, err.Error())
	}
	return err
}

type messageListResponse struct {
	Messages []core.Message `json:"messages"`
}

// ListMessages returns the full transcript of a room in server order.
func (c *Client) ListMessages(ctx context.Context, roomID int) ([]core.Message, error) {
	var resp messageListResponse
	path := fmt.Sprintf("/api/chats/%d/messages", roomID)
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Messages == nil {
		return []core.Message{}, nil
	}
	return resp.Messages, nil
}

type sendMessageRequest struct {
	ChatID  int    `json:"chat_id"`
	Content string `json:"content"`
}

// SendMessage posts one message to a room.
func (c *Client) SendMessage(ctx context.Context, roomID int, content string) error {
	return c.call(ctx, http.MethodPost, "/api/messages",
		sendMessageRequest{ChatID: roomID, Content: content}, nil)
}
