package core

// GroupChat is the only room kind the backend currently produces.
// The field is carried through so new kinds do not require a wire change.
const GroupChat = "group"

// Session is the client's credential together with the identity it
// authenticates. At most one session is active at a time; its token is
// attached as a bearer token to every request until the session is cleared.
type Session struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Established reports whether the session carries a usable credential.
func (s Session) Established() bool {
	return s.Token != "" && s.UserID != 0
}

// Room is a chat room as the backend describes it. A room's identity is its
// ID. Rooms come from two places: the member room list (the directory) and
// the single search preview slot, and an entry never moves between the two
// without a round trip through the server.
type Room struct {
	ID          int    `json:"chat_id"`
	Name        string `json:"chat_name"`
	Kind        string `json:"chat_type"`
	MemberCount int    `json:"member_count"`
	IsPublic    bool   `json:"is_public"`
}

// Message is a single transcript entry. Content is untrusted text and must
// be escaped by whatever renders it; it is never interpreted as markup.
// Timestamp is the server's preformatted display string.
type Message struct {
	SenderID   int    `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}
