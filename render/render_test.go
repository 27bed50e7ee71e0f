package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webchat-dev/webchat/core"
)

func loggedInSnapshot() core.Snapshot {
	return core.Snapshot{
		Session: core.Session{Token: "tok", UserID: 1, Username: "alice"},
		Rooms: []core.Room{
			{ID: 1, Name: "general", MemberCount: 2},
			{ID: 2, Name: "random", MemberCount: 5},
		},
		ActiveRoomID: 1,
		Transcript: []core.Message{
			{SenderID: 1, SenderName: "alice", Content: "hello", Timestamp: "2026-08-28 12:00:00"},
			{SenderID: 2, SenderName: "bob", Content: "hi", Timestamp: "2026-08-28 12:00:05"},
		},
	}
}

func TestHTMLEscapesHostileContent(t *testing.T) {
	snap := loggedInSnapshot()
	snap.Transcript[1].Content = `<script>alert("xss")</script>`
	snap.Rooms[0].Name = `<img src=x onerror=alert(1)>`

	var buf strings.Builder
	require.NoError(t, HTML(&buf, snap))
	out := buf.String()

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestHTMLStructure(t *testing.T) {
	t.Run("logged out shows login screen", func(t *testing.T) {
		var buf strings.Builder
		require.NoError(t, HTML(&buf, core.Snapshot{}))
		assert.Contains(t, buf.String(), "Please log in.")
		assert.NotContains(t, buf.String(), "chat-list")
	})

	t.Run("active room is marked", func(t *testing.T) {
		var buf strings.Builder
		require.NoError(t, HTML(&buf, loggedInSnapshot()))
		out := buf.String()
		assert.Contains(t, out, `class="chat-item active" data-chat-id="1"`)
		assert.Contains(t, out, `class="chat-item" data-chat-id="2"`)
	})

	t.Run("own messages are distinguished", func(t *testing.T) {
		var buf strings.Builder
		require.NoError(t, HTML(&buf, loggedInSnapshot()))
		out := buf.String()
		assert.Contains(t, out, "message-item own")
		assert.Contains(t, out, "message-item other")
	})

	t.Run("empty directory shows placeholder", func(t *testing.T) {
		snap := loggedInSnapshot()
		snap.Rooms = nil
		snap.ActiveRoomID = 0
		var buf strings.Builder
		require.NoError(t, HTML(&buf, snap))
		assert.Contains(t, buf.String(), "No chats yet.")
	})

	t.Run("overlay renders visibility", func(t *testing.T) {
		snap := loggedInSnapshot()
		snap.Overlay = &core.Room{ID: 9, Name: "secret", MemberCount: 3}
		var buf strings.Builder
		require.NoError(t, HTML(&buf, snap))
		assert.Contains(t, buf.String(), "search-result")
		assert.Contains(t, buf.String(), "Private")
	})

	t.Run("lapsed status is not rendered", func(t *testing.T) {
		snap := loggedInSnapshot()
		snap.Status = core.Status{Text: "old news", Kind: core.StatusError,
			Expiry: time.Now().Add(-time.Second)}
		var buf strings.Builder
		require.NoError(t, HTML(&buf, snap))
		assert.NotContains(t, buf.String(), "old news")
	})
}

func TestTextStripsControlCharacters(t *testing.T) {
	snap := loggedInSnapshot()
	snap.Transcript[0].Content = "evil\x1b[2Jpayload\x07"
	snap.Rooms[0].Name = "a\rb\nc"

	var buf strings.Builder
	Text(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "evilpayload")
	assert.NotContains(t, out, "\x1b")
	assert.NotContains(t, out, "\x07")
	assert.Contains(t, out, "abc (ID 1, 2 members)")
}

func TestTextLayout(t *testing.T) {
	t.Run("logged out", func(t *testing.T) {
		var buf strings.Builder
		Text(&buf, core.Snapshot{})
		assert.Equal(t, "Not logged in.\n", buf.String())
	})

	t.Run("active room marker and transcript", func(t *testing.T) {
		var buf strings.Builder
		Text(&buf, loggedInSnapshot())
		out := buf.String()
		assert.Contains(t, out, "Logged in as alice (ID 1)")
		assert.Contains(t, out, "* general (ID 1, 2 members)")
		assert.Contains(t, out, "  random (ID 2, 5 members)")
		assert.Contains(t, out, "bob: hi")
	})

	t.Run("empty transcript placeholder", func(t *testing.T) {
		snap := loggedInSnapshot()
		snap.Transcript = nil
		var buf strings.Builder
		Text(&buf, snap)
		assert.Contains(t, buf.String(), "No messages yet. Start the conversation!")
	})

	t.Run("visible status line", func(t *testing.T) {
		snap := loggedInSnapshot()
		snap.Status = core.Status{Text: "Login successful!", Kind: core.StatusSuccess,
			Expiry: time.Now().Add(time.Minute)}
		var buf strings.Builder
		Text(&buf, snap)
		assert.Contains(t, buf.String(), "[success] Login successful!")
	})
}
