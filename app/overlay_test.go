package webchat

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webchat-dev/webchat/core"
)

func TestSearch(t *testing.T) {
	t.Run("finds a public room the caller is not in", func(t *testing.T) {
		f := newFixture(t)
		bob := f.loginAs("bob")
		roomID := f.createRoomAs(bob, "public hangout", true)
		f.login("alice")

		f.app.Search(strconv.Itoa(roomID))
		f.app.Wait()

		snap := f.app.Snapshot()
		require.NotNil(t, snap.Overlay)
		assert.Equal(t, roomID, snap.Overlay.ID)
		assert.True(t, snap.Overlay.IsPublic)
		assert.Empty(t, snap.Rooms, "the preview never leaks into the directory")
	})

	t.Run("finds private rooms too", func(t *testing.T) {
		f := newFixture(t)
		bob := f.loginAs("bob")
		roomID := f.createRoomAs(bob, "secret club", false)
		f.login("alice")

		f.app.Search(strconv.Itoa(roomID))
		f.app.Wait()

		snap := f.app.Snapshot()
		require.NotNil(t, snap.Overlay)
		assert.False(t, snap.Overlay.IsPublic)
	})

	t.Run("a new result replaces the previous one", func(t *testing.T) {
		f := newFixture(t)
		bob := f.loginAs("bob")
		first := f.createRoomAs(bob, "first", true)
		second := f.createRoomAs(bob, "second", true)
		f.login("alice")

		f.app.Search(strconv.Itoa(first))
		f.app.Wait()
		f.app.Search(strconv.Itoa(second))
		f.app.Wait()

		snap := f.app.Snapshot()
		require.NotNil(t, snap.Overlay)
		assert.Equal(t, second, snap.Overlay.ID)
	})

	t.Run("not found clears the slot", func(t *testing.T) {
		f := newFixture(t)
		bob := f.loginAs("bob")
		roomID := f.createRoomAs(bob, "exists", true)
		f.login("alice")

		f.app.Search(strconv.Itoa(roomID))
		f.app.Wait()
		f.app.Search("999")
		f.app.Wait()

		snap := f.app.Snapshot()
		assert.Nil(t, snap.Overlay)
		assert.Equal(t, core.StatusError, snap.Status.Kind)
	})

	t.Run("a non-numeric id never reaches the network", func(t *testing.T) {
		f := newFixture(t)
		f.login("alice")

		f.app.Search("general")
		f.app.Wait()

		snap := f.app.Snapshot()
		assert.Nil(t, snap.Overlay)
		assert.Equal(t, "Please enter a valid chat ID", snap.Status.Text)
		assert.Zero(t, f.count("/api/chats/search"))
	})
}

func TestDismiss(t *testing.T) {
	f := newFixture(t)
	bob := f.loginAs("bob")
	roomID := f.createRoomAs(bob, "public hangout", true)
	myRoom := f.createRoomAs(f.loginAs("alice"), "mine", true)
	f.login("alice")

	f.app.Search(strconv.Itoa(roomID))
	f.app.Wait()
	f.app.Dismiss()
	f.app.Wait()

	snap := f.app.Snapshot()
	assert.Nil(t, snap.Overlay)
	assert.Empty(t, snap.SearchInput)
	require.Len(t, snap.Rooms, 1, "dismiss never touches the directory")
	assert.Equal(t, myRoom, snap.Rooms[0].ID)
}

func TestJoinFromSearch(t *testing.T) {
	t.Run("success promotes the room via refresh and clears the slot", func(t *testing.T) {
		f := newFixture(t)
		bob := f.loginAs("bob")
		roomID := f.createRoomAs(bob, "public hangout", true)
		f.login("alice")

		f.app.Search(strconv.Itoa(roomID))
		f.app.Wait()
		f.app.JoinRoom(roomID)
		f.app.Wait()

		snap := f.app.Snapshot()
		assert.Nil(t, snap.Overlay, "the preview and the directory never hold the same id")
		require.Len(t, snap.Rooms, 1)
		assert.Equal(t, roomID, snap.Rooms[0].ID)
	})

	t.Run("failure keeps the slot for a retry", func(t *testing.T) {
		f := newFixture(t)
		bob := f.loginAs("bob")
		roomID := f.createRoomAs(bob, "secret club", false)
		f.login("alice")

		f.app.Search(strconv.Itoa(roomID))
		f.app.Wait()
		f.app.JoinRoom(roomID)
		f.app.Wait()

		snap := f.app.Snapshot()
		require.NotNil(t, snap.Overlay)
		assert.Equal(t, roomID, snap.Overlay.ID)
		assert.Equal(t, "Chat is private", snap.Status.Text)
		assert.Empty(t, snap.Rooms)
	})
}
