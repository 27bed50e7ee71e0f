package webchat

import (
	"strconv"
	"strings"

	"github.com/webchat-dev/webchat/core"
)

// Search looks up a room by exact id, membership and visibility
// notwithstanding, and puts the result in the single preview slot above
// the directory. A failed search clears the slot.
func (a *App) Search(query string) {
	a.do(func() { a.search(query) })
}

func (a *App) search(query string) {
	a.state.SearchInput = query
	roomID, err := strconv.Atoi(strings.TrimSpace(query))
	if err != nil || roomID <= 0 {
		a.fail("Please enter a valid chat ID")
		return
	}
	a.async(func() func() {
		room, err := a.api.SearchRoom(a.ctx, roomID)
		return func() { a.applySearch(room, err) }
	})
}

func (a *App) applySearch(room core.Room, err error) {
	if err != nil {
		a.state.Overlay = nil
		a.fail("Chat not found: " + err.Error())
		return
	}
	// at most one preview: a new result replaces the previous one
	a.state.Overlay = &room
}

// Dismiss closes the search preview and clears the search input. The
// directory is untouched.
func (a *App) Dismiss() {
	a.do(a.dismissSearch)
}

func (a *App) dismissSearch() {
	a.state.Overlay = nil
	a.state.SearchInput = ""
}
