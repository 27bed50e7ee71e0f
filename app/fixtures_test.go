package webchat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webchat-dev/webchat/client"
	"github.com/webchat-dev/webchat/core"
	"github.com/webchat-dev/webchat/store"
	"github.com/webchat-dev/webchat/stubserver"
)

// fixture runs the controller against a real stub backend. The wrapper
// around the stub's handler lets tests count, fail, and slow down
// individual endpoints.
type fixture struct {
	t         *testing.T
	app       *App
	ts        *httptest.Server
	sessions  *store.SQLiteSessionStore
	stateFile string
	ctx       context.Context

	mu     sync.Mutex
	counts map[string]int
	fail   map[string]bool
	delay  map[string]time.Duration
	snaps  []core.Snapshot
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		counts: make(map[string]int),
		fail:   make(map[string]bool),
		delay:  make(map[string]time.Duration),
	}

	stub := stubserver.New(stubserver.Config{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}, discardLogger())
	handler := stub.Handler()

	f.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.counts[r.URL.Path]++
		failing := f.fail[r.URL.Path]
		wait := f.delay[r.URL.Path]
		f.mu.Unlock()

		if wait > 0 {
			time.Sleep(wait)
		}
		if failing {
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}
		handler.ServeHTTP(w, r)
	}))

	f.stateFile = filepath.Join(t.TempDir(), "state.db")
	sessions, err := store.NewSQLiteSessionStore(f.stateFile)
	require.NoError(t, err)
	f.sessions = sessions

	f.app = f.newApp()

	t.Cleanup(func() {
		f.app.Stop()
		f.ts.Close()
		sessions.Close()
	})
	return f
}

// newApp builds a started controller against the fixture's backend and
// session store. Polling is timer-less: tests drive ticks explicitly.
func (f *fixture) newApp() *App {
	config := &Config{
		ServerURL:      f.ts.URL,
		StateFile:      f.stateFile,
		HTTPTimeout:    5 * time.Second,
		PollInterval:   0,
		ReconcileDelay: 5 * time.Millisecond,
		StatusTTL:      time.Minute,
	}
	a := New(f.ctx, config, f.sessions,
		WithLogger(discardLogger()),
		WithClient(client.New(f.ts.URL, client.WithLogger(discardLogger()))),
		WithOnChange(f.record),
	)
	a.Start()
	return a
}

func (f *fixture) record(snap core.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps = append(f.snaps, snap)
}

func (f *fixture) snapshots() []core.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Snapshot, len(f.snaps))
	copy(out, f.snaps)
	return out
}

func (f *fixture) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[path]
}

func (f *fixture) setFail(path string, failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[path] = failing
}

func (f *fixture) setDelay(path string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay[path] = d
}

// seedClient is a raw transport for arranging backend state from outside
// the controller, e.g. as a second user.
func (f *fixture) seedClient() *client.Client {
	return client.New(f.ts.URL, client.WithLogger(discardLogger()))
}

// register creates the account if it does not exist yet.
func (f *fixture) register(username string) {
	err := f.seedClient().Register(f.ctx, username, "pw1", username+"@example.com")
	if core.IsKind(err, core.KindConflict) {
		return
	}
	require.NoError(f.t, err)
}

// loginAs returns a transport authenticated as username, registering the
// account if needed.
func (f *fixture) loginAs(username string) *client.Client {
	c := f.seedClient()
	session, err := c.Login(f.ctx, username, "pw1")
	if core.IsKind(err, core.KindUnauthorized) {
		f.register(username)
		session, err = c.Login(f.ctx, username, "pw1")
	}
	require.NoError(f.t, err)
	c.SetToken(session.Token)
	return c
}

func (f *fixture) createRoomAs(c *client.Client, name string, isPublic bool) int {
	id, err := c.CreateRoom(f.ctx, name, isPublic)
	require.NoError(f.t, err)
	return id
}

// login drives the controller's own login and waits for it to settle.
func (f *fixture) login(username string) {
	f.register(username)
	f.app.Login(username, "pw1")
	f.app.Wait()
	require.True(f.t, f.app.Snapshot().Session.Established())
}

func messagesPath(roomID int) string {
	return fmt.Sprintf("/api/chats/%d/messages", roomID)
}
