package webchat

import (
	"time"

	"github.com/webchat-dev/webchat/core"
)

// Login establishes a session. On success the credential is installed on
// the transport, persisted, and a directory refresh is triggered; the sync
// loop stays idle until a room is selected. On failure the prior session,
// if any, is untouched.
func (a *App) Login(username, password string) {
	a.do(func() { a.login(username, password) })
}

func (a *App) login(username, password string) {
	in := core.LoginInput{Username: username, Password: password}
	if err := in.Validate(); err != nil {
		a.fail(err.Error())
		return
	}
	a.async(func() func() {
		session, err := a.api.Login(a.ctx, in.Username, in.Password)
		return func() { a.applyLogin(session, err) }
	})
}

func (a *App) applyLogin(session core.Session, err error) {
	if err != nil {
		a.fail(err.Error())
		return
	}
	a.api.SetToken(session.Token)
	a.state.Session = session
	if err := a.sessions.Save(a.ctx, session); err != nil {
		// the session still works for this process; only resume is lost
		a.logger.Error("persist session", "error", err)
	}
	a.success("Login successful!")
	a.refresh()
}

// Register creates an account. It does not establish a session; the caller
// logs in afterwards.
func (a *App) Register(username, password, email string) {
	a.do(func() { a.register(username, password, email) })
}

func (a *App) register(username, password, email string) {
	in := core.RegisterInput{Username: username, Password: password, Email: email}
	if err := in.Validate(); err != nil {
		a.fail(err.Error())
		return
	}
	a.async(func() func() {
		err := a.api.Register(a.ctx, in.Username, in.Password, in.Email)
		return func() {
			if err != nil {
				a.fail(err.Error())
				return
			}
			a.success("Registration successful! Please login.")
		}
	})
}

// ValidateSession attempts a silent resume from the persisted credential.
// It probes the server exactly once: any failure, including a network one,
// clears the credential and leaves the client logged out without raising a
// user-visible error. Call once at process start.
func (a *App) ValidateSession() {
	a.do(a.validateSession)
}

func (a *App) validateSession() {
	session, err := a.sessions.Load(a.ctx)
	if err != nil {
		a.logger.Error("load persisted session", "error", err)
		return
	}
	if session == nil {
		return
	}
	if core.ExpiredLocally(session.Token, time.Now()) {
		a.logger.Info("persisted session already expired")
		if err := a.sessions.Clear(a.ctx); err != nil {
			a.logger.Error("clear persisted session", "error", err)
		}
		return
	}

	a.api.SetToken(session.Token)
	a.state.Session = *session
	a.async(func() func() {
		err := a.api.ValidateSession(a.ctx)
		return func() { a.applyValidation(err) }
	})
}

func (a *App) applyValidation(err error) {
	if err != nil {
		// expected path for a stale credential; route to logged out quietly
		a.logger.Info("session validation failed", "error", err)
		a.logout()
		return
	}
	a.refresh()
}

// Logout clears the session, the directory, the overlay, the active room,
// and the persisted credential, and halts the sync loop. Logging out while
// logged out is a no-op with the same end state.
func (a *App) Logout() {
	a.do(a.logout)
}

func (a *App) logout() {
	a.disarmPolling()
	a.api.ClearToken()
	a.state.Reset()
	if err := a.sessions.Clear(a.ctx); err != nil {
		a.logger.Error("clear persisted session", "error", err)
	}
}
