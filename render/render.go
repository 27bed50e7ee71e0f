// Package render turns state snapshots into something displayable. It is a
// pure mapping: no network, no state of its own. The HTML renderer relies
// on html/template's contextual escaping, so untrusted message content can
// never become markup.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/webchat-dev/webchat/core"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>WebChat</title></head>
<body>
{{- if .Status.Text}}
<div class="message {{.Status.Kind}}">{{.Status.Text}}</div>
{{- end}}
{{- if .Session.Established}}
<div id="current-user">{{.Session.Username}} (ID: {{.Session.UserID}})</div>
<div id="chat-list">
{{- if .Overlay}}
  <div class="search-result">
    <h4>{{.Overlay.Name}}</h4>
    <p>ID: {{.Overlay.ID}} &bull; Members: {{.Overlay.MemberCount}}{{if .Overlay.IsPublic}} &bull; Public{{else}} &bull; Private{{end}}</p>
  </div>
{{- end}}
{{- range .Rooms}}
  <div class="chat-item{{if .Active}} active{{end}}" data-chat-id="{{.ID}}">
    <div><strong>{{.Name}}</strong></div>
    <small>ID: {{.ID}} &bull; {{.MemberCount}} members</small>
  </div>
{{- else}}
  <div class="no-chats">No chats yet. Create one or search for existing chats!</div>
{{- end}}
</div>
<div id="messages">
{{- range .Transcript}}
  <div class="message-item {{if .Own}}own{{else}}other{{end}}">
    <div class="message-sender">{{.SenderName}}</div>
    <div class="message-content">{{.Content}}</div>
    <div class="message-time">{{.Timestamp}}</div>
  </div>
{{- end}}
</div>
{{- else}}
<div id="login-screen">Please log in.</div>
{{- end}}
</body>
</html>
`))

type pageRoom struct {
	core.Room
	Active bool
}

type pageMessage struct {
	core.Message
	Own bool
}

type pageData struct {
	Session    core.Session
	Status     core.Status
	Overlay    *core.Room
	Rooms      []pageRoom
	Transcript []pageMessage
}

// HTML writes a full-page rendering of the snapshot.
func HTML(w io.Writer, snap core.Snapshot) error {
	data := pageData{
		Session: snap.Session,
		Overlay: snap.Overlay,
	}
	if snap.Status.Visible(time.Now()) {
		data.Status = snap.Status
	}
	for _, r := range snap.Rooms {
		data.Rooms = append(data.Rooms, pageRoom{Room: r, Active: r.ID == snap.ActiveRoomID})
	}
	for _, m := range snap.Transcript {
		data.Transcript = append(data.Transcript, pageMessage{Message: m, Own: m.SenderID == snap.Session.UserID})
	}
	return page.Execute(w, data)
}

// Text renders the snapshot for a terminal. Untrusted content is passed
// through sanitize so it cannot emit control sequences.
func Text(w io.Writer, snap core.Snapshot) {
	if !snap.Session.Established() {
		fmt.Fprintln(w, "Not logged in.")
		return
	}
	fmt.Fprintf(w, "Logged in as %s (ID %d)\n", sanitize(snap.Session.Username), snap.Session.UserID)

	if snap.Status.Visible(time.Now()) {
		fmt.Fprintf(w, "[%s] %s\n", snap.Status.Kind, sanitize(snap.Status.Text))
	}

	if snap.Overlay != nil {
		visibility := "private"
		if snap.Overlay.IsPublic {
			visibility = "public"
		}
		fmt.Fprintf(w, "-- search result: %s (ID %d, %d members, %s)\n",
			sanitize(snap.Overlay.Name), snap.Overlay.ID, snap.Overlay.MemberCount, visibility)
	}

	if len(snap.Rooms) == 0 {
		fmt.Fprintln(w, "No chats yet. Create one or search for existing chats!")
	}
	for _, r := range snap.Rooms {
		marker := "  "
		if r.ID == snap.ActiveRoomID {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%s (ID %d, %d members)\n", marker, sanitize(r.Name), r.ID, r.MemberCount)
	}

	if snap.ActiveRoomID != 0 {
		fmt.Fprintln(w, "---")
		if len(snap.Transcript) == 0 {
			fmt.Fprintln(w, "No messages yet. Start the conversation!")
		}
		for _, m := range snap.Transcript {
			fmt.Fprintf(w, "[%s] %s: %s\n",
				sanitize(m.Timestamp), sanitize(m.SenderName), sanitize(m.Content))
		}
	}
}

// sanitize strips control characters from untrusted text.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
