package apps

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/shell"
)

// SessionApp is an application backed by one external session, such as a chat
// or a browsing session. Requests and responses are the session's business;
// the shell only guarantees the session is closed with the window.
type SessionApp struct {
	AppID         shell.AppID
	Width, Height int
	Purpose       string
}

// NewSessionApp creates a session application.
func NewSessionApp(id shell.AppID, width, height int, purpose string) *SessionApp {
	return &SessionApp{AppID: id, Width: width, Height: height, Purpose: purpose}
}

func (s *SessionApp) ID() shell.AppID { return s.AppID }

func (s *SessionApp) Descriptor() shell.Descriptor {
	d, _ := Fallback(s.AppID)
	d.Width, d.Height = s.Width, s.Height
	return d
}

func (s *SessionApp) Start(lt *shell.Lifetime, _ shell.Window, res *Resources) (Instance, error) {
	h := NewHandle(KindSession, fmt.Sprintf("%s-%s", s.AppID, lt.ID()[:8]))
	res.AddCloser(KindSession, h.Name, h)
	return staticStatus(s.Purpose + " session ready"), nil
}

// Embed hosts third-party content in a frame that must be emptied on close.
type Embed struct {
	AppID  shell.AppID
	Source string
}

func (e *Embed) ID() shell.AppID { return e.AppID }

func (e *Embed) Descriptor() shell.Descriptor {
	d, _ := Fallback(e.AppID)
	d.Width, d.Height = 640, 480
	return d
}

func (e *Embed) Start(_ *shell.Lifetime, _ shell.Window, res *Resources) (Instance, error) {
	frame := NewHandle(KindEmbed, e.Source)
	res.AddCloser(KindEmbed, string(e.AppID)+"-content", frame)
	return staticStatus("embedded " + e.Source), nil
}
