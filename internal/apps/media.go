package apps

import (
	"fmt"
	"strings"

	"github.com/1broseidon/deskshell/internal/shell"
)

// MediaPlayer owns one native player handle per open lifetime.
type MediaPlayer struct {
	DefaultVideo string
}

func (m *MediaPlayer) ID() shell.AppID { return "mediaPlayer" }

func (m *MediaPlayer) Descriptor() shell.Descriptor {
	d, _ := Fallback("mediaPlayer")
	d.Width, d.Height = 640, 420
	return d
}

func (m *MediaPlayer) Start(_ *shell.Lifetime, _ shell.Window, res *Resources) (Instance, error) {
	player := NewHandle(KindPlayer, "youtube-player-mediaPlayer")
	res.AddCloser(KindPlayer, player.Name, player)
	return &playerInstance{video: m.DefaultVideo, player: player}, nil
}

type playerInstance struct {
	video  string
	player *Handle
}

func (p *playerInstance) Status() string {
	if p.player.Closed() {
		return "Player closed."
	}
	return fmt.Sprintf("playing %s", p.video)
}

// Voice holds a live capture session: the microphone stream, an input and an
// output audio context, and the remote session itself.
type Voice struct{}

func (v *Voice) ID() shell.AppID { return "gemVoice" }

func (v *Voice) Descriptor() shell.Descriptor {
	d, _ := Fallback("gemVoice")
	d.Width, d.Height = 420, 360
	return d
}

func (v *Voice) Start(_ *shell.Lifetime, _ shell.Window, res *Resources) (Instance, error) {
	inst := &voiceInstance{}
	for _, h := range []*Handle{
		NewHandle(KindSession, "live-session"),
		NewHandle(KindAudio, "output-audio"),
		NewHandle(KindAudio, "input-audio"),
		NewHandle(KindCapture, "microphone"),
	} {
		res.AddCloser(h.Kind, h.Name, h)
		inst.handles = append(inst.handles, h)
	}
	return inst, nil
}

type voiceInstance struct {
	handles []*Handle
}

func (v *voiceInstance) Status() string {
	open := make([]string, 0, len(v.handles))
	for _, h := range v.handles {
		if !h.Closed() {
			open = append(open, h.Name)
		}
	}
	if len(open) == 0 {
		return "idle"
	}
	return "live: " + strings.Join(open, ", ")
}
