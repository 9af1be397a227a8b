package apps

import (
	"time"

	"github.com/1broseidon/deskshell/internal/shell"
)

const iconBase = "https://storage.googleapis.com/gemini-95-icons/"

// fallbacks is the descriptor table used for applications opened without a
// desktop icon, e.g. from the start menu.
var fallbacks = map[shell.AppID]shell.Descriptor{
	"myComputer":  {Title: "My Gemtop", Icon: iconBase + "mycomputer.png"},
	"chrome":      {Title: "Chrome", Icon: iconBase + "chrome-icon-2.png"},
	"notepad":     {Title: "GemNotes", Icon: iconBase + "GemNotes.png"},
	"paint":       {Title: "GemPaint", Icon: iconBase + "gempaint.png"},
	"doom":        {Title: "Doom II", Icon: "https://64.media.tumblr.com/1d89dfa76381e5c14210a2149c83790d/7a15f84c681c1cf9-c1/s540x810/86985984be99d5591e0cbc0dea6f05ffa3136dac.png"},
	"gemini":      {Title: "Gemini App", Icon: iconBase + "GeminiChatRetro.png"},
	"minesweeper": {Title: "GemSweeper", Icon: iconBase + "gemsweeper.png"},
	"imageViewer": {Title: "Image Viewer", Icon: "https://win98icons.alexmeub.com/icons/png/display_properties-4.png"},
	"mediaPlayer": {Title: "GemPlayer", Icon: iconBase + "ytmediaplayer.png"},
	"gemStudio":   {Title: "GemStudio", Icon: "https://win98icons.alexmeub.com/icons/png/camera-2.png"},
	"gemCine":     {Title: "GemCine", Icon: "https://win98icons.alexmeub.com/icons/png/video_camera-0.png"},
	"gemVoice":    {Title: "GemVoice", Icon: "https://win98icons.alexmeub.com/icons/png/microphone-0.png"},
}

// Fallback returns the start-menu descriptor for id.
func Fallback(id shell.AppID) (shell.Descriptor, bool) {
	d, ok := fallbacks[id]
	return d, ok
}

// Resolver resolves descriptors for ids without a catalog entry from the
// fallback table. Disabled ids never resolve.
func (c *Catalog) Resolver() shell.Resolver {
	return shell.ResolverFunc(func(id shell.AppID) (shell.Descriptor, bool) {
		if c.disabled[id] {
			return shell.Descriptor{}, false
		}
		return Fallback(id)
	})
}

// Options tunes the built-in applications.
type Options struct {
	// CritiqueInterval is how often the paint assistant comments.
	CritiqueInterval time.Duration
	// Critic produces paint critiques. Nil uses canned remarks.
	Critic Critic
	// DefaultVideo is loaded by the media player on open.
	DefaultVideo string
}

// Builtin returns the standard desktop applications.
func Builtin(opts Options) *Catalog {
	if opts.CritiqueInterval <= 0 {
		opts.CritiqueInterval = 15 * time.Second
	}
	if opts.DefaultVideo == "" {
		opts.DefaultVideo = "WXuK6gekU1Y"
	}
	c := NewCatalog()
	for _, a := range []App{
		&Paint{Interval: opts.CritiqueInterval, Critic: opts.Critic, resizes: c.resizes},
		&Minesweeper{Rows: 9, Cols: 9, Mines: 10},
		&MediaPlayer{DefaultVideo: opts.DefaultVideo},
		&Voice{},
		NewSessionApp("gemini", 520, 420, "chat"),
		NewSessionApp("chrome", 640, 480, "browser"),
		NewSessionApp("notepad", 420, 360, "story"),
		NewSessionApp("gemStudio", 560, 440, "image generation"),
		NewSessionApp("gemCine", 560, 440, "video generation"),
		NewSessionApp("imageViewer", 480, 400, "viewer"),
		&Embed{AppID: "doom", Source: "https://js-dos.com/games/doom.exe.html"},
		&Static{AppID: "myComputer"},
	} {
		c.apps[a.ID()] = a
	}
	return c
}

// Static is an application with no resources of its own.
type Static struct {
	AppID shell.AppID
}

func (s *Static) ID() shell.AppID { return s.AppID }

func (s *Static) Descriptor() shell.Descriptor {
	d, _ := Fallback(s.AppID)
	return d
}

func (s *Static) Start(*shell.Lifetime, shell.Window, *Resources) (Instance, error) {
	return staticStatus("ready"), nil
}

type staticStatus string

func (s staticStatus) Status() string { return string(s) }
