package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/deskshell/internal/ipc"
)

func runAppAction(cmd string, args []string) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print the result as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskshell %s [--json] <app>\n", cmd)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one application id\n", cmd)
		fs.Usage()
		return 2
	}
	appID := fs.Arg(0)

	client := ipc.NewClient()
	call := map[string]func(string) (*ipc.ActionData, error){
		"open":     client.Open,
		"close":    client.Close,
		"minimize": client.Minimize,
		"focus":    client.Focus,
		"taskbar":  client.TaskbarClick,
	}[cmd]

	data, err := call(appID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printAction(cmd, data, *jsonOut)
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print the result as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell move [--json] <app> <x> <y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Drag a window by its titlebar so its top-left corner lands at (x, y).")
		fmt.Fprintln(os.Stderr, "The position is clamped to keep the window reachable.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "x and y must be integers")
		return 2
	}

	data, err := ipc.NewClient().Move(fs.Arg(0), x, y)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printAction("move", data, *jsonOut)
}

func printAction(cmd string, data *ipc.ActionData, jsonOut bool) int {
	if jsonOut {
		return printJSON(data)
	}
	fmt.Println(describeAction(cmd, data))
	return 0
}

// describeAction summarizes the outcome of a lifecycle command.
func describeAction(cmd string, data *ipc.ActionData) string {
	if data.Window == nil {
		if cmd == "close" && data.Changed {
			return fmt.Sprintf("%s: closed", data.AppID)
		}
		if cmd == "open" {
			return fmt.Sprintf("%s: unknown or disabled application", data.AppID)
		}
		return fmt.Sprintf("%s: not open", data.AppID)
	}

	w := data.Window
	state := "minimized"
	if w.Visible() {
		state = "visible"
	}
	if w.Focused {
		state += ", focused"
	}
	if w.Degraded {
		state += ", degraded"
	}
	change := ""
	if !data.Changed {
		change = " (unchanged)"
	}
	return fmt.Sprintf("%s: %s at (%d, %d) z=%d%s", data.AppID, state, w.Bounds.X, w.Bounds.Y, w.Z, change)
}

func runStartMenu(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: deskshell start-menu")
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			return 0
		}
		return 2
	}
	open, err := ipc.NewClient().ToggleStartMenu()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if open {
		fmt.Println("start menu: open")
	} else {
		fmt.Println("start menu: closed")
	}
	return 0
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print the snapshot as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List open windows, bottom of the stack first.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	if len(data.Windows) == 0 {
		fmt.Println("no open windows")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "APP\tTITLE\tSTATE\tX\tY\tW\tH\tZ\tSTATUS")
	for _, w := range data.Windows {
		state := w.Visibility.String()
		if w.Focused {
			state = "focused"
		}
		if w.Degraded {
			state += "!"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			w.App, w.Title, state, w.Bounds.X, w.Bounds.Y, w.Bounds.Width, w.Bounds.Height, w.Z, data.AppStatus[string(w.App)])
	}
	tw.Flush()
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	apps := append([]string(nil), status.Apps...)
	sort.Strings(apps)
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("open_windows:    %d\n", status.OpenWindows)
	fmt.Printf("visible_windows: %d\n", status.VisibleWindows)
	fmt.Printf("focused:         %s\n", status.Focused)
	fmt.Printf("apps:            %s\n", strings.Join(apps, ", "))
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
