// Command rsvp-tui is a terminal rendition of the Saturday RSVP form. It
// talks to the relay server over POST /api/response.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rsvp-relay/internal/confirmation"
)

func main() {
	server := flag.String("server", "http://localhost:3000", "base URL of the rsvp-relay server")
	name := flag.String("name", "", "prefill the respondent name")
	flag.Parse()

	machine := confirmation.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	m := newModel(machine, newSubmitClient(*server), time.Now, localTimeZone(), *name)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rsvp-tui: %v\n", err)
		os.Exit(1)
	}
}

// localTimeZone names the local zone the way browsers report it, falling
// back to UTC when only "Local" is known.
func localTimeZone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	return "UTC"
}
