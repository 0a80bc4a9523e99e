package dashboard

import (
	"fmt"
	"sync"

	tm "github.com/buger/goterm"
)

// TerminalView draws the dashboard on the terminal. It implements View,
// Notifier and Navigator.
type TerminalView struct {
	DeviceID string
	LoginURL string

	mu         sync.Mutex
	state      State
	fields     Fields
	notice     string
	redirected chan struct{}
	once       sync.Once
}

func NewTerminalView(deviceID, loginURL string) *TerminalView {
	return &TerminalView{
		DeviceID:   deviceID,
		LoginURL:   loginURL,
		redirected: make(chan struct{}),
	}
}

func (v *TerminalView) Render(state State, fields Fields) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state, v.fields = state, fields
	v.draw()
}

func (v *TerminalView) Notify(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notice = msg
	v.draw()
}

// RedirectToLogin prints the login location and closes Redirected.
func (v *TerminalView) RedirectToLogin() {
	v.once.Do(func() {
		tm.Println(tm.Color(fmt.Sprintf("Please log in at %s", v.LoginURL), tm.YELLOW))
		tm.Flush()
		close(v.redirected)
	})
}

// Redirected is closed once the user has been sent to login
func (v *TerminalView) Redirected() <-chan struct{} {
	return v.redirected
}

func (v *TerminalView) draw() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	for _, line := range Lines(v.DeviceID, v.state, v.fields, v.notice) {
		tm.Println(line)
	}
	tm.Flush()
}

// Lines lays out the dashboard as plain text lines
func Lines(deviceID string, state State, f Fields, notice string) []string {
	lines := []string{
		tm.Bold("Garden dashboard") + "  " + deviceID,
		"",
		"Status:         " + orDash(f.GeneralStatus),
		"Soil humidity:  " + orDash(f.SoilHumidity),
		"Temperature:    " + orDash(f.Temperature),
		"Air humidity:   " + orDash(f.AirHumidity),
		"Last watering:  " + orDash(f.LastWatering),
		"Last reading:   " + orDash(f.LastReading),
		"",
		stateLine(state),
	}
	if notice != "" {
		lines = append(lines, "", tm.Color(notice, tm.CYAN))
	}
	return append(lines, "", "[w] water  [r] refresh  [l] logout  [q] quit")
}

func stateLine(state State) string {
	switch state {
	case StateLoading:
		return tm.Color("Loading...", tm.YELLOW)
	case StateLoaded:
		return tm.Color("Up to date", tm.GREEN)
	case StateError:
		return tm.Color("Showing last known values", tm.RED)
	default:
		return state.String()
	}
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
