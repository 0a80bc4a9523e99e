package dashboard

import (
	"strconv"
	"strings"
	"time"
)

const (
	// StatusPlaceholder is shown while no status text is known
	StatusPlaceholder = "Loading..."
	// NotAvailable is shown for missing or unreadable timestamps
	NotAvailable = "N/A"

	DefaultDateLayout = "02/01/2006"
)

// Fields is the display text of every dashboard field
type Fields struct {
	GeneralStatus string
	SoilHumidity  string
	Temperature   string
	AirHumidity   string
	LastWatering  string
	LastReading   string
}

// Formatter turns a Reading into display text
type Formatter struct {
	DateLayout string
	Location   *time.Location
	Now        func() time.Time
}

func NewFormatter(dateLayout string, loc *time.Location) *Formatter {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{DateLayout: dateLayout, Location: loc, Now: time.Now}
}

func (f *Formatter) Format(r Reading) Fields {
	return Fields{
		GeneralStatus: FormatStatus(r.GeneralStatus),
		SoilHumidity:  FormatPercent(r.SoilHumidity),
		Temperature:   FormatCelsius(r.Temperature),
		AirHumidity:   FormatPercent(r.AirHumidity),
		LastWatering:  f.FormatDateTime(deref(r.LastWatering)),
		LastReading:   f.FormatDateTime(r.Timestamp),
	}
}

// FormatDateTime renders an RFC 3339 timestamp as "Today, HH:MM" when it falls
// on the current local day and "<date> HH:MM" otherwise.
func (f *Formatter) FormatDateTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NotAvailable
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return NotAvailable
	}

	t = t.In(f.Location)
	now := f.Now().In(f.Location)

	clock := t.Format("15:04")
	if sameDay(t, now) {
		return "Today, " + clock
	}
	return t.Format(f.DateLayout) + " " + clock
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func FormatPercent(v *float64) string {
	return formatNumber(v) + "%"
}

func FormatCelsius(v *float64) string {
	return formatNumber(v) + "°C"
}

// FormatStatus falls back to the placeholder for missing or blank status text.
func FormatStatus(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return StatusPlaceholder
	}
	return *s
}

func formatNumber(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
