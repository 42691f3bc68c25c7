package email

import (
	"fmt"
	"strings"
	"time"
)

type ConfirmationEmail struct {
	Subject string
	Body    string
}

// RegistrationDetails describes the game a player just joined.
type RegistrationDetails struct {
	FirstName string
	GameTitle string
	Sport     string
	Location  string
	Start     time.Time
	Duration  time.Duration
	// BoardURL links back to the games board; omitted when empty.
	BoardURL string
}

// FormatDateTimeRange returns e.g. ("Monday, Oct 19, 2026", "7:00 PM - 9:00 PM CDT").
func FormatDateTimeRange(start, end time.Time) (string, string) {
	date := start.Format("Monday, Jan 2, 2006")
	timeRange := fmt.Sprintf("%s - %s %s", start.Format("3:04 PM"), end.Format("3:04 PM"), start.Format("MST"))
	return date, timeRange
}

// BuildRegistrationConfirmation renders the email sent after a successful join.
func BuildRegistrationConfirmation(details RegistrationDetails) ConfirmationEmail {
	title := strings.TrimSpace(details.GameTitle)
	if title == "" {
		title = "your pickup game"
	}
	name := strings.TrimSpace(details.FirstName)
	if name == "" {
		name = "there"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", name)
	fmt.Fprintf(&body, "You're signed up for %s.\n\n", title)
	if sport := strings.TrimSpace(details.Sport); sport != "" {
		fmt.Fprintf(&body, "Sport: %s\n", sport)
	}
	if location := strings.TrimSpace(details.Location); location != "" {
		fmt.Fprintf(&body, "Location: %s\n", location)
	}
	if !details.Start.IsZero() {
		date, timeRange := FormatDateTimeRange(details.Start, details.Start.Add(details.Duration))
		fmt.Fprintf(&body, "Date: %s\n", date)
		fmt.Fprintf(&body, "Time: %s\n", timeRange)
	}
	if boardURL := strings.TrimSpace(details.BoardURL); boardURL != "" {
		fmt.Fprintf(&body, "\nSee who else is playing: %s\n", boardURL)
	}
	body.WriteString("\nSee you on the field!\n")

	return ConfirmationEmail{
		Subject: fmt.Sprintf("You're in: %s", title),
		Body:    body.String(),
	}
}
