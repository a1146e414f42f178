package notify

import (
	"fmt"
	"math"
	"time"

	"agendapulse/internal/types"
)

// MinutesUntil returns the whole minutes between now and startAt, rounded to
// the nearest minute. Negative when the event already started.
func MinutesUntil(startAt, now time.Time) int {
	return int(math.Round(startAt.Sub(now).Minutes()))
}

// RelativeStartPhrase renders the Spanish relative-time phrase shown in the
// notification body: "ahora" for events starting now or already started,
// "en N minutos" under an hour, otherwise hours rounded to the nearest hour.
// The exact wording is part of the contract with the notification center.
func RelativeStartPhrase(minutesUntil int) string {
	switch {
	case minutesUntil <= 0:
		return "ahora"
	case minutesUntil < 60:
		return fmt.Sprintf("en %d minutos", minutesUntil)
	default:
		hours := int(math.Round(float64(minutesUntil) / 60))
		if hours == 1 {
			return "en 1 hora"
		}
		return fmt.Sprintf("en %d horas", hours)
	}
}

// ReminderTitle renders the notification title for an event reminder.
func ReminderTitle(event types.Event) string {
	return fmt.Sprintf("Recordatorio: %s", event.Title)
}

// ReminderBody renders the notification body for an event reminder relative
// to the tick instant.
func ReminderBody(event types.Event, now time.Time) string {
	phrase := RelativeStartPhrase(MinutesUntil(event.StartAt, now))
	return fmt.Sprintf("Tu evento %q comienza %s", event.Title, phrase)
}
