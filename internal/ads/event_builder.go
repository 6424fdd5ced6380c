package ads

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vidora/adserve/internal/models"
)

// EventPayload is the raw engagement-event body as submitted by an
// app. WatchDuration is a json.Number so both `12.5` and `"12.5"`
// parse; the builder normalizes it.
type EventPayload struct {
	AdID      string       `json:"adId"`
	Timestamp string       `json:"timestamp"`
	Details   EventDetails `json:"eventDetails"`
}

// EventDetails carries the per-event fields nested under
// eventDetails in the wire format.
type EventDetails struct {
	PackageName   string      `json:"packageName"`
	EventType     string      `json:"eventType"`
	WatchDuration json.Number `json:"watchDuration"`
}

// BuildEvent validates and normalizes a raw payload into a canonical
// event. Pure construction: the caller attaches the server creation
// instant, the calendar date and the owning performer id. The
// client timestamp is required non-empty but otherwise stored
// verbatim, never parsed as an instant.
func BuildEvent(p EventPayload) (*models.Event, error) {
	adID := strings.TrimSpace(p.AdID)
	if adID == "" {
		return nil, missingField("adId")
	}
	if p.Timestamp == "" {
		return nil, missingField("timestamp")
	}

	packageName := strings.TrimSpace(p.Details.PackageName)
	if packageName == "" {
		return nil, missingField("eventDetails.packageName")
	}

	eventType := models.EventType(strings.ToLower(strings.TrimSpace(p.Details.EventType)))
	if eventType == "" {
		return nil, missingField("eventDetails.eventType")
	}
	if !models.ValidEventType(eventType) {
		return nil, &ValidationError{Field: "eventDetails.eventType", Reason: "must be one of view, click, skip, exit"}
	}

	if p.Details.WatchDuration == "" {
		return nil, missingField("eventDetails.watchDuration")
	}
	duration, err := strconv.ParseFloat(p.Details.WatchDuration.String(), 64)
	if err != nil {
		return nil, &ValidationError{Field: "eventDetails.watchDuration", Reason: "not a number"}
	}
	if duration < 0 {
		return nil, &ValidationError{Field: "eventDetails.watchDuration", Reason: "must be non-negative"}
	}

	return &models.Event{
		AdID:          adID,
		PackageName:   packageName,
		Timestamp:     p.Timestamp,
		EventType:     eventType,
		WatchDuration: duration,
	}, nil
}
