package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/saxenaaman628/ballot-board/internal/crud"
	"github.com/saxenaaman628/ballot-board/internal/models"
	"github.com/saxenaaman628/ballot-board/internal/store"
	"github.com/saxenaaman628/ballot-board/internal/telemetry"
)

// Collection keys in the key-value store.
const (
	BallotsKey    = "ballots"
	DashboardsKey = "dashboards"
	AttendanceKey = "attendance"
)

// timeLayout is RFC 3339 with fixed millisecond precision, so stored
// timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	maxQuestionLen = 500
	maxCommentLen  = 1000
	maxNameLen     = 200
)

// API holds the dependencies shared by the resource handlers.
type API struct {
	Ballots    crud.Resource[*models.Ballot]
	Dashboards crud.Resource[*models.Dashboard]
	Attendance crud.Resource[*models.Attendance]

	now   func() time.Time
	newID func() string
}

// New binds the three resource collections to kv.
func New(kv store.KV, tracer telemetry.Tracer) *API {
	return &API{
		Ballots:    crud.NewResource("ballot", store.NewCollection[*models.Ballot](kv, BallotsKey), tracer),
		Dashboards: crud.NewResource("dashboard", store.NewCollection[*models.Dashboard](kv, DashboardsKey), tracer),
		Attendance: crud.NewResource("attendance", store.NewCollection[*models.Attendance](kv, AttendanceKey), tracer),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

func (a *API) timestamp() string {
	return a.now().UTC().Format(timeLayout)
}

// decode copies the raw body into a typed input struct.
func decode(body crud.Body, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(body)); err != nil {
		return crud.Invalidf("invalid request body: %v", err)
	}
	return nil
}

// requiredString validates a non-empty string field of at most limit runes.
func requiredString(body crud.Body, field string, limit int) (string, string) {
	raw, ok := body[field]
	if !ok || raw == nil {
		return "", field + " is required"
	}
	s, ok := raw.(string)
	if !ok {
		return "", field + " must be a string"
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", field + " is required"
	}
	if len([]rune(s)) > limit {
		return "", fmt.Sprintf("%s must be at most %d characters", field, limit)
	}
	return s, ""
}

// optionalString validates field only when present.
func optionalString(body crud.Body, field string, limit int) string {
	if _, ok := body[field]; !ok {
		return ""
	}
	_, msg := requiredString(body, field, limit)
	return msg
}

func optionalBool(body crud.Body, field string) string {
	raw, ok := body[field]
	if !ok || raw == nil {
		return ""
	}
	if _, ok := raw.(bool); !ok {
		return field + " must be a boolean"
	}
	return ""
}

func optionalStringList(body crud.Body, field string) string {
	raw, ok := body[field]
	if !ok || raw == nil {
		return ""
	}
	list, ok := raw.([]any)
	if !ok {
		return field + " must be an array of strings"
	}
	for _, v := range list {
		if s, ok := v.(string); !ok || strings.TrimSpace(s) == "" {
			return field + " must be an array of strings"
		}
	}
	return ""
}

// validation turns the first non-empty message into a failed Validation.
func validation(msgs ...string) crud.Validation {
	for _, m := range msgs {
		if m != "" {
			return crud.Invalid(m)
		}
	}
	return crud.Valid
}

// uniqueIDs trims, drops empties and removes duplicates while keeping order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
