package models

import (
	"strings"

	"github.com/saxenaaman628/ballot-board/internal/crud"
)

// DateLayout is the format of Attendance.Date.
const DateLayout = "2006-01-02"

// Response is one participant's answer to an attendance event.
type Response struct {
	Name      string `json:"name" mapstructure:"name"`
	Attending bool   `json:"attending" mapstructure:"attending"`
	Comment   string `json:"comment,omitempty" mapstructure:"comment"`
	CreatedAt string `json:"createdAt" mapstructure:"createdAt"`
}

type Attendance struct {
	ID        string     `json:"id" mapstructure:"id"`
	Title     string     `json:"title" mapstructure:"title"`
	Date      string     `json:"date" mapstructure:"date"`
	Responses []Response `json:"responses" mapstructure:"responses"`
	CreatedAt string     `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt string     `json:"updatedAt" mapstructure:"updatedAt"`

	crud.Versioned `mapstructure:",squash"`
}

func (a *Attendance) GetID() string { return a.ID }

// Counts returns how many participants answered yes and no.
func (a *Attendance) Counts() (attending, notAttending int) {
	for _, r := range a.Responses {
		if r.Attending {
			attending++
		} else {
			notAttending++
		}
	}
	return attending, notAttending
}

// Upsert records r, replacing any earlier response with the same name
// (case-insensitive, surrounding whitespace ignored).
func (a *Attendance) Upsert(r Response) {
	key := strings.ToLower(strings.TrimSpace(r.Name))
	for i := range a.Responses {
		if strings.ToLower(strings.TrimSpace(a.Responses[i].Name)) == key {
			a.Responses[i] = r
			return
		}
	}
	a.Responses = append(a.Responses, r)
}
