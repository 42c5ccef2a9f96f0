package models

import "github.com/saxenaaman628/ballot-board/internal/crud"

// Dashboard groups ballots and attendance trackers by id for shared viewing.
type Dashboard struct {
	ID            string   `json:"id" mapstructure:"id"`
	Name          string   `json:"name" mapstructure:"name"`
	BallotIDs     []string `json:"ballotIds" mapstructure:"ballotIds"`
	AttendanceIDs []string `json:"attendanceIds" mapstructure:"attendanceIds"`
	CreatedAt     string   `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt     string   `json:"updatedAt" mapstructure:"updatedAt"`

	crud.Versioned `mapstructure:",squash"`
}

func (d *Dashboard) GetID() string { return d.ID }
