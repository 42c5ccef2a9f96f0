package models

import "github.com/saxenaaman628/ballot-board/internal/crud"

// Vote colours.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Colors lists the accepted vote colours in display order.
var Colors = []string{ColorGreen, ColorYellow, ColorRed}

func ValidColor(c string) bool {
	for _, v := range Colors {
		if v == c {
			return true
		}
	}
	return false
}

type Vote struct {
	Color     string `json:"color" mapstructure:"color"`
	Comment   string `json:"comment,omitempty" mapstructure:"comment"`
	CreatedAt string `json:"createdAt" mapstructure:"createdAt"`
}

type Ballot struct {
	ID        string `json:"id" mapstructure:"id"`
	Question  string `json:"question" mapstructure:"question"`
	Votes     []Vote `json:"votes" mapstructure:"votes"`
	IsPrivate bool   `json:"isPrivate,omitempty" mapstructure:"isPrivate"`
	CreatedAt string `json:"createdAt" mapstructure:"createdAt"`

	crud.Versioned `mapstructure:",squash"`
}

func (b *Ballot) GetID() string { return b.ID }

// Tally counts votes per colour. Every colour is present in the result.
func (b *Ballot) Tally() map[string]int {
	tally := make(map[string]int, len(Colors))
	for _, c := range Colors {
		tally[c] = 0
	}
	for _, v := range b.Votes {
		tally[v.Color]++
	}
	return tally
}
