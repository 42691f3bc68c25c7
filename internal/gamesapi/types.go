package gamesapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/codr1/pickupgames/internal/schedule"
)

const defaultSport = "Soccer"

// Game is a pickup session as returned by the games endpoint.
type Game struct {
	ID             int64    `json:"id"`
	Location       string   `json:"location"`
	Time           string   `json:"time"`
	Sport          *string  `json:"sport,omitempty"`
	MaxPlayers     int      `json:"max_players"`
	CurrentPlayers int      `json:"current_players"`
	Players        []Player `json:"players,omitempty"`
}

// SpotsLeft may be negative when the upstream over-books a game.
func (g Game) SpotsLeft() int {
	return g.MaxPlayers - g.CurrentPlayers
}

func (g Game) SportLabel() string {
	if g.Sport == nil || strings.TrimSpace(*g.Sport) == "" {
		return defaultSport
	}
	return strings.TrimSpace(*g.Sport)
}

func (g Game) Title() string {
	return fmt.Sprintf("%s Pickup", strings.TrimSpace(g.Location))
}

// Start parses the game time; offset-less times are read in loc.
func (g Game) Start(loc *time.Location) (time.Time, error) {
	return schedule.ParseGameTime(g.Time, loc)
}

// Player is a roster entry. Only FirstName is shown publicly.
type Player struct {
	ID          int64  `json:"id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Age         int    `json:"age,omitempty"`
}

// Registration is the body posted to the game-players endpoint.
type Registration struct {
	PickupGame  int64  `json:"pickup_game"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}
