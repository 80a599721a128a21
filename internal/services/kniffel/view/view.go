// Package view shapes stored games into the JSON documents clients see.
package view

import (
	"strings"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
)

// Game is the client-facing state of one game.
type Game struct {
	GameID                string         `json:"game_id"`
	Players               []Player       `json:"players"`
	CurrentPlayerName     string         `json:"current_player_name"`
	State                 string         `json:"state"`
	UsedBookingTypes      []string       `json:"used_booking_types"`
	AvailableBookingTypes []string       `json:"available_booking_types"`
	ScorePreview          map[string]int `json:"score_preview"`
	DiceRolls             []int          `json:"dice_rolls"`
	RollRound             int            `json:"roll_round"`
	Version               int64          `json:"version"`
	Winners               []string       `json:"winners,omitempty"`
}

// Player is one seat of a Game view.
type Player struct {
	Name             string   `json:"name"`
	Score            int      `json:"score"`
	UsedBookingTypes []string `json:"used_booking_types"`
}

// Page is one page of game views.
type Page struct {
	Games         []Game `json:"games"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// State returns the uppercase wire form of a phase, e.g. ROLL.
func State(p game.Phase) string {
	return strings.ToUpper(p.String())
}

// FromRecord builds the view of a stored game.
func FromRecord(record storage.GameRecord) (Game, error) {
	g, err := game.FromSnapshot(record.Snapshot, nil)
	if err != nil {
		return Game{}, err
	}
	return FromGame(g, record.Version), nil
}

// FromGame builds the view of g at the given store version.
func FromGame(g *game.Game, version int64) Game {
	hand := g.Dice()
	out := Game{
		GameID:                g.ID(),
		State:                 State(g.Phase()),
		UsedBookingTypes:      []string{},
		AvailableBookingTypes: []string{},
		ScorePreview:          map[string]int{},
		DiceRolls:             hand[:],
		RollRound:             g.RollRound(),
		Version:               version,
	}
	for _, p := range g.Players() {
		out.Players = append(out.Players, Player{
			Name:             p.Name(),
			Score:            p.Score(),
			UsedBookingTypes: tags(p.UsedCategories()),
		})
	}

	current, err := g.CurrentPlayer()
	if err != nil {
		return out
	}
	out.CurrentPlayerName = current.Name()
	out.UsedBookingTypes = tags(current.UsedCategories())

	if g.Ended() {
		for _, w := range g.Winners() {
			out.Winners = append(out.Winners, w.Name())
		}
		return out
	}

	out.AvailableBookingTypes = tags(current.OpenCategories())
	for c, points := range g.Preview() {
		out.ScorePreview[c.String()] = points
	}
	return out
}

func tags(categories []scoring.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.String()
	}
	return out
}
