package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/kniffel/internal/platform/id"
	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
)

// ErrNoDiceSource is returned when a read-only game is asked to move.
var ErrNoDiceSource = errors.New("game has no dice source")

// MaxRolls is the number of rolls a player gets per turn, counting the
// automatic opening roll.
const MaxRolls = 3

// Game is the mutable state of one kniffel match.
type Game struct {
	id        string
	players   []*Player
	current   int
	rollRound int
	dice      scoring.Hand
	phase     Phase
	source    dice.Source
}

// New starts a game for names in the given seat order. The first player's
// opening roll is performed before New returns.
//
// idGenerator may be nil, in which case id.NewID is used.
func New(names []string, source dice.Source, idGenerator func() (string, error)) (*Game, error) {
	if source == nil {
		return nil, ErrNoDiceSource
	}
	players, err := buildRoster(names)
	if err != nil {
		return nil, err
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	gameID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate game id: %w", err)
	}

	g := &Game{
		id:      gameID,
		players: players,
		phase:   PhaseRolling,
		source:  source,
	}
	g.startTurn()
	return g, nil
}

func buildRoster(names []string) ([]*Player, error) {
	if len(names) == 0 {
		return nil, ErrInvalidPlayerList
	}
	seen := make(map[string]struct{}, len(names))
	players := make([]*Player, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, ErrInvalidPlayerList.With("player name is required", nil)
		}
		if _, ok := seen[name]; ok {
			return nil, ErrInvalidPlayerList.With("duplicate player name "+name, map[string]string{"Player": name})
		}
		seen[name] = struct{}{}
		players = append(players, NewPlayer(name))
	}
	return players, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// RollRound returns the rolls taken in the current turn, 0..3.
func (g *Game) RollRound() int { return g.rollRound }

// Dice returns the current hand in ascending order.
func (g *Game) Dice() scoring.Hand { return g.dice }

// Ended reports whether the game is over.
func (g *Game) Ended() bool { return g.phase == PhaseEnded }

// Players returns copies of the roster in seat order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	for i, p := range g.players {
		out[i] = p.clone()
	}
	return out
}

// CurrentPlayer returns a copy of the player whose turn it is.
func (g *Game) CurrentPlayer() (*Player, error) {
	p, err := g.currentPlayer()
	if err != nil {
		return nil, err
	}
	return p.clone(), nil
}

func (g *Game) currentPlayer() (*Player, error) {
	if g.current < 0 || g.current >= len(g.players) {
		return nil, ErrPlayerNotFound
	}
	return g.players[g.current], nil
}

// Preview scores the current hand against the current player's open categories.
func (g *Game) Preview() map[scoring.Category]int {
	p, err := g.currentPlayer()
	if err != nil {
		return map[scoring.Category]int{}
	}
	return scoring.Preview(g.dice, p.usedSet())
}

// Reroll keeps the requested faces and rolls the rest. After the third roll of
// a turn the game moves to Booking.
func (g *Game) Reroll(keep []int) error {
	if g.source == nil {
		return ErrNoDiceSource
	}
	if g.phase != PhaseRolling {
		return g.phaseError("reroll")
	}
	if err := validateKeep(g.dice, keep); err != nil {
		return err
	}
	g.roll(keep)
	if g.rollRound >= MaxRolls {
		g.advance()
	}
	return nil
}

// Book scores the current hand as category for the current player and ends the
// turn. Booking is allowed straight from Rolling as well as from Booking.
func (g *Game) Book(category scoring.Category) error {
	if g.source == nil {
		return ErrNoDiceSource
	}
	if g.phase == PhaseEnded {
		return g.phaseError("book")
	}
	if !category.Valid() {
		return scoring.ErrInvalidCategory
	}
	p, err := g.currentPlayer()
	if err != nil {
		return err
	}
	points := scoring.Score(g.dice, category)
	if err := p.MarkUsed(category); err != nil {
		return err
	}
	p.AddScore(points)

	if g.phase == PhaseRolling {
		g.advance()
	}
	g.advance()
	return nil
}

// Winners returns the players sharing the highest score.
func (g *Game) Winners() []*Player {
	best := -1
	var winners []*Player
	for _, p := range g.players {
		switch {
		case p.score > best:
			best = p.score
			winners = []*Player{p.clone()}
		case p.score == best:
			winners = append(winners, p.clone())
		}
	}
	return winners
}

// advance toggles Rolling and Booking. Leaving Booking hands the dice to the
// next seat, or ends the game when that seat has a full sheet.
func (g *Game) advance() {
	switch g.phase {
	case PhaseRolling:
		g.phase = PhaseBooking
	case PhaseBooking:
		g.phase = PhaseRolling
		g.current = (g.current + 1) % len(g.players)
		if g.players[g.current].Finished() {
			g.phase = PhaseEnded
			return
		}
		g.startTurn()
	}
}

func (g *Game) startTurn() {
	g.rollRound = 0
	g.dice = scoring.Hand{}
	g.roll(nil)
}

// roll fills every die not kept, sorts the hand and counts the roll.
func (g *Game) roll(keep []int) {
	hand := MatchKept(g.dice, keep)
	for i := range hand {
		if hand[i] == 0 {
			hand[i] = dice.Roll(g.source)
		}
	}
	slices.Sort(hand[:])
	g.dice = hand
	g.rollRound++
}

func (g *Game) phaseError(move string) error {
	return ErrInvalidPhase.With(move+" not allowed in phase "+g.phase.String(), map[string]string{
		"Phase": g.phase.String(),
	})
}
