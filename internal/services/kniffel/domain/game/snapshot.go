package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/kniffel/internal/services/kniffel/dice"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
)

// Snapshot is the flat, storage-friendly form of a Game.
type Snapshot struct {
	ID            string
	RollRound     int
	Phase         string
	Dice          string
	CurrentPlayer string
	Players       []PlayerSnapshot
}

// PlayerSnapshot is one seat of a Snapshot, in turn order.
type PlayerSnapshot struct {
	Name           string
	Score          int
	UsedCategories string
}

// Snapshot captures g for persistence.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:        g.id,
		RollRound: g.rollRound,
		Phase:     g.phase.String(),
		Dice:      joinDice(g.dice),
		Players:   make([]PlayerSnapshot, len(g.players)),
	}
	if p, err := g.currentPlayer(); err == nil {
		s.CurrentPlayer = p.name
	}
	for i, p := range g.players {
		tags := make([]string, len(p.used))
		for j, c := range p.used {
			tags[j] = c.String()
		}
		s.Players[i] = PlayerSnapshot{
			Name:           p.name,
			Score:          p.score,
			UsedCategories: strings.Join(tags, ","),
		}
	}
	return s
}

// FromSnapshot rebuilds a game, drawing future rolls from source. A game
// restored with a nil source can be inspected but not played.
func FromSnapshot(s Snapshot, source dice.Source) (*Game, error) {
	if strings.TrimSpace(s.ID) == "" {
		return nil, invalidSnapshot("game id is required")
	}
	phase, ok := ParsePhase(s.Phase)
	if !ok {
		return nil, invalidSnapshot(fmt.Sprintf("unknown phase %q", s.Phase))
	}
	if s.RollRound < 0 || s.RollRound > MaxRolls {
		return nil, invalidSnapshot(fmt.Sprintf("roll round %d out of range", s.RollRound))
	}
	hand, err := splitDice(s.Dice)
	if err != nil {
		return nil, invalidSnapshot(err.Error())
	}
	if len(s.Players) == 0 {
		return nil, invalidSnapshot("snapshot has no players")
	}

	g := &Game{
		id:        s.ID,
		rollRound: s.RollRound,
		dice:      hand,
		phase:     phase,
		source:    source,
		current:   -1,
		players:   make([]*Player, 0, len(s.Players)),
	}
	seen := make(map[string]struct{}, len(s.Players))
	for i, ps := range s.Players {
		if strings.TrimSpace(ps.Name) == "" {
			return nil, invalidSnapshot(fmt.Sprintf("player %d has no name", i))
		}
		if _, dup := seen[ps.Name]; dup {
			return nil, invalidSnapshot(fmt.Sprintf("duplicate player %q", ps.Name))
		}
		seen[ps.Name] = struct{}{}
		if ps.Score < 0 {
			return nil, invalidSnapshot(fmt.Sprintf("player %q has negative score", ps.Name))
		}
		p := NewPlayer(ps.Name)
		p.score = ps.Score
		for _, tag := range splitTags(ps.UsedCategories) {
			c, err := scoring.ParseCategory(tag)
			if err != nil {
				return nil, invalidSnapshot(fmt.Sprintf("player %q has unknown category %q", ps.Name, tag))
			}
			if err := p.MarkUsed(c); err != nil {
				return nil, invalidSnapshot(fmt.Sprintf("player %q has %s twice", ps.Name, c))
			}
		}
		if ps.Name == s.CurrentPlayer {
			g.current = i
		}
		g.players = append(g.players, p)
	}
	if g.current < 0 {
		return nil, invalidSnapshot(fmt.Sprintf("current player %q is not seated", s.CurrentPlayer))
	}
	return g, nil
}

func invalidSnapshot(reason string) error {
	return ErrInvalidSnapshot.With("invalid game snapshot: "+reason, map[string]string{"Reason": reason})
}

func joinDice(hand scoring.Hand) string {
	parts := make([]string, len(hand))
	for i, d := range hand {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func splitDice(raw string) (scoring.Hand, error) {
	var hand scoring.Hand
	parts := strings.Split(raw, ",")
	if len(parts) != scoring.HandSize {
		return hand, fmt.Errorf("expected %d dice, got %d", scoring.HandSize, len(parts))
	}
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return hand, fmt.Errorf("die %d: %w", i, err)
		}
		if v < 0 || v > 6 {
			return hand, fmt.Errorf("die %d out of range: %d", i, v)
		}
		hand[i] = v
	}
	return hand, nil
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
