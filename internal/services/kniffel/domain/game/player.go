package game

import (
	"slices"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
)

// Player is one seat at the table.
type Player struct {
	name  string
	score int
	// used keeps booking order; it never holds a category twice.
	used []scoring.Category
}

// NewPlayer returns a player with an empty score sheet.
func NewPlayer(name string) *Player {
	return &Player{name: name}
}

// Name is the player's unique key within a game.
func (p *Player) Name() string { return p.name }

// Score is the cumulative total of every booking.
func (p *Player) Score() int { return p.score }

// AddScore adds a booking's points. Negative deltas are ignored so the total
// never decreases.
func (p *Player) AddScore(delta int) {
	if delta > 0 {
		p.score += delta
	}
}

// MarkUsed records a booking of category.
func (p *Player) MarkUsed(category scoring.Category) error {
	if p.HasUsed(category) {
		return ErrCategoryAlreadyUsed.With("category already used", map[string]string{
			"Player":   p.name,
			"Category": category.String(),
		})
	}
	p.used = append(p.used, category)
	return nil
}

// HasUsed reports whether category has been booked.
func (p *Player) HasUsed(category scoring.Category) bool {
	return slices.Contains(p.used, category)
}

// UsedCount is the number of booked categories, 0..13.
func (p *Player) UsedCount() int { return len(p.used) }

// Finished reports whether every category has been booked.
func (p *Player) Finished() bool { return len(p.used) >= scoring.CategoryCount }

// UsedCategories returns booked categories in booking order.
func (p *Player) UsedCategories() []scoring.Category {
	return slices.Clone(p.used)
}

// OpenCategories returns the categories still available, in sheet order.
func (p *Player) OpenCategories() []scoring.Category {
	open := make([]scoring.Category, 0, scoring.CategoryCount-len(p.used))
	for _, c := range scoring.Categories() {
		if !p.HasUsed(c) {
			open = append(open, c)
		}
	}
	return open
}

func (p *Player) usedSet() map[scoring.Category]bool {
	set := make(map[scoring.Category]bool, len(p.used))
	for _, c := range p.used {
		set[c] = true
	}
	return set
}

func (p *Player) clone() *Player {
	return &Player{name: p.name, score: p.score, used: slices.Clone(p.used)}
}
