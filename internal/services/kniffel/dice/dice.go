// Package dice supplies the randomness behind kniffel rolls.
//
// The engine never reaches for a global generator: every roll is drawn from a
// Source handed in by the caller, so tests can script exact faces and servers
// can reproduce a session from a seed.
package dice

import (
	"math/rand"
	"sync"
)

// Faces is the number of sides on a kniffel die.
const Faces = 6

// Source yields uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}

// Roll returns one die face in 1..6 drawn from src.
func Roll(src Source) int {
	return src.Intn(Faces) + 1
}

// lockedSource guards a math/rand generator so one Source can be shared by
// concurrent game operations.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a concurrency-safe Source seeded with seed.
func NewSeeded(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Scripted replays fixed faces in order. It is meant for tests and demos;
// once the script is exhausted it starts over.
type Scripted struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewScripted returns a Source that yields the given faces (1..6) in order.
func NewScripted(faces ...int) *Scripted {
	return &Scripted{faces: append([]int(nil), faces...)}
}

// Intn returns the next scripted face shifted into [0, n).
func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.faces) == 0 {
		return 0
	}
	face := s.faces[s.next%len(s.faces)]
	s.next++
	return (face - 1) % n
}

// Used reports how many faces have been consumed.
func (s *Scripted) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
