package dice

import (
	"math/rand"
	"sync"
	"testing"
)

func TestRollStaysInRange(t *testing.T) {
	src := NewSeeded(7)
	for range 500 {
		face := Roll(src)
		if face < 1 || face > Faces {
			t.Fatalf("Roll() = %d, want 1..%d", face, Faces)
		}
	}
}

func TestNewSeededIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	want := []int{rng.Intn(6) + 1, rng.Intn(6) + 1, rng.Intn(6) + 1}

	src := NewSeeded(42)
	for i, w := range want {
		if got := Roll(src); got != w {
			t.Fatalf("roll %d = %d, want %d", i, got, w)
		}
	}
}

func TestNewSeededConcurrentUse(t *testing.T) {
	src := NewSeeded(1)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				Roll(src)
			}
		}()
	}
	wg.Wait()
}

func TestScriptedReplaysFaces(t *testing.T) {
	src := NewScripted(6, 1, 3)
	want := []int{6, 1, 3, 6}
	for i, w := range want {
		if got := Roll(src); got != w {
			t.Fatalf("roll %d = %d, want %d", i, got, w)
		}
	}
	if src.Used() != 4 {
		t.Fatalf("Used() = %d, want 4", src.Used())
	}
}

func TestScriptedEmptyRollsOne(t *testing.T) {
	if got := Roll(NewScripted()); got != 1 {
		t.Fatalf("Roll() = %d, want 1", got)
	}
}
