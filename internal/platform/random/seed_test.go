package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct seeds, got %d twice", a)
	}
}

func TestResolveSeed(t *testing.T) {
	seed, fixed, err := ResolveSeed(" 42 ")
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if seed != 42 || !fixed {
		t.Fatalf("ResolveSeed = (%d, %v), want (42, true)", seed, fixed)
	}

	if _, fixed, err := ResolveSeed(""); err != nil || fixed {
		t.Fatalf("ResolveSeed(\"\") fixed = %v, err = %v", fixed, err)
	}

	if _, _, err := ResolveSeed("dice"); err == nil {
		t.Fatal("expected parse error for non-numeric seed")
	}
}
