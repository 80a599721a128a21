// Package scoring computes what a five-dice hand is worth in each category.
//
// Everything here is pure: no state, no randomness, no errors for well-formed
// hands.
package scoring

// HandSize is the number of dice in a hand.
const HandSize = 5

// Hand is five dice. Scoring expects every face in 1..6.
type Hand [HandSize]int

const (
	fullHouseScore     = 25
	smallStraightScore = 30
	largeStraightScore = 40
	kniffelScore       = 50
)

// Score returns the points hand earns when booked as category.
func Score(hand Hand, category Category) int {
	counts := faceCounts(hand)
	switch category {
	case Ones, Twos, Threes, Fours, Fives, Sixes:
		face := int(category-Ones) + 1
		return face * counts[face]
	case ThreeOfAKind:
		return ofAKind(hand, counts, 3)
	case FourOfAKind:
		return ofAKind(hand, counts, 4)
	case FullHouse:
		if isFullHouse(counts) {
			return fullHouseScore
		}
	case SmallStraight:
		if hasRun(counts, 4) {
			return smallStraightScore
		}
	case LargeStraight:
		if hasRun(counts, 5) {
			return largeStraightScore
		}
	case Kniffel:
		if maxCount(counts) == HandSize {
			return kniffelScore
		}
	case Chance:
		return sum(hand)
	}
	return 0
}

// Preview scores hand against every category not present in used. Callers use
// it to show what each open booking would yield.
func Preview(hand Hand, used map[Category]bool) map[Category]int {
	out := make(map[Category]int, CategoryCount)
	for _, c := range Categories() {
		if used[c] {
			continue
		}
		out[c] = Score(hand, c)
	}
	return out
}

// faceCounts is indexed by face value; index 0 collects out-of-range dice.
func faceCounts(hand Hand) [7]int {
	var counts [7]int
	for _, d := range hand {
		if d < 1 || d > 6 {
			counts[0]++
			continue
		}
		counts[d]++
	}
	return counts
}

func ofAKind(hand Hand, counts [7]int, threshold int) int {
	if maxCount(counts) >= threshold {
		return sum(hand)
	}
	return 0
}

func isFullHouse(counts [7]int) bool {
	three, two := false, false
	for face := 1; face <= 6; face++ {
		switch counts[face] {
		case 3:
			three = true
		case 2:
			two = true
		}
	}
	return three && two
}

// hasRun reports whether the distinct faces include length consecutive values.
func hasRun(counts [7]int, length int) bool {
	run := 0
	for face := 1; face <= 6; face++ {
		if counts[face] == 0 {
			run = 0
			continue
		}
		run++
		if run >= length {
			return true
		}
	}
	return false
}

func maxCount(counts [7]int) int {
	best := 0
	for face := 1; face <= 6; face++ {
		best = max(best, counts[face])
	}
	return best
}

func sum(hand Hand) int {
	total := 0
	for _, d := range hand {
		total += d
	}
	return total
}
