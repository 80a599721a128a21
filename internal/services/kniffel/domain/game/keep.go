package game

import (
	"strconv"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
)

// MatchKept decides which faces of current survive a reroll.
//
// keep lists face values, not positions. Each entry occupies the next output
// slot whether or not it matched, so an unmatched entry leaves a 0 behind and
// that slot is rolled again. Entries past the fifth are ignored.
func MatchKept(current scoring.Hand, keep []int) scoring.Hand {
	var remaining [7]int
	for _, d := range current {
		if d >= 1 && d <= 6 {
			remaining[d]++
		}
	}

	var out scoring.Hand
	for cursor, face := range keep {
		if cursor >= scoring.HandSize {
			break
		}
		if face < 1 || face > 6 || remaining[face] == 0 {
			continue
		}
		out[cursor] = face
		remaining[face]--
	}
	return out
}

// validateKeep rejects keep requests the hand cannot satisfy in full.
func validateKeep(current scoring.Hand, keep []int) error {
	if len(keep) > scoring.HandSize {
		return ErrInvalidDiceSelection.With("at most five dice can be kept", map[string]string{
			"Kept": strconv.Itoa(len(keep)),
		})
	}
	var remaining [7]int
	for _, d := range current {
		if d >= 1 && d <= 6 {
			remaining[d]++
		}
	}
	for _, face := range keep {
		if face < 1 || face > 6 {
			return ErrInvalidDiceSelection.With("die face out of range", map[string]string{
				"Face": strconv.Itoa(face),
			})
		}
		if remaining[face] == 0 {
			return ErrInvalidDiceSelection.With("face not available in hand", map[string]string{
				"Face": strconv.Itoa(face),
			})
		}
		remaining[face]--
	}
	return nil
}
