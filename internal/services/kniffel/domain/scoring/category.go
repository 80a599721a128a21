package scoring

import (
	"strings"

	apperrors "github.com/louisbranch/kniffel/internal/platform/errors"
)

// Category is one of the thirteen scoring slots on a kniffel sheet.
type Category int

const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Kniffel
	Chance
)

// CategoryCount is the size of a full score sheet.
const CategoryCount = 13

var categoryTags = [CategoryCount]string{
	Ones:          "ONES",
	Twos:          "TWOS",
	Threes:        "THREES",
	Fours:         "FOURS",
	Fives:         "FIVES",
	Sixes:         "SIXES",
	ThreeOfAKind:  "THREE_OF_A_KIND",
	FourOfAKind:   "FOUR_OF_A_KIND",
	FullHouse:     "FULL_HOUSE",
	SmallStraight: "SMALL_STRAIGHT",
	LargeStraight: "LARGE_STRAIGHT",
	Kniffel:       "KNIFFEL",
	Chance:        "CHANCE",
}

// ErrInvalidCategory indicates a tag that names no scoring category.
var ErrInvalidCategory = apperrors.New(apperrors.CodeInvalidCategory, "unknown scoring category")

// Categories returns every category in sheet order.
func Categories() []Category {
	out := make([]Category, CategoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is one of the thirteen categories.
func (c Category) Valid() bool {
	return c >= Ones && c <= Chance
}

// String returns the uppercase snake-case tag used in storage and on the wire.
func (c Category) String() string {
	if !c.Valid() {
		return "UNKNOWN"
	}
	return categoryTags[c]
}

// ParseCategory resolves a tag such as "FULL_HOUSE". Matching ignores case and
// surrounding whitespace.
func ParseCategory(tag string) (Category, error) {
	normalized := strings.ToUpper(strings.TrimSpace(tag))
	for i, t := range categoryTags {
		if t == normalized {
			return Category(i), nil
		}
	}
	return 0, ErrInvalidCategory.With("unknown scoring category "+tag, map[string]string{"Category": tag})
}
