package game

import apperrors "github.com/louisbranch/kniffel/internal/platform/errors"

var (
	// ErrInvalidPlayerList indicates an empty roster, a blank name or a duplicate name.
	ErrInvalidPlayerList = apperrors.New(apperrors.CodeInvalidPlayerList, "player list must be non-empty with unique names")
	// ErrInvalidDiceSelection indicates a keep request the current hand cannot satisfy.
	ErrInvalidDiceSelection = apperrors.New(apperrors.CodeInvalidDiceSelection, "dice to keep are not on the table")
	// ErrCategoryAlreadyUsed indicates the current player already booked the category.
	ErrCategoryAlreadyUsed = apperrors.New(apperrors.CodeCategoryAlreadyUsed, "category already used")
	// ErrInvalidPhase indicates a move that the current phase does not allow.
	ErrInvalidPhase = apperrors.New(apperrors.CodeInvalidPhase, "move not allowed in current phase")
	// ErrPlayerNotFound indicates the current player pointer is out of range.
	ErrPlayerNotFound = apperrors.New(apperrors.CodePlayerNotFound, "current player not found")
	// ErrInvalidSnapshot indicates a persisted game that fails validation.
	ErrInvalidSnapshot = apperrors.New(apperrors.CodeInvalidSnapshot, "invalid game snapshot")
)
