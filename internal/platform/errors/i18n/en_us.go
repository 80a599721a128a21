package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown              = "UNKNOWN"
	CodeInvalidPlayerList    = "INVALID_PLAYER_LIST"
	CodeInvalidDiceSelection = "INVALID_DICE_SELECTION"
	CodeCategoryAlreadyUsed  = "CATEGORY_ALREADY_USED"
	CodeInvalidCategory      = "INVALID_CATEGORY"
	CodeInvalidPhase         = "INVALID_PHASE"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeInvalidSnapshot      = "INVALID_SNAPSHOT"
	CodeGameNotFound         = "GAME_NOT_FOUND"
	CodeGameConflict         = "GAME_CONFLICT"
	CodeInvalidFilter        = "INVALID_FILTER"
)

var enUSMessages = map[Code]string{
	CodeUnknown:              "An unexpected error occurred.",
	CodeInvalidPlayerList:    "A game needs at least one player and every name must be unique.",
	CodeInvalidDiceSelection: "You can only keep dice that are on the table.",
	CodeCategoryAlreadyUsed:  "{{.Player}} has already booked {{.Category}}.",
	CodeInvalidCategory:      "{{.Category}} is not a scoring category.",
	CodeInvalidPhase:         "That move is not allowed while the game is in the {{.Phase}} phase.",
	CodePlayerNotFound:       "The current player could not be found.",
	CodeInvalidSnapshot:      "The stored game is corrupted.",
	CodeGameNotFound:         "Game {{.GameID}} does not exist.",
	CodeGameConflict:         "The game changed while your move was being processed. Please retry.",
	CodeInvalidFilter:        "The filter expression is invalid.",
}
