// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Game setup errors
	CodeInvalidPlayerList Code = "INVALID_PLAYER_LIST"

	// Turn errors
	CodeInvalidDiceSelection Code = "INVALID_DICE_SELECTION"
	CodeCategoryAlreadyUsed  Code = "CATEGORY_ALREADY_USED"
	CodeInvalidCategory      Code = "INVALID_CATEGORY"
	CodeInvalidPhase         Code = "INVALID_PHASE"

	// Consistency errors
	CodePlayerNotFound  Code = "PLAYER_NOT_FOUND"
	CodeInvalidSnapshot Code = "INVALID_SNAPSHOT"

	// Storage errors
	CodeGameNotFound  Code = "GAME_NOT_FOUND"
	CodeGameConflict  Code = "GAME_CONFLICT"
	CodeInvalidFilter Code = "INVALID_FILTER"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidPlayerList,
		CodeInvalidDiceSelection,
		CodeInvalidCategory,
		CodeInvalidFilter:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeCategoryAlreadyUsed,
		CodeInvalidPhase:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeGameNotFound:
		return codes.NotFound

	// Aborted - concurrent modification
	case CodeGameConflict:
		return codes.Aborted

	// Internal - broken invariants
	case CodePlayerNotFound,
		CodeInvalidSnapshot:
		return codes.Internal

	default:
		return codes.Internal
	}
}
