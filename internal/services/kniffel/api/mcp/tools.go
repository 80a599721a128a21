package mcpapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/louisbranch/kniffel/internal/platform/timeouts"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
	"github.com/louisbranch/kniffel/internal/services/kniffel/service"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/view"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GameService is the slice of the game service the MCP tools drive.
type GameService interface {
	CreateGame(ctx context.Context, names []string) (storage.GameRecord, error)
	GetGame(ctx context.Context, gameID string) (storage.GameRecord, error)
	ListGames(ctx context.Context, req service.ListGamesRequest) (storage.GamePage, error)
	Reroll(ctx context.Context, gameID string, keep []int) (storage.GameRecord, error)
	Book(ctx context.Context, gameID string, tag string) (storage.GameRecord, error)
}

// CreateGameInput represents the MCP tool input for starting a game.
type CreateGameInput struct {
	PlayerNames []string `json:"player_names" jsonschema:"unique player names in turn order"`
}

// GameInput identifies one game.
type GameInput struct {
	GameID string `json:"game_id" jsonschema:"game identifier"`
}

// RollInput represents the MCP tool input for rerolling dice.
type RollInput struct {
	GameID     string `json:"game_id" jsonschema:"game identifier"`
	DiceToKeep []int  `json:"dice_to_keep,omitempty" jsonschema:"face values (1-6) from the current hand to keep"`
}

// BookInput represents the MCP tool input for scoring the current hand.
type BookInput struct {
	GameID      string `json:"game_id" jsonschema:"game identifier"`
	BookingType string `json:"booking_type" jsonschema:"scoring category tag, e.g. FULL_HOUSE"`
}

// ListGamesInput represents the MCP tool input for listing games.
type ListGamesInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum games to return (default 20, max 100)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"next_page_token of a previous call"`
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter over phase, current_player, roll_round, player, created_at"`
}

// ScorePreviewInput represents the MCP tool input for scoring an arbitrary hand.
type ScorePreviewInput struct {
	Dice             []int    `json:"dice" jsonschema:"five face values (1-6)"`
	UsedBookingTypes []string `json:"used_booking_types,omitempty" jsonschema:"category tags to leave out of the preview"`
}

// ScorePreviewResult maps every open category tag to the points the hand earns there.
type ScorePreviewResult struct {
	Scores map[string]int `json:"scores" jsonschema:"points per open category tag"`
}

// CreateGameTool defines the MCP tool schema for starting a game.
func CreateGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "kniffel_create_game",
		Description: "Starts a kniffel game for the named players and rolls the first hand.",
	}
}

// GetGameTool defines the MCP tool schema for reading a game.
func GetGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "kniffel_get_game",
		Description: "Returns the current state of a kniffel game including the score preview.",
	}
}

// ListGamesTool defines the MCP tool schema for listing games.
func ListGamesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "kniffel_list_games",
		Description: "Lists stored kniffel games oldest first, optionally filtered.",
	}
}

// RollTool defines the MCP tool schema for rerolling dice.
func RollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "kniffel_roll",
		Description: "Keeps the listed dice and rolls the rest. The third roll moves the turn to booking.",
	}
}

// BookTool defines the MCP tool schema for booking a category.
func BookTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "kniffel_book",
		Description: "Scores the current hand in an unused category and passes the turn.",
	}
}

// ScorePreviewTool defines the MCP tool schema for scoring a hand without a game.
func ScorePreviewTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "kniffel_score_preview",
		Description: "Scores five dice against every category that is not listed as used.",
	}
}

// CreateGameHandler executes a create game request.
func CreateGameHandler(svc GameService) mcp.ToolHandlerFor[CreateGameInput, view.Game] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateGameInput) (*mcp.CallToolResult, view.Game, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Request)
		defer cancel()

		record, err := svc.CreateGame(runCtx, input.PlayerNames)
		if err != nil {
			return nil, view.Game{}, fmt.Errorf("create game failed: %w", err)
		}
		return recordResult(record)
	}
}

// GetGameHandler executes a get game request.
func GetGameHandler(svc GameService) mcp.ToolHandlerFor[GameInput, view.Game] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameInput) (*mcp.CallToolResult, view.Game, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Request)
		defer cancel()

		record, err := svc.GetGame(runCtx, input.GameID)
		if err != nil {
			return nil, view.Game{}, fmt.Errorf("get game failed: %w", err)
		}
		return recordResult(record)
	}
}

// ListGamesHandler executes a list games request.
func ListGamesHandler(svc GameService) mcp.ToolHandlerFor[ListGamesInput, view.Page] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListGamesInput) (*mcp.CallToolResult, view.Page, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Request)
		defer cancel()

		page, err := svc.ListGames(runCtx, service.ListGamesRequest{
			PageSize:  input.PageSize,
			PageToken: input.PageToken,
			Filter:    input.Filter,
		})
		if err != nil {
			return nil, view.Page{}, fmt.Errorf("list games failed: %w", err)
		}
		out := view.Page{Games: make([]view.Game, 0, len(page.Games)), NextPageToken: page.NextPageToken}
		for _, record := range page.Games {
			v, err := view.FromRecord(record)
			if err != nil {
				return nil, view.Page{}, err
			}
			out.Games = append(out.Games, v)
		}
		return nil, out, nil
	}
}

// RollHandler executes a reroll request.
func RollHandler(svc GameService) mcp.ToolHandlerFor[RollInput, view.Game] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, view.Game, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Request)
		defer cancel()

		record, err := svc.Reroll(runCtx, input.GameID, input.DiceToKeep)
		if err != nil {
			return nil, view.Game{}, fmt.Errorf("roll failed: %w", err)
		}
		return recordResult(record)
	}
}

// BookHandler executes a booking request.
func BookHandler(svc GameService) mcp.ToolHandlerFor[BookInput, view.Game] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BookInput) (*mcp.CallToolResult, view.Game, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.Request)
		defer cancel()

		record, err := svc.Book(runCtx, input.GameID, input.BookingType)
		if err != nil {
			return nil, view.Game{}, fmt.Errorf("book failed: %w", err)
		}
		return recordResult(record)
	}
}

// ScorePreviewHandler scores a hand without touching any game.
func ScorePreviewHandler() mcp.ToolHandlerFor[ScorePreviewInput, ScorePreviewResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ScorePreviewInput) (*mcp.CallToolResult, ScorePreviewResult, error) {
		if len(input.Dice) != scoring.HandSize {
			return nil, ScorePreviewResult{}, fmt.Errorf("dice must hold %d values, got %d", scoring.HandSize, len(input.Dice))
		}
		var hand scoring.Hand
		for i, face := range input.Dice {
			if face < 1 || face > 6 {
				return nil, ScorePreviewResult{}, fmt.Errorf("die %d has face %s, want 1-6", i+1, strconv.Itoa(face))
			}
			hand[i] = face
		}
		used := make(map[scoring.Category]bool, len(input.UsedBookingTypes))
		for _, tag := range input.UsedBookingTypes {
			c, err := scoring.ParseCategory(tag)
			if err != nil {
				return nil, ScorePreviewResult{}, err
			}
			used[c] = true
		}

		result := ScorePreviewResult{Scores: make(map[string]int)}
		for c, points := range scoring.Preview(hand, used) {
			result.Scores[c.String()] = points
		}
		return nil, result, nil
	}
}

func recordResult(record storage.GameRecord) (*mcp.CallToolResult, view.Game, error) {
	v, err := view.FromRecord(record)
	if err != nil {
		return nil, view.Game{}, err
	}
	return nil, v, nil
}
