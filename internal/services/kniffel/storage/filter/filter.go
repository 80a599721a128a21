// Package filter parses AIP-160 filter expressions for game listings.
//
// A parsed Condition renders to a SQL WHERE fragment for the SQLite store and
// evaluates directly against Fields for the in-memory store, so both stores
// accept the same filter language.
package filter

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/kniffel/internal/platform/errors"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Filterable field names.
const (
	FieldPhase         = "phase"
	FieldCurrentPlayer = "current_player"
	FieldRollRound     = "roll_round"
	FieldPlayer        = "player"
	FieldCreatedAt     = "created_at"
)

// GameDeclarations returns the field declarations for game filtering.
func GameDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent(FieldPhase, filtering.TypeString),
		filtering.DeclareIdent(FieldCurrentPlayer, filtering.TypeString),
		filtering.DeclareIdent(FieldRollRound, filtering.TypeInt),
		filtering.DeclareIdent(FieldPlayer, filtering.TypeString),
		filtering.DeclareIdent(FieldCreatedAt, filtering.TypeTimestamp),
	)
}

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "stage = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// Fields is the projection of a stored game that filters evaluate against.
type Fields struct {
	Phase         string
	CurrentPlayer string
	RollRound     int64
	Players       []string
	CreatedAt     time.Time
}

// Condition is a parsed filter. The zero value matches every game.
type Condition struct {
	SQL   SQLCondition
	match func(Fields) bool
}

// Empty reports whether the condition filters nothing.
func (c Condition) Empty() bool {
	return c.SQL.Clause == ""
}

// Matches evaluates the condition against f.
func (c Condition) Matches(f Fields) bool {
	if c.match == nil {
		return true
	}
	return c.match(f)
}

// columnMapping maps filter field names to games table columns.
var columnMapping = map[string]string{
	FieldPhase:         "stage",
	FieldCurrentPlayer: "current_player",
	FieldRollRound:     "roll_round",
	FieldCreatedAt:     "created_at",
}

// phaseTags maps accepted phase spellings to stored tags.
var phaseTags = map[string]string{
	"ROLL":    "Roll",
	"ROLLING": "Roll",
	"BOOK":    "Book",
	"BOOKING": "Book",
	"ENDED":   "Ended",
}

// Parse parses an AIP-160 filter expression. An empty string yields the zero
// Condition.
func Parse(filterStr string) (Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Condition{}, nil
	}

	decls, err := GameDeclarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Condition{}, invalid(err)
	}

	cond, err := translateExpr(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return Condition{}, invalid(err)
	}
	return cond, nil
}

func invalid(cause error) error {
	err := apperrors.Wrap(apperrors.CodeInvalidFilter, "invalid filter: "+cause.Error(), cause)
	err.Metadata = map[string]string{"Reason": cause.Error()}
	return err
}

func translateExpr(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return Condition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (Condition, error) {
	switch call.Function {
	case "_&&_", "AND", "FUZZY":
		return translateLogical(call.Args, "AND")
	case "_||_", "OR":
		return translateLogical(call.Args, "OR")
	case "NOT":
		return translateNot(call.Args)
	case "_==_", "=":
		return translateComparison(call.Args, "=")
	case "_!=_", "!=":
		return translateComparison(call.Args, "!=")
	case "_<_", "<":
		return translateComparison(call.Args, "<")
	case "_<=_", "<=":
		return translateComparison(call.Args, "<=")
	case "_>_", ">":
		return translateComparison(call.Args, ">")
	case "_>=_", ">=":
		return translateComparison(call.Args, ">=")
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translateExpr(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return Condition{}, err
	}

	match := func(f Fields) bool { return left.Matches(f) && right.Matches(f) }
	if op == "OR" {
		match = func(f Fields) bool { return left.Matches(f) || right.Matches(f) }
	}
	return Condition{
		SQL: SQLCondition{
			Clause: fmt.Sprintf("(%s %s %s)", left.SQL.Clause, op, right.SQL.Clause),
			Params: append(append([]any{}, left.SQL.Params...), right.SQL.Params...),
		},
		match: match,
	}, nil
}

func translateNot(args []*expr.Expr) (Condition, error) {
	if len(args) != 1 {
		return Condition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		SQL: SQLCondition{
			Clause: fmt.Sprintf("(NOT %s)", inner.SQL.Clause),
			Params: inner.SQL.Params,
		},
		match: func(f Fields) bool { return !inner.Matches(f) },
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := extractFieldName(args[0])
	if err != nil {
		return Condition{}, err
	}
	value, err := extractValue(args[1])
	if err != nil {
		return Condition{}, err
	}

	switch field {
	case FieldPlayer:
		return playerCondition(op, value)
	case FieldPhase:
		return phaseCondition(op, value)
	case FieldCurrentPlayer:
		name, ok := value.(string)
		if !ok {
			return Condition{}, fmt.Errorf("%s expects a string", field)
		}
		return Condition{
			SQL:   SQLCondition{Clause: fmt.Sprintf("%s %s ?", columnMapping[field], op), Params: []any{name}},
			match: func(f Fields) bool { return compare(strings.Compare(f.CurrentPlayer, name), op) },
		}, nil
	case FieldRollRound:
		round, ok := value.(int64)
		if !ok {
			return Condition{}, fmt.Errorf("%s expects an integer", field)
		}
		return Condition{
			SQL:   SQLCondition{Clause: fmt.Sprintf("%s %s ?", columnMapping[field], op), Params: []any{round}},
			match: func(f Fields) bool { return compare(cmpInt(f.RollRound, round), op) },
		}, nil
	case FieldCreatedAt:
		ts, ok := value.(time.Time)
		if !ok {
			return Condition{}, fmt.Errorf("%s expects a timestamp", field)
		}
		millis := ts.UTC().UnixMilli()
		return Condition{
			SQL: SQLCondition{Clause: fmt.Sprintf("%s %s ?", columnMapping[field], op), Params: []any{millis}},
			match: func(f Fields) bool {
				return compare(cmpInt(f.CreatedAt.UTC().UnixMilli(), millis), op)
			},
		}, nil
	default:
		return Condition{}, fmt.Errorf("unknown field: %s", field)
	}
}

func playerCondition(op string, value any) (Condition, error) {
	name, ok := value.(string)
	if !ok {
		return Condition{}, fmt.Errorf("%s expects a string", FieldPlayer)
	}
	switch op {
	case "=":
		return Condition{
			SQL: SQLCondition{
				Clause: "game_id IN (SELECT game_id FROM players WHERE name = ?)",
				Params: []any{name},
			},
			match: func(f Fields) bool { return hasPlayer(f.Players, name) },
		}, nil
	case "!=":
		return Condition{
			SQL: SQLCondition{
				Clause: "game_id NOT IN (SELECT game_id FROM players WHERE name = ?)",
				Params: []any{name},
			},
			match: func(f Fields) bool { return !hasPlayer(f.Players, name) },
		}, nil
	default:
		return Condition{}, fmt.Errorf("%s only supports = and !=", FieldPlayer)
	}
}

func phaseCondition(op string, value any) (Condition, error) {
	raw, ok := value.(string)
	if !ok {
		return Condition{}, fmt.Errorf("%s expects a string", FieldPhase)
	}
	tag, ok := phaseTags[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return Condition{}, fmt.Errorf("unknown phase: %s", raw)
	}
	if op != "=" && op != "!=" {
		return Condition{}, fmt.Errorf("%s only supports = and !=", FieldPhase)
	}
	return Condition{
		SQL:   SQLCondition{Clause: fmt.Sprintf("%s %s ?", columnMapping[FieldPhase], op), Params: []any{tag}},
		match: func(f Fields) bool { return compare(strings.Compare(f.Phase, tag), op) },
	}, nil
}

func hasPlayer(players []string, name string) bool {
	for _, p := range players {
		if p == name {
			return true
		}
	}
	return false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compare applies op to the result of a three-way comparison.
func compare(c int, op string) bool {
	switch op {
	case "=":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	default:
		return false
	}
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		if kind.CallExpr.Function == "timestamp" && len(kind.CallExpr.Args) == 1 {
			return extractTimestampValue(kind.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.Function)
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func extractTimestampValue(e *expr.Expr) (time.Time, error) {
	constExpr, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a constant string")
	}
	strVal, ok := constExpr.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, strVal.StringValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", strVal.StringValue)
	}
	return t, nil
}
