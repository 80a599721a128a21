package filter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/louisbranch/kniffel/internal/platform/errors"
)

func TestParse_PhaseEquals(t *testing.T) {
	cond, err := Parse(`phase = "BOOK"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "stage = ?" {
		t.Errorf("expected 'stage = ?', got %q", cond.SQL.Clause)
	}
	if !reflect.DeepEqual(cond.SQL.Params, []any{"Book"}) {
		t.Errorf("Params = %v, want [Book]", cond.SQL.Params)
	}
	if !cond.Matches(Fields{Phase: "Book"}) {
		t.Error("expected Book game to match")
	}
	if cond.Matches(Fields{Phase: "Roll"}) {
		t.Error("expected Roll game not to match")
	}
}

func TestParse_Empty(t *testing.T) {
	cond, err := Parse(" ")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if !cond.Empty() || cond.SQL.Params != nil {
		t.Fatalf("expected empty condition, got %+v", cond.SQL)
	}
	if !cond.Matches(Fields{}) {
		t.Fatal("expected empty condition to match everything")
	}
}

func TestParse_AndOr(t *testing.T) {
	cond, err := Parse(`phase = "ROLL" AND current_player = "ann"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "(stage = ? AND current_player = ?)" {
		t.Fatalf("Clause = %q", cond.SQL.Clause)
	}
	if !reflect.DeepEqual(cond.SQL.Params, []any{"Roll", "ann"}) {
		t.Fatalf("Params = %v", cond.SQL.Params)
	}
	if !cond.Matches(Fields{Phase: "Roll", CurrentPlayer: "ann"}) {
		t.Fatal("expected match")
	}
	if cond.Matches(Fields{Phase: "Roll", CurrentPlayer: "bob"}) {
		t.Fatal("expected bob not to match")
	}

	cond, err = Parse(`current_player = "ann" OR current_player = "bob"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "(current_player = ? OR current_player = ?)" {
		t.Fatalf("Clause = %q", cond.SQL.Clause)
	}
	if !cond.Matches(Fields{CurrentPlayer: "bob"}) || cond.Matches(Fields{CurrentPlayer: "cy"}) {
		t.Fatal("unexpected OR evaluation")
	}
}

func TestParse_RollRoundComparison(t *testing.T) {
	cond, err := Parse(`roll_round >= 2`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "roll_round >= ?" {
		t.Fatalf("Clause = %q", cond.SQL.Clause)
	}
	if !reflect.DeepEqual(cond.SQL.Params, []any{int64(2)}) {
		t.Fatalf("Params = %v", cond.SQL.Params)
	}
	if !cond.Matches(Fields{RollRound: 3}) || cond.Matches(Fields{RollRound: 1}) {
		t.Fatal("unexpected roll_round evaluation")
	}
}

func TestParse_Player(t *testing.T) {
	cond, err := Parse(`player = "cy"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "game_id IN (SELECT game_id FROM players WHERE name = ?)" {
		t.Fatalf("Clause = %q", cond.SQL.Clause)
	}
	if !cond.Matches(Fields{Players: []string{"ann", "cy"}}) {
		t.Fatal("expected seated player to match")
	}
	if cond.Matches(Fields{Players: []string{"ann", "bob"}}) {
		t.Fatal("expected absent player not to match")
	}

	if _, err := Parse(`player > "cy"`); err == nil {
		t.Fatal("expected ordering on player to be rejected")
	}
}

func TestParse_Not(t *testing.T) {
	cond, err := Parse(`NOT phase = "ENDED"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "(NOT stage = ?)" {
		t.Fatalf("Clause = %q", cond.SQL.Clause)
	}
	if cond.Matches(Fields{Phase: "Ended"}) || !cond.Matches(Fields{Phase: "Roll"}) {
		t.Fatal("unexpected NOT evaluation")
	}
}

func TestParse_CreatedAt(t *testing.T) {
	cond, err := Parse(`created_at > timestamp("2026-01-01T00:00:00Z")`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.SQL.Clause != "created_at > ?" {
		t.Fatalf("Clause = %q", cond.SQL.Clause)
	}
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !reflect.DeepEqual(cond.SQL.Params, []any{cutoff.UnixMilli()}) {
		t.Fatalf("Params = %v", cond.SQL.Params)
	}
	if !cond.Matches(Fields{CreatedAt: cutoff.Add(time.Hour)}) || cond.Matches(Fields{CreatedAt: cutoff}) {
		t.Fatal("unexpected created_at evaluation")
	}
}

func TestParse_InvalidInput(t *testing.T) {
	tests := []string{
		`unknown = "x"`,
		`phase = "SLEEPING"`,
		`phase > "ROLL"`,
		`created_at = duration("1h")`,
		`created_at = timestamp("not-a-time")`,
		`phase = `,
	}
	for _, input := range tests {
		_, err := Parse(input)
		if err == nil {
			t.Fatalf("Parse(%q) expected error", input)
		}
		if !apperrors.IsCode(err, apperrors.CodeInvalidFilter) {
			t.Fatalf("Parse(%q) err = %v, want INVALID_FILTER", input, err)
		}
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) || appErr.Cause == nil || appErr.Metadata["Reason"] == "" {
			t.Fatalf("Parse(%q) expected cause and reason, got %#v", input, err)
		}
	}
}
