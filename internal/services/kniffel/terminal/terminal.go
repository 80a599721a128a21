// Package terminal runs a hot-seat kniffel game in the terminal.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/game"
	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
	"github.com/pterm/pterm"
)

// Prompter collects the decisions of the player whose turn it is.
type Prompter interface {
	// ChooseKeep returns the faces to keep for another roll, or reroll=false
	// to stop rolling and book the current hand.
	ChooseKeep(player string, hand scoring.Hand, rollRound int) (keep []int, reroll bool, err error)
	// ChooseCategory returns one of options.
	ChooseCategory(player string, hand scoring.Hand, options []Option) (scoring.Category, error)
}

// Option is one bookable category and the points the hand would earn there.
type Option struct {
	Category scoring.Category
	Points   int
}

// Label renders the option the way it is listed to the player.
func (o Option) Label() string {
	return fmt.Sprintf("%s (%d)", o.Category, o.Points)
}

// Play drives g until it ends, printing the board to out.
func Play(ctx context.Context, g *game.Game, prompter Prompter, out io.Writer) error {
	for !g.Ended() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := playTurn(g, prompter, out); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(out, Standings(g))
	return err
}

func playTurn(g *game.Game, prompter Prompter, out io.Writer) error {
	current, err := g.CurrentPlayer()
	if err != nil {
		return err
	}
	name := current.Name()
	fmt.Fprint(out, Scoreboard(g))

	for g.Phase() == game.PhaseRolling {
		fmt.Fprint(out, pterm.Sprintfln("%s rolled %s (roll %d of %d)", pterm.LightCyan(name), formatHand(g.Dice()), g.RollRound(), game.MaxRolls))
		keep, reroll, err := prompter.ChooseKeep(name, g.Dice(), g.RollRound())
		if err != nil {
			return fmt.Errorf("choose dice: %w", err)
		}
		if !reroll {
			break
		}
		if err := g.Reroll(keep); err != nil {
			fmt.Fprint(out, pterm.Sprintfln("%s", pterm.LightRed(err.Error())))
		}
	}
	if g.Phase() == game.PhaseBooking {
		fmt.Fprint(out, pterm.Sprintfln("%s final hand %s", pterm.LightCyan(name), formatHand(g.Dice())))
	}

	for {
		category, err := prompter.ChooseCategory(name, g.Dice(), Options(g))
		if err != nil {
			return fmt.Errorf("choose category: %w", err)
		}
		if err := g.Book(category); err != nil {
			fmt.Fprint(out, pterm.Sprintfln("%s", pterm.LightRed(err.Error())))
			continue
		}
		return nil
	}
}

// Options lists the current player's open categories in scorecard order.
func Options(g *game.Game) []Option {
	preview := g.Preview()
	var out []Option
	for _, c := range scoring.Categories() {
		if points, ok := preview[c]; ok {
			out = append(out, Option{Category: c, Points: points})
		}
	}
	return out
}

// Scoreboard renders every player's total and used categories as a table.
func Scoreboard(g *game.Game) string {
	data := pterm.TableData{{"Player", "Score", "Booked"}}
	current, _ := g.CurrentPlayer()
	for _, p := range g.Players() {
		name := p.Name()
		if current != nil && name == current.Name() && !g.Ended() {
			name = "> " + name
		}
		data = append(data, []string{name, strconv.Itoa(p.Score()), strconv.Itoa(p.UsedCount()) + "/" + strconv.Itoa(scoring.CategoryCount)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return ""
	}
	return table + "\n"
}

// Standings renders the final scores and winners inside a box.
func Standings(g *game.Game) string {
	var b strings.Builder
	for _, p := range g.Players() {
		b.WriteString(pterm.Sprintfln("%s: %d", p.Name(), p.Score()))
	}
	var names []string
	for _, w := range g.Winners() {
		names = append(names, w.Name())
	}
	b.WriteString(pterm.Sprintfln("Winner: %s", strings.Join(names, ", ")))

	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return box.WithTitle(pterm.LightGreen("|FINAL STANDINGS|")).WithTitleTopCenter().Sprint(b.String()) + "\n"
}

func formatHand(hand scoring.Hand) string {
	parts := make([]string, len(hand))
	for i, d := range hand {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
