package terminal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/louisbranch/kniffel/internal/services/kniffel/domain/scoring"
	"github.com/pterm/pterm"
)

// InteractivePrompter asks through pterm's interactive widgets.
type InteractivePrompter struct{}

// ChooseKeep asks whether to roll again and, if so, which dice to hold.
func (InteractivePrompter) ChooseKeep(player string, hand scoring.Hand, _ int) ([]int, bool, error) {
	again, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(fmt.Sprintf("%s, roll again?", player)).
		WithDefaultValue(true).
		Show()
	if err != nil {
		return nil, false, err
	}
	if !again {
		return nil, false, nil
	}

	labels := make([]string, len(hand))
	faces := make(map[string]int, len(hand))
	for i, d := range hand {
		labels[i] = "die " + strconv.Itoa(i+1) + ": " + strconv.Itoa(d)
		faces[labels[i]] = d
	}
	selected, err := pterm.DefaultInteractiveMultiselect.
		WithDefaultText("Select the dice to keep").
		WithOptions(labels).
		Show()
	if err != nil {
		return nil, false, err
	}
	keep := make([]int, 0, len(selected))
	for _, label := range selected {
		keep = append(keep, faces[label])
	}
	return keep, true, nil
}

// ChooseCategory asks which open category to book.
func (InteractivePrompter) ChooseCategory(player string, _ scoring.Hand, options []Option) (scoring.Category, error) {
	if len(options) == 0 {
		return 0, errors.New("no open categories")
	}
	labels := make([]string, len(options))
	byLabel := make(map[string]scoring.Category, len(options))
	for i, o := range options {
		labels[i] = o.Label()
		byLabel[labels[i]] = o.Category
	}
	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(fmt.Sprintf("%s, book your hand", player)).
		WithOptions(labels).
		Show()
	if err != nil {
		return 0, err
	}
	category, ok := byLabel[choice]
	if !ok {
		return 0, fmt.Errorf("unknown choice %q", choice)
	}
	return category, nil
}
