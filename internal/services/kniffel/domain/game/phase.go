package game

// Phase is the coarse state of the current turn.
type Phase int

const (
	// PhaseRolling accepts rerolls and bookings.
	PhaseRolling Phase = iota
	// PhaseBooking is entered after the third roll and only accepts a booking.
	PhaseBooking
	// PhaseEnded is terminal.
	PhaseEnded
)

// Persisted phase tags.
const (
	phaseTagRolling = "Roll"
	phaseTagBooking = "Book"
	phaseTagEnded   = "Ended"
)

// String returns the persisted tag for p.
func (p Phase) String() string {
	switch p {
	case PhaseRolling:
		return phaseTagRolling
	case PhaseBooking:
		return phaseTagBooking
	case PhaseEnded:
		return phaseTagEnded
	default:
		return "Unknown"
	}
}

// ParsePhase resolves a persisted tag. The boolean is false for unknown tags.
func ParsePhase(tag string) (Phase, bool) {
	switch tag {
	case phaseTagRolling:
		return PhaseRolling, true
	case phaseTagBooking:
		return PhaseBooking, true
	case phaseTagEnded:
		return PhaseEnded, true
	default:
		return 0, false
	}
}
