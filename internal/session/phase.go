package session

// Phase is the coarse game mode.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "invalid"
	}
}
