package game

// NewState returns an empty board waiting for players.
func NewState() State {
	return State{
		Lines:  map[string]int{},
		Boxes:  []BoxClaim{},
		Status: StatusWaiting,
	}
}

// Restart discards every line, box and score. Seats belong to the room, so
// the caller reports whether both are occupied; a full room goes straight
// back to playing with player 0 to move.
func Restart(bothSeated bool) State {
	s := NewState()
	if bothSeated {
		s.Status = StatusPlaying
	}
	return s
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
