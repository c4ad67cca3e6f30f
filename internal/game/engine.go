package game

import (
	"errors"
	"maps"
	"slices"
)

var ErrNotPlaying = errors.New("game is not in progress")
var ErrWrongTurn = errors.New("not this player's turn")
var ErrOutOfRange = errors.New("line outside the grid")
var ErrLineTaken = errors.New("line already claimed")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// BoxClaim records one completed box and who closed it. Slice order is
// completion order.
type BoxClaim struct {
	Row    int `json:"r"`
	Col    int `json:"c"`
	Player int `json:"player"`
}

// State is the full authoritative game state for one room. Its JSON encoding
// is the snapshot shape the client consumes, keyed exactly as the client
// expects.
type State struct {
	Lines         map[string]int `json:"lines"`
	Boxes         []BoxClaim     `json:"boxes"`
	Scores        [2]int         `json:"scores"`
	CurrentPlayer int            `json:"currentPlayer"`
	Status        Status         `json:"status"`
}

type CommandType string

const (
	CmdClaimLine CommandType = "ClaimLine"
)

type Command struct {
	Type   CommandType
	Player int
	Line   Line
}

type EventType string

const (
	EvtLineClaimed  EventType = "LineClaimed"
	EvtBoxCompleted EventType = "BoxCompleted"
	EvtTurnPassed   EventType = "TurnPassed"
	EvtGameFinished EventType = "GameFinished"
)

type Event struct {
	Type   EventType
	Player int
	Line   Line
	Box    Box
}

// Apply runs cmd against s and returns the events it produced plus the
// resulting state. On any rejection s is returned untouched. The caller owns
// serialization: no other mutation may interleave between validation and the
// returned state being adopted.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdClaimLine:
		if s.Status != StatusPlaying {
			return nil, s, ErrNotPlaying
		}
		if cmd.Player != s.CurrentPlayer {
			return nil, s, ErrWrongTurn
		}
		if !cmd.Line.InRange() {
			return nil, s, ErrOutOfRange
		}
		if _, taken := s.Lines[cmd.Line.Key()]; taken {
			return nil, s, ErrLineTaken
		}

		next := s.clone()
		next.Lines[cmd.Line.Key()] = cmd.Player
		events := []Event{{Type: EvtLineClaimed, Player: cmd.Player, Line: cmd.Line}}

		completed := completedBoxes(next.Lines, cmd.Line)
		for _, b := range completed {
			next.Boxes = append(next.Boxes, BoxClaim{Row: b.Row, Col: b.Col, Player: cmd.Player})
			next.Scores[cmd.Player]++
			events = append(events, Event{Type: EvtBoxCompleted, Player: cmd.Player, Box: b})
		}

		// Closing a box grants another turn; otherwise the turn flips.
		// Closing two boxes at once still grants exactly one.
		if len(completed) == 0 {
			next.CurrentPlayer = 1 - next.CurrentPlayer
			events = append(events, Event{Type: EvtTurnPassed, Player: next.CurrentPlayer})
		}

		// Status must flip before the snapshot goes out, in the same step as
		// the score update.
		if next.Scores[0]+next.Scores[1] == TotalBoxes {
			next.Status = StatusFinished
			events = append(events, Event{Type: EvtGameFinished})
		}
		return events, next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// completedBoxes returns the boxes (0, 1 or 2) that newLine just closed.
// lines must already contain newLine.
func completedBoxes(lines map[string]int, newLine Line) []Box {
	var found []Box
	for _, b := range AdjacentBoxes(newLine) {
		closed := true
		for _, l := range BoundingLines(b) {
			if _, ok := lines[l.Key()]; !ok {
				closed = false
				break
			}
		}
		if closed {
			found = append(found, b)
		}
	}
	return found
}

func (s State) clone() State {
	out := s
	out.Lines = maps.Clone(s.Lines)
	out.Boxes = slices.Clone(s.Boxes)
	return out
}
