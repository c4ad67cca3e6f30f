package game

import (
	"errors"
	"testing"
)

func playingState() State {
	s := NewState()
	s.Status = StatusPlaying
	return s
}

func claim(t *testing.T, s State, player int, l Line) State {
	t.Helper()
	_, next, err := Apply(s, Command{Type: CmdClaimLine, Player: player, Line: l})
	if err != nil {
		t.Fatalf("claim %s by %d: unexpected err %v", l.Key(), player, err)
	}
	return next
}

func TestApply_RejectsWhenNotPlaying(t *testing.T) {
	cases := []struct {
		name   string
		status Status
	}{
		{"waiting", StatusWaiting},
		{"finished", StatusFinished},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			s.Status = tc.status
			_, next, err := Apply(s, Command{Type: CmdClaimLine, Player: 0, Line: Line{Horizontal, 0, 0}})
			if !errors.Is(err, ErrNotPlaying) {
				t.Fatalf("want ErrNotPlaying, got %v", err)
			}
			if len(next.Lines) != 0 {
				t.Fatalf("rejected move must not mutate state: %+v", next.Lines)
			}
		})
	}
}

func TestApply_RejectsWrongTurn(t *testing.T) {
	s := playingState() // player 0 to move

	_, next, err := Apply(s, Command{Type: CmdClaimLine, Player: 1, Line: Line{Horizontal, 0, 0}})
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("want ErrWrongTurn, got %v", err)
	}
	if len(next.Lines) != 0 || next.CurrentPlayer != 0 {
		t.Fatalf("rejected move must not mutate state: %+v", next)
	}
}

func TestApply_RejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		line Line
	}{
		{"horizontal col overflow", Line{Horizontal, 0, 5}},
		{"vertical row overflow", Line{Vertical, 5, 0}},
		{"negative row", Line{Horizontal, -1, 0}},
		{"bogus orientation", Line{"d", 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Apply(playingState(), Command{Type: CmdClaimLine, Player: 0, Line: tc.line})
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("want ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestApply_RejectsClaimedLine(t *testing.T) {
	s := playingState()
	s = claim(t, s, 0, Line{Horizontal, 0, 0})

	// Re-claiming is rejected no matter who submits it, including the line's
	// own claimant on a later turn.
	for _, player := range []int{1, 0} {
		s.CurrentPlayer = player
		_, _, err := Apply(s, Command{Type: CmdClaimLine, Player: player, Line: Line{Horizontal, 0, 0}})
		if !errors.Is(err, ErrLineTaken) {
			t.Fatalf("player %d: want ErrLineTaken, got %v", player, err)
		}
	}
}

func TestApply_NoBoxFlipsTurn(t *testing.T) {
	s := playingState()

	// Two full rounds with zero completions: turn alternates 0,1,0,1.
	moves := []Line{
		{Horizontal, 0, 0},
		{Horizontal, 0, 1},
		{Horizontal, 2, 2},
		{Vertical, 3, 3},
	}
	wantTurns := []int{1, 0, 1, 0}

	for i, l := range moves {
		events, next, err := Apply(s, Command{Type: CmdClaimLine, Player: s.CurrentPlayer, Line: l})
		if err != nil {
			t.Fatalf("move %d: unexpected err %v", i, err)
		}
		if next.CurrentPlayer != wantTurns[i] {
			t.Fatalf("move %d: want turn %d, got %d", i, wantTurns[i], next.CurrentPlayer)
		}
		if !ContainsEvent(events, EvtTurnPassed) {
			t.Fatalf("move %d: expected EvtTurnPassed", i)
		}
		if ContainsEvent(events, EvtBoxCompleted) {
			t.Fatalf("move %d: unexpected EvtBoxCompleted", i)
		}
		s = next
	}
}

func TestApply_BoxCompletionCreditsMoverAndKeepsTurn(t *testing.T) {
	s := playingState()

	// Alternating valid turns around box (0,0); the 4th side lands on
	// player 1's turn.
	s = claim(t, s, 0, Line{Horizontal, 0, 0})
	s = claim(t, s, 1, Line{Horizontal, 1, 0})
	s = claim(t, s, 0, Line{Vertical, 0, 0})

	events, next, err := Apply(s, Command{Type: CmdClaimLine, Player: 1, Line: Line{Vertical, 0, 1}})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}

	if !ContainsEvent(events, EvtBoxCompleted) {
		t.Fatalf("expected EvtBoxCompleted, got %+v", events)
	}
	if len(next.Boxes) != 1 || next.Boxes[0] != (BoxClaim{Row: 0, Col: 0, Player: 1}) {
		t.Fatalf("want box (0,0) owned by player 1, got %+v", next.Boxes)
	}
	if next.Scores != [2]int{0, 1} {
		t.Fatalf("want scores [0 1], got %v", next.Scores)
	}
	if next.CurrentPlayer != 1 {
		t.Fatalf("mover keeps the turn after completing a box, got turn %d", next.CurrentPlayer)
	}
}

func TestApply_DoubleBoxSingleExtraTurn(t *testing.T) {
	s := playingState()
	s.CurrentPlayer = 0

	// Boxes (0,0) and (0,1) each have 3 sides claimed; v-0-1 is the shared
	// missing side.
	for _, l := range []Line{
		{Horizontal, 0, 0}, {Horizontal, 1, 0}, {Vertical, 0, 0},
		{Horizontal, 0, 1}, {Horizontal, 1, 1}, {Vertical, 0, 2},
	} {
		s.Lines[l.Key()] = 1
	}

	events, next, err := Apply(s, Command{Type: CmdClaimLine, Player: 0, Line: Line{Vertical, 0, 1}})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}

	if len(next.Boxes) != 2 {
		t.Fatalf("want 2 completed boxes, got %+v", next.Boxes)
	}
	// Deterministic row-major order: (0,0) before (0,1).
	if next.Boxes[0] != (BoxClaim{0, 0, 0}) || next.Boxes[1] != (BoxClaim{0, 1, 0}) {
		t.Fatalf("want boxes (0,0),(0,1) for player 0, got %+v", next.Boxes)
	}
	if next.Scores != [2]int{2, 0} {
		t.Fatalf("want scores [2 0], got %v", next.Scores)
	}
	if next.CurrentPlayer != 0 {
		t.Fatalf("double completion still grants exactly one continued turn, got turn %d", next.CurrentPlayer)
	}
	if ContainsEvent(events, EvtTurnPassed) {
		t.Fatalf("turn must not pass on completion: %+v", events)
	}
}

// Plays out all 60 lines and checks the score/box invariant plus the finish
// transition after every single move.
func TestApply_FullGameInvariants(t *testing.T) {
	s := playingState()

	var all []Line
	for r := 0; r < Dots; r++ {
		for c := 0; c < Dots-1; c++ {
			all = append(all, Line{Horizontal, r, c})
		}
	}
	for r := 0; r < Dots-1; r++ {
		for c := 0; c < Dots; c++ {
			all = append(all, Line{Vertical, r, c})
		}
	}
	if len(all) != 2*Dots*(Dots-1) {
		t.Fatalf("expected %d candidate lines, got %d", 2*Dots*(Dots-1), len(all))
	}

	for i, l := range all {
		events, next, err := Apply(s, Command{Type: CmdClaimLine, Player: s.CurrentPlayer, Line: l})
		if err != nil {
			t.Fatalf("move %d (%s): unexpected err %v", i, l.Key(), err)
		}

		if next.Scores[0]+next.Scores[1] != len(next.Boxes) {
			t.Fatalf("move %d: scores %v out of sync with %d boxes", i, next.Scores, len(next.Boxes))
		}

		done := next.Scores[0]+next.Scores[1] == TotalBoxes
		if done != (next.Status == StatusFinished) {
			t.Fatalf("move %d: status %q with %d/%d boxes", i, next.Status, len(next.Boxes), TotalBoxes)
		}
		if next.Status == StatusFinished && !ContainsEvent(events, EvtGameFinished) {
			t.Fatalf("move %d: finished without EvtGameFinished", i)
		}

		// Turn rule holds on every move.
		if ContainsEvent(events, EvtBoxCompleted) {
			if next.CurrentPlayer != s.CurrentPlayer {
				t.Fatalf("move %d: turn flipped despite completion", i)
			}
		} else if next.CurrentPlayer == s.CurrentPlayer {
			t.Fatalf("move %d: turn kept without completion", i)
		}

		s = next
	}

	if s.Status != StatusFinished {
		t.Fatalf("all lines claimed but status is %q", s.Status)
	}
	if len(s.Boxes) != TotalBoxes {
		t.Fatalf("want %d boxes, got %d", TotalBoxes, len(s.Boxes))
	}
}

// Box ownership is immutable: completing boxes never rewrites earlier claims.
func TestApply_BoxOwnerImmutable(t *testing.T) {
	s := playingState()
	for _, l := range []Line{
		{Horizontal, 0, 0}, {Horizontal, 1, 0}, {Vertical, 0, 0},
	} {
		s.Lines[l.Key()] = 0
	}
	s = claim(t, s, 0, Line{Vertical, 0, 1}) // box (0,0) -> player 0

	// Player 0 keeps the turn; close a second, unrelated box.
	for _, l := range []Line{
		{Horizontal, 4, 4}, {Horizontal, 5, 4}, {Vertical, 4, 4},
	} {
		s.Lines[l.Key()] = 1
	}
	s = claim(t, s, 0, Line{Vertical, 4, 5})

	if s.Boxes[0] != (BoxClaim{0, 0, 0}) {
		t.Fatalf("first box claim rewritten: %+v", s.Boxes[0])
	}
	if len(s.Boxes) != 2 {
		t.Fatalf("want 2 boxes, got %+v", s.Boxes)
	}
}

func TestApply_RejectionLeavesInputAlone(t *testing.T) {
	s := playingState()
	s = claim(t, s, 0, Line{Horizontal, 2, 2})

	before := len(s.Lines)
	_, _, err := Apply(s, Command{Type: CmdClaimLine, Player: 1, Line: Line{Horizontal, 2, 2}})
	if !errors.Is(err, ErrLineTaken) {
		t.Fatalf("want ErrLineTaken, got %v", err)
	}
	if len(s.Lines) != before || s.CurrentPlayer != 1 {
		t.Fatalf("rejection mutated caller state: %+v", s)
	}
}

func TestApply_UnsupportedCommand(t *testing.T) {
	_, _, err := Apply(playingState(), Command{Type: "Resign"})
	if !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}

func TestRestart(t *testing.T) {
	s := playingState()
	s.Scores = [2]int{13, 12}
	s.Status = StatusFinished
	s.Lines["h-0-0"] = 0
	s.Boxes = append(s.Boxes, BoxClaim{0, 0, 0})
	s.CurrentPlayer = 1

	reset := Restart(true)
	if reset.Status != StatusPlaying {
		t.Fatalf("restart with both seats filled: want playing, got %q", reset.Status)
	}
	if len(reset.Lines) != 0 || len(reset.Boxes) != 0 || reset.Scores != [2]int{0, 0} || reset.CurrentPlayer != 0 {
		t.Fatalf("restart did not zero state: %+v", reset)
	}

	if got := Restart(false).Status; got != StatusWaiting {
		t.Fatalf("restart with an empty seat: want waiting, got %q", got)
	}
}
