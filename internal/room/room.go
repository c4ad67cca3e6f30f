package room

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/PranavOak12/dotsandboxes/internal/game"
	"github.com/PranavOak12/dotsandboxes/internal/monitor"
)

// ErrRoomFull is a terminal join failure: both seats are bound to other
// identities.
var ErrRoomFull = errors.New("room is full")

type Msg interface{ isRoomMsg() }

// Join binds a connection to a seat. Reply always receives exactly one
// JoinResult.
type Join struct {
	ConnID string
	Token  string // optional stable player token, enables seat rebinding
	Outbox chan Update
	Reply  chan JoinResult
}

func (Join) isRoomMsg() {}

type Leave struct{ ConnID string }

func (Leave) isRoomMsg() {}

type Move struct {
	ConnID string
	Line   game.Line
}

func (Move) isRoomMsg() {}

type Restart struct{ ConnID string }

func (Restart) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type JoinResult struct {
	PlayerIndex int
	Err         error
}

type UpdateKind string

const (
	UpdateState    UpdateKind = "state"
	UpdatePeerLeft UpdateKind = "peer_left"
)

// Update is what seated clients receive on their outbox. Every update
// carries the full snapshot so clients never need to patch state.
type Update struct {
	Kind    UpdateKind
	Version int
	State   game.State
}

// View reflects internal state without data races; used by tests and the
// read-only HTTP endpoint.
type View struct {
	Version int
	Seated  int
	State   game.State
}

// seat is one of the two player slots. connID is empty while vacant; token
// survives a departure so the same player can rebind after a refresh.
type seat struct {
	connID string
	token  string
	outbox chan Update
}

func (s *seat) occupied() bool { return s.connID != "" }

// Room owns one game's authoritative state. All mutation happens on the
// room's own goroutine, one inbound message at a time, so a move is applied
// atomically with no locks.
type Room struct {
	id      string
	inbox   chan Msg
	state   game.State
	version int
	seats   [2]seat
	log     *zap.Logger
	mon     *monitor.Metrics
	onEmpty func(roomID string) // invoked once when both seats empty
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, id string, log *zap.Logger, mon *monitor.Metrics, onEmpty func(roomID string)) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64), // small buffer
		state:   game.NewState(),
		log:     log,
		mon:     mon,
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) ID() string { return r.id }

// Inbox is the only way in; the ws layer and tests send messages here.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has shut down and will no longer consume its
// inbox. Senders must select on it or risk blocking on a dead room.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				if r.handleLeave(msg.ConnID) {
					return
				}

			case Move:
				r.handleMove(msg)

			case Restart:
				r.handleRestart(msg)

			case GetState:
				msg.Reply <- View{
					Version: r.version,
					Seated:  r.seatedCount(),
					State:   r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	idx := r.seatFor(msg.ConnID, msg.Token)
	if idx == -1 {
		msg.Reply <- JoinResult{Err: ErrRoomFull}
		return
	}

	r.seats[idx] = seat{connID: msg.ConnID, token: msg.Token, outbox: msg.Outbox}
	msg.Reply <- JoinResult{PlayerIndex: idx}

	if r.seatedCount() == 2 && r.state.Status == game.StatusWaiting {
		// Second seat filled: the game starts (or resumes) and the whole
		// room hears about it.
		r.state.Status = game.StatusPlaying
		r.version++
		r.log.Info("room filled", zap.String("room", r.id))
		r.broadcast(Update{Kind: UpdateState, Version: r.version, State: r.state})
		return
	}

	// Lone joiner just gets the current snapshot; there is no peer to tell.
	msg.Outbox <- Update{Kind: UpdateState, Version: r.version, State: r.state}
}

// seatFor resolves which seat a joiner should take: the seat it already
// holds, then a vacant seat remembering its token, then any vacant seat.
// -1 means the room is full.
func (r *Room) seatFor(connID, token string) int {
	for i := range r.seats {
		if r.seats[i].connID == connID {
			return i
		}
	}
	if token != "" {
		for i := range r.seats {
			if !r.seats[i].occupied() && r.seats[i].token == token {
				return i
			}
		}
	}
	for i := range r.seats {
		if !r.seats[i].occupied() {
			return i
		}
	}
	return -1
}

// handleLeave reports whether the room emptied and shut down.
func (r *Room) handleLeave(connID string) bool {
	idx := r.seatIndex(connID)
	if idx == -1 {
		return false
	}
	r.vacate(idx)

	if r.seatedCount() == 0 {
		r.log.Info("room empty", zap.String("room", r.id))
		r.shutdown()
		if r.onEmpty != nil {
			r.onEmpty(r.id)
		}
		return true
	}

	// A departure invalidates whatever was in progress.
	r.state.Status = game.StatusWaiting
	r.version++
	r.broadcast(Update{Kind: UpdatePeerLeft, Version: r.version, State: r.state})
	return false
}

func (r *Room) handleMove(msg Move) {
	idx := r.seatIndex(msg.ConnID)
	if idx == -1 {
		return
	}

	_, next, err := game.Apply(r.state, game.Command{
		Type:   game.CmdClaimLine,
		Player: idx,
		Line:   msg.Line,
	})
	if err != nil {
		// Stale or racing client input; absorb it without touching the game.
		r.mon.IncMovesRejected()
		r.log.Debug("move rejected",
			zap.String("room", r.id),
			zap.String("line", msg.Line.Key()),
			zap.Int("player", idx),
			zap.Error(err))
		return
	}

	r.mon.IncMovesApplied()
	r.state = next
	r.version++
	r.broadcast(Update{Kind: UpdateState, Version: r.version, State: r.state})
}

func (r *Room) handleRestart(msg Restart) {
	if r.seatIndex(msg.ConnID) == -1 {
		return
	}

	r.state = game.Restart(r.seatedCount() == 2)
	r.version++
	r.log.Info("game restarted", zap.String("room", r.id))
	r.broadcast(Update{Kind: UpdateState, Version: r.version, State: r.state})
}

func (r *Room) seatIndex(connID string) int {
	for i := range r.seats {
		if r.seats[i].connID == connID {
			return i
		}
	}
	return -1
}

func (r *Room) seatedCount() int {
	n := 0
	for i := range r.seats {
		if r.seats[i].occupied() {
			n++
		}
	}
	return n
}

// vacate clears a seat's connection but keeps its token for rebinding.
func (r *Room) vacate(idx int) {
	if r.seats[idx].outbox != nil {
		close(r.seats[idx].outbox) // tell the writer no more updates
	}
	r.seats[idx].connID = ""
	r.seats[idx].outbox = nil
}

func (r *Room) shutdown() {
	for i := range r.seats {
		r.vacate(i)
	}
	r.cancel()
}

func (r *Room) broadcast(u Update) {
	dropped := false
	for i := range r.seats {
		s := &r.seats[i]
		if !s.occupied() || s.outbox == nil {
			continue
		}
		select {
		case s.outbox <- u:
			// ok
		default:
			// Client is slow/full - drop them.
			r.vacate(i)
			dropped = true
		}
	}
	if !dropped {
		return
	}

	if r.seatedCount() == 0 {
		r.shutdown()
		if r.onEmpty != nil {
			r.onEmpty(r.id)
		}
		return
	}

	// A dropped client counts as a departure for the remaining peer.
	r.state.Status = game.StatusWaiting
	r.version++
	r.broadcast(Update{Kind: UpdatePeerLeft, Version: r.version, State: r.state})
}
