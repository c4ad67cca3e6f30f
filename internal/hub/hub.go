package hub

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PranavOak12/dotsandboxes/internal/monitor"
	"github.com/PranavOak12/dotsandboxes/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for ID, creating it if needed. An empty ID
// mints a fresh identifier; an unknown ID creates that room under the given
// name (a shared link to a room this instance hasn't seen yet is a valid
// join target, not an error).
type EnsureRoom struct {
	ID    string
	Reply chan *room.Room
}

// GetRoom looks a room up without creating it. Reply receives nil for an
// unknown ID.
type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

type RemoveRoom struct {
	ID string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub owns the id -> room table. Like the rooms themselves it is an actor:
// all map access happens on its own goroutine.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	mon    *monitor.Metrics
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger, mon *monitor.Metrics) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		mon:    mon,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				id := msg.ID
				if id == "" {
					id = h.newID()
				}
				if rm := h.rooms[id]; rm != nil {
					msg.Reply <- rm
					break
				}
				msg.Reply <- h.create(id)

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case RemoveRoom:
				delete(h.rooms, msg.ID)
				h.mon.SetActiveRooms(len(h.rooms))
				h.log.Info("room removed", zap.String("room", msg.ID))

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) create(id string) *room.Room {
	onEmpty := func(roomID string) {
		h.inbox <- RemoveRoom{ID: roomID}
	}
	rm := room.New(h.ctx, id, h.log, h.mon, onEmpty)
	h.rooms[id] = rm
	h.mon.SetActiveRooms(len(h.rooms))
	h.log.Info("room created", zap.String("room", id))
	return rm
}

// newID mints a short shareable room id from a v4 uuid.
func (h *Hub) newID() string {
	for {
		id := uuid.NewString()[:8]
		if _, exists := h.rooms[id]; !exists {
			return id
		}
	}
}

func (h *Hub) shutdown() {
	for _, rm := range h.rooms {
		rm.Inbox() <- room.Shutdown{}
	}
	clear(h.rooms)
	h.mon.SetActiveRooms(0)
	h.cancel()
}
