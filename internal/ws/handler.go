package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PranavOak12/dotsandboxes/internal/hub"
	"github.com/PranavOak12/dotsandboxes/internal/monitor"
	"github.com/PranavOak12/dotsandboxes/internal/room"
	"github.com/PranavOak12/dotsandboxes/internal/types"
)

// Handler is the session dispatcher: it seats one websocket connection in a
// room and shuttles messages both ways. The room is resolved from the
// "room" query param; no param means a fresh room, an unknown id creates
// that room (join is the one lazy-creation path). An optional "token" param
// lets a player reclaim their seat after a refresh.
func Handler(h *hub.Hub, mon *monitor.Metrics, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("room")
		token := r.URL.Query().Get("token")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{ID: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Update, 8)
		connID := uuid.NewString()

		res, joined := tryJoin(rm, room.Join{ConnID: connID, Token: token, Outbox: out})
		if !joined {
			// The room emptied and shut down between the hub lookup and our
			// join; a second lookup gets a fresh room under the same id.
			h.Inbox() <- hub.EnsureRoom{ID: rm.ID(), Reply: reply}
			rm = <-reply
			res, joined = tryJoin(rm, room.Join{ConnID: connID, Token: token, Outbox: out})
			if !joined {
				write(r.Context(), conn, types.ServerMessage{Type: "error", Error: "room unavailable"})
				conn.Close(websocket.StatusTryAgainLater, "room unavailable")
				return
			}
		}
		if res.Err != nil {
			// Terminal for this client: both seats are taken.
			write(r.Context(), conn, types.ServerMessage{Type: "error", Error: res.Err.Error()})
			conn.Close(websocket.StatusPolicyViolation, "room full")
			return
		}

		mon.IncConnectedPlayers()
		defer mon.DecConnectedPlayers()
		defer func() { send(rm, room.Leave{ConnID: connID}) }()

		log.Info("player seated",
			zap.String("room", rm.ID()),
			zap.Int("player", res.PlayerIndex))

		write(r.Context(), conn, types.ServerMessage{
			Type:        "assignment",
			PlayerIndex: res.PlayerIndex,
			RoomID:      rm.ID(),
		})

		// Writer goroutine: the room closes out when this seat is vacated,
		// which ends the range.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for u := range out {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				write(ctx, conn, toServerMessage(u))
				cancel()
			}
			// Seat vacated (drop or shutdown): close the connection so the
			// reader unblocks and the client learns it lost its seat rather
			// than lingering unheard.
			conn.Close(websocket.StatusPolicyViolation, "dropped")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close/going-away is normal; either way the deferred
				// Leave vacates the seat.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				write(r.Context(), conn, types.ServerMessage{Type: "error", Error: "bad json"})
				continue
			}

			switch cm.Type {
			case "move":
				if cm.Move == nil {
					write(r.Context(), conn, types.ServerMessage{Type: "error", Error: "missing move"})
					continue
				}
				send(rm, room.Move{ConnID: connID, Line: *cm.Move})
			case "restart":
				send(rm, room.Restart{ConnID: connID})
			default:
				write(r.Context(), conn, types.ServerMessage{Type: "error", Error: "unknown type"})
			}
		}
	}
}

// tryJoin seats the connection, accounting for the room dying between the
// hub lookup and the join: a room whose seats all emptied stops its loop, so
// a bare receive on Reply could block forever.
func tryJoin(rm *room.Room, msg room.Join) (room.JoinResult, bool) {
	msg.Reply = make(chan room.JoinResult, 1)
	select {
	case rm.Inbox() <- msg:
	case <-rm.Done():
		return room.JoinResult{}, false
	}
	select {
	case res := <-msg.Reply:
		return res, true
	case <-rm.Done():
		// the reply may have raced the shutdown
		select {
		case res := <-msg.Reply:
			return res, true
		default:
			return room.JoinResult{}, false
		}
	}
}

// send delivers a message unless the room has already shut down; a dead
// room's inbox is never drained, so an unguarded send can wedge once its
// buffer fills.
func send(rm *room.Room, m room.Msg) {
	select {
	case rm.Inbox() <- m:
	case <-rm.Done():
	}
}

func toServerMessage(u room.Update) types.ServerMessage {
	msg := types.ServerMessage{
		Version: u.Version,
		State:   &u.State,
	}
	switch u.Kind {
	case room.UpdatePeerLeft:
		msg.Type = "peer_left"
	default:
		msg.Type = "state"
	}
	return msg
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
