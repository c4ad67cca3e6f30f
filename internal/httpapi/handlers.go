package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PranavOak12/dotsandboxes/internal/game"
	"github.com/PranavOak12/dotsandboxes/internal/hub"
	"github.com/PranavOak12/dotsandboxes/internal/room"
)

func CreateRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			RoomID string `json:"room_id"`
		}{RoomID: rm.ID()})
	}
}

// RoomState is a read-only snapshot lookup. Unlike joining, it never creates
// a room: an unknown id is a 404.
func RoomState(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: id, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "unknown room", http.StatusNotFound)
			return
		}

		viewReply := make(chan room.View, 1)
		rm.Inbox() <- room.GetState{Reply: viewReply}

		// The room may have emptied and shut down between the lookup and the
		// query; don't hang on its inbox forever.
		select {
		case v := <-viewReply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(struct {
				RoomID  string     `json:"room_id"`
				Version int        `json:"version"`
				State   game.State `json:"state"`
			}{RoomID: id, Version: v.Version, State: v.State})
		case <-time.After(2 * time.Second):
			http.Error(w, "unknown room", http.StatusNotFound)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
