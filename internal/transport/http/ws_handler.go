package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"livequiz-service/internal/app"
	"livequiz-service/internal/domain"
)

// Subscriber hands out per-recipient snapshot streams; the in-process
// hub satisfies it.
type Subscriber interface {
	Subscribe(gameID string, recipients ...app.Recipient) (<-chan domain.Snapshot, func())
}

type WSHandler struct {
	service  *app.GameService
	hub      Subscriber
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub Subscriber) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Option     int    `json:"option"`
}

type joinedPayload struct {
	PlayerID string `json:"playerId"`
}

type answerResultPayload struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
	Awarded    int    `json:"awarded"`
	Total      int    `json:"total"`
}

type transitionPayload struct {
	Uniform bool `json:"uniform"`
}

type rejectedPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// game use cases. Host connections (valid hostKey) receive host
// snapshots; player connections receive the shared broadcast plus their
// own per-player stream once joined.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	viewer := domain.Identity{
		UserID:  r.URL.Query().Get("userId"),
		AnonID:  r.URL.Query().Get("anonId"),
		HostKey: r.URL.Query().Get("hostKey"),
		Name:    r.URL.Query().Get("name"),
	}
	if gameID == "" || (viewer.UserID == "" && viewer.AnonID == "" && viewer.HostKey == "") {
		http.Error(w, "missing gameId or identity", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwards sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	isHost := h.service.IsHost(viewer)
	playerID, _ := h.service.ResolvePlayer(ctx, gameID, viewer)

	var cancels []func()
	subscribe := func(recipients ...app.Recipient) {
		updates, cancel := h.hub.Subscribe(gameID, recipients...)
		cancels = append(cancels, cancel)
		forwards.Add(1)
		go func() {
			defer forwards.Done()
			for {
				select {
				case snap, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- outboundMessage[domain.Snapshot]{Type: "state", Payload: snap}:
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
	}

	if isHost {
		subscribe(app.Recipient{Scope: app.ScopeHost})
	} else if playerID != "" {
		subscribe(app.Recipient{Scope: app.ScopePlayers}, app.Recipient{Scope: app.ScopePlayer, PlayerID: playerID})
	} else {
		subscribe(app.Recipient{Scope: app.ScopePlayers})
	}

	h.pushState(ctx, send, gameID, viewer)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "state":
			h.pushState(ctx, send, gameID, viewer)

		case "join":
			var payload joinPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid join payload"}}
				continue
			}
			res, err := h.service.Join(ctx, gameID, viewer, payload.Name)
			if err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if !res.Accepted {
				send <- outboundMessage[rejectedPayload]{Type: "rejected", Payload: rejectedPayload{Action: "join", Reason: string(res.Reason)}}
				continue
			}
			playerID = res.PlayerID
			subscribe(app.Recipient{Scope: app.ScopePlayer, PlayerID: playerID})
			send <- outboundMessage[joinedPayload]{Type: "joined", Payload: joinedPayload{PlayerID: playerID}}
			h.pushState(ctx, send, gameID, viewer)

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if playerID == "" {
				send <- outboundMessage[rejectedPayload]{Type: "rejected", Payload: rejectedPayload{Action: "answer", Reason: string(domain.RejectNotJoined)}}
				continue
			}
			res, err := h.service.SubmitAnswer(ctx, gameID, playerID, payload.QuestionID, payload.Option)
			if err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if !res.Accepted {
				send <- outboundMessage[rejectedPayload]{Type: "rejected", Payload: rejectedPayload{Action: "answer", Reason: string(res.Reason)}}
				continue
			}
			send <- outboundMessage[answerResultPayload]{Type: "answerResult", Payload: answerResultPayload{
				QuestionID: payload.QuestionID,
				Correct:    res.Correct,
				Awarded:    res.Awarded,
				Total:      res.Total,
			}}

		case "advance":
			res, err := h.service.Advance(ctx, gameID, viewer)
			if errors.Is(err, domain.ErrNotAllowed) {
				send <- outboundMessage[rejectedPayload]{Type: "rejected", Payload: rejectedPayload{Action: "advance", Reason: string(domain.RejectNotAllowed)}}
				continue
			}
			if err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[transitionPayload]{Type: "transition", Payload: transitionPayload{Uniform: res.Uniform}}

		case "reset":
			err := h.service.Reset(ctx, gameID, viewer, nil)
			if errors.Is(err, domain.ErrNotAllowed) {
				send <- outboundMessage[rejectedPayload]{Type: "rejected", Payload: rejectedPayload{Action: "reset", Reason: string(domain.RejectNotAllowed)}}
				continue
			}
			if err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			playerID = ""
			h.pushState(ctx, send, gameID, viewer)

		default:
			send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	for _, cancel := range cancels {
		cancel()
	}
	forwards.Wait()
	close(send)
	<-writerDone
}

func (h *WSHandler) pushState(ctx context.Context, send chan<- any, gameID string, viewer domain.Identity) {
	snap, err := h.service.GetState(ctx, gameID, viewer)
	if err != nil {
		send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return
	}
	send <- outboundMessage[domain.Snapshot]{Type: "state", Payload: snap}
}
