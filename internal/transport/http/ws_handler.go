package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-rounds/internal/app"
	"trivia-rounds/internal/logging"
)

// WSHandler streams the board to presentation clients and accepts the
// in-question commands a question screen sends.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
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

type completePayload struct {
	Question    int  `json:"question"`
	AnswerIndex int  `json:"answerIndex"`
	Correct     bool `json:"correct"`
}

type revertPayload struct {
	PlayerID string `json:"playerId"`
	Question int    `json:"question"`
}

type currentPlayerPayload struct {
	PlayerID string `json:"playerId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes a "board" message after every change.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logging.Log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "board", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r.Context(), inbound); err != nil {
			logging.Log.WithError(err).WithField("type", inbound.Type).Warn("ws command rejected")
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch applies one inbound command; the resulting board reaches the client
// through its subscription.
func (h *WSHandler) dispatch(ctx context.Context, msg inboundMessage) error {
	switch msg.Type {
	case "complete":
		var p completePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errInvalidPayload
		}
		return h.service.MarkQuestionCompleted(ctx, p.Question, p.AnswerIndex, p.Correct)
	case "revert":
		var p revertPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errInvalidPayload
		}
		return h.service.RevertQuestion(ctx, p.PlayerID, p.Question)
	case "setCurrentPlayer":
		var p currentPlayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errInvalidPayload
		}
		return h.service.SetCurrentPlayer(ctx, p.PlayerID)
	default:
		return errUnsupportedMessage
	}
}
