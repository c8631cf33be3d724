package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"trivia-rounds/internal/game"
	"trivia-rounds/internal/infra/memory"
)

func TestWebSocketCompletionFlow(t *testing.T) {
	service, router := setupRouter(t, memory.NewStateStore(), 10)
	id, err := service.AddPlayer(context.Background(), "Alice", "", "01")
	if err != nil {
		t.Fatalf("add player: %v", err)
	}

	server := httptest.NewServer(router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current board first.
	board := readBoard(t, conn)
	if len(board.Rankings) != 1 || board.CurrentPlayer != nil {
		t.Fatalf("unexpected initial board %+v", board)
	}

	send(t, conn, "setCurrentPlayer", map[string]any{"playerId": id})
	board = readBoard(t, conn)
	if board.CurrentPlayer == nil || board.CurrentPlayer.ID != id {
		t.Fatalf("expected Alice to be acting, got %+v", board.CurrentPlayer)
	}

	send(t, conn, "complete", map[string]any{"question": 4, "answerIndex": 2, "correct": true})
	board = readBoard(t, conn)
	if board.CurrentPlayer == nil || board.CurrentPlayer.Score != 10 {
		t.Fatalf("expected score 10, got %+v", board.CurrentPlayer)
	}
	for _, q := range board.Available {
		if q == 4 {
			t.Fatalf("question 4 should no longer be available")
		}
	}

	send(t, conn, "revert", map[string]any{"playerId": id, "question": 4})
	board = readBoard(t, conn)
	if board.CurrentPlayer.Score != 0 || len(board.CurrentRoundCompleted) != 1 {
		t.Fatalf("expected reverted score with question still spent, got %+v", board)
	}
}

func TestWebSocketRejectsUnknownCommands(t *testing.T) {
	_, router := setupRouter(t, memory.NewStateStore(), 10)
	server := httptest.NewServer(router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readBoard(t, conn)

	send(t, conn, "shout", map[string]any{})
	typ, payload := readNext(t, conn)
	if typ != "error" {
		t.Fatalf("expected error, got %s", typ)
	}
	var e errorPayload
	if err := json.Unmarshal(payload, &e); err != nil || e.Message != errUnsupportedMessage.Error() {
		t.Fatalf("unexpected error payload %s", payload)
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

func readBoard(t *testing.T, conn *websocket.Conn) game.Board {
	t.Helper()
	typ, payload := readNext(t, conn)
	if typ != "board" {
		t.Fatalf("expected board, got %s: %s", typ, payload)
	}
	var b game.Board
	if err := json.Unmarshal(payload, &b); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	return b
}
