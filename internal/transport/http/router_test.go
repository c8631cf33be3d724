package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-rounds/internal/app"
	"trivia-rounds/internal/game"
	"trivia-rounds/internal/infra/memory"
)

func setupRouter(t *testing.T, store app.StateRepository, total int) (*app.GameService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	n := 0
	state := game.NewWithIDSource(total, func() string {
		n++
		return fmt.Sprintf("p%d", n)
	})
	service := app.NewGameServiceWithState(store, state)
	return service, NewRouter(service)
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	reqBody := &bytes.Buffer{}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic("failed to marshal request body: " + err.Error())
		}
		reqBody = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func addPlayer(t *testing.T, router *gin.Engine, name string) string {
	t.Helper()
	res := performRequest(router, http.MethodPost, "/api/players", map[string]string{"name": name, "affiliation": "01"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	return out.ID
}

func TestQuestionFlowOverHTTP(t *testing.T) {
	_, router := setupRouter(t, memory.NewStateStore(), 10)

	p1 := addPlayer(t, router, "Alice")
	addPlayer(t, router, "Bob")
	addPlayer(t, router, "Carol")

	res := performRequest(router, http.MethodPut, "/api/current-player", map[string]string{"playerId": p1})
	require.Equal(t, http.StatusOK, res.Code)

	for _, q := range []int{1, 2, 3} {
		res = performRequest(router, http.MethodPost, fmt.Sprintf("/api/questions/%d/complete", q), map[string]any{"answerIndex": 0, "correct": true})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	}

	var board game.Board
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &board))
	require.NotNil(t, board.CurrentPlayer)
	assert.Equal(t, 30, board.CurrentPlayer.Score)
	assert.Equal(t, []int{10}, board.Available)
	assert.Equal(t, []int{10}, board.TieBreakers)

	res = performRequest(router, http.MethodGet, "/api/players/"+p1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var status app.PlayerStatus
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &status))
	assert.True(t, status.ReachedMaxQuestions)
	assert.Equal(t, 3, status.MaxQuestions)

	res = performRequest(router, http.MethodGet, "/api/questions/2", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var question questionStatus
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &question))
	assert.True(t, question.Completed)
	require.NotNil(t, question.CorrectAnswerIndex)
	assert.Equal(t, 0, *question.CorrectAnswerIndex)
}

func TestRevertOverHTTP(t *testing.T) {
	service, router := setupRouter(t, memory.NewStateStore(), 10)
	p1 := addPlayer(t, router, "Alice")
	performRequest(router, http.MethodPut, "/api/current-player", map[string]string{"playerId": p1})
	performRequest(router, http.MethodPost, "/api/questions/5/complete", map[string]any{"answerIndex": 1, "correct": true})

	res := performRequest(router, http.MethodPost, "/api/players/"+p1+"/questions/5/revert", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	p, ok := service.Player(p1)
	require.True(t, ok)
	assert.Equal(t, 0, p.Score)
	assert.True(t, service.IsQuestionCompleted(5))

	res = performRequest(router, http.MethodPost, "/api/players/"+p1+"/questions/5/revert", nil)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = performRequest(router, http.MethodPost, "/api/players/ghost/questions/5/revert", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestRoundsOverHTTP(t *testing.T) {
	_, router := setupRouter(t, memory.NewStateStore(), 10)
	p1 := addPlayer(t, router, "Alice")
	addPlayer(t, router, "Bob")
	performRequest(router, http.MethodPut, "/api/current-player", map[string]string{"playerId": p1})
	performRequest(router, http.MethodPost, "/api/questions/5/complete", map[string]any{"answerIndex": 0, "correct": false})

	res := performRequest(router, http.MethodPost, "/api/rounds/3/start", map[string]any{"playerIds": []string{p1}})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = performRequest(router, http.MethodPost, "/api/rounds/2/start", map[string]any{"playerIds": []string{p1}})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = performRequest(router, http.MethodGet, "/api/rounds/1/players", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var roundOne []map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &roundOne))
	assert.Len(t, roundOne, 2)

	res = performRequest(router, http.MethodGet, "/api/questions/completed", nil)
	assert.JSONEq(t, `[5]`, res.Body.String())
	res = performRequest(router, http.MethodGet, "/api/questions/completed?scope=round", nil)
	assert.JSONEq(t, `[]`, res.Body.String())
	res = performRequest(router, http.MethodPost, "/api/questions/5/complete", map[string]any{"answerIndex": 0, "correct": true})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = performRequest(router, http.MethodPut, "/api/rounds/3/selection/"+p1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	res = performRequest(router, http.MethodGet, "/api/rounds/3/candidates", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var candidates []map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &candidates))
	assert.Len(t, candidates, 1)

	res = performRequest(router, http.MethodPost, "/api/rounds/1/switch", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var board game.Board
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &board))
	assert.EqualValues(t, 1, board.Round)

	res = performRequest(router, http.MethodPost, "/api/rounds/2/reset", nil)
	require.Equal(t, http.StatusOK, res.Code)
	res = performRequest(router, http.MethodPost, "/api/rounds/x/reset", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestValidationOverHTTP(t *testing.T) {
	_, router := setupRouter(t, memory.NewStateStore(), 10)

	res := performRequest(router, http.MethodPost, "/api/players", map[string]string{"affiliation": "01"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = performRequest(router, http.MethodPost, "/api/questions/11/complete", map[string]any{"answerIndex": 0})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = performRequest(router, http.MethodPut, "/api/question-type", map[string]string{"type": "essay"})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = performRequest(router, http.MethodDelete, "/api/players/ghost", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = performRequest(router, http.MethodGet, "/api/current-player", nil)
	assert.JSONEq(t, `{"player":null}`, res.Body.String())
}

func TestPersistenceFailureOverHTTP(t *testing.T) {
	_, router := setupRouter(t, failingStore{}, 10)

	res := performRequest(router, http.MethodPost, "/api/players", map[string]string{"name": "Alice"})
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)

	res = performRequest(router, http.MethodGet, "/api/players", nil)
	assert.JSONEq(t, `[]`, res.Body.String())
}

func TestResetOverHTTP(t *testing.T) {
	_, router := setupRouter(t, memory.NewStateStore(), 10)
	addPlayer(t, router, "Alice")

	res := performRequest(router, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var board game.Board
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &board))
	assert.Empty(t, board.Rankings)
}

type failingStore struct{}

func (failingStore) Load(context.Context) (*game.State, error) { return nil, errors.New("down") }
func (failingStore) Save(context.Context, *game.State) error     { return errors.New("down") }
func (failingStore) Delete(context.Context) error                { return errors.New("down") }
