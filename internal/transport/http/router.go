package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trivia-rounds/internal/app"
	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/logging"
)

type addPlayerRequest struct {
	Name         string `json:"name" binding:"required"`
	ProfileImage string `json:"profileImage"`
	Affiliation  string `json:"affiliation"`
}

type currentPlayerRequest struct {
	PlayerID *string `json:"playerId"`
}

type completeRequest struct {
	AnswerIndex int  `json:"answerIndex"`
	Correct     bool `json:"correct"`
}

type startRoundRequest struct {
	PlayerIDs []string `json:"playerIds"`
}

type questionTypeRequest struct {
	Type domain.QuestionType `json:"type" binding:"required"`
}

type questionStatus struct {
	Number             int  `json:"number"`
	Completed          bool `json:"completed"`
	TieBreaker         bool `json:"tieBreaker"`
	CorrectAnswerIndex *int `json:"correctAnswerIndex"`
}

// Handler exposes the game operations as JSON endpoints.
type Handler struct {
	service *app.GameService
}

// NewRouter wires REST endpoints and the websocket board stream.
func NewRouter(service *app.GameService) *gin.Engine {
	h := &Handler{service: service}
	ws := NewWSHandler(service)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/ws", gin.WrapF(ws.ServeWS))

	api := r.Group("/api")
	api.GET("/board", h.board)
	api.POST("/reset", h.resetGame)
	api.PUT("/question-type", h.setQuestionType)

	api.GET("/players", h.rankings)
	api.POST("/players", h.addPlayer)
	api.GET("/players/:id", h.player)
	api.DELETE("/players/:id", h.removePlayer)
	api.GET("/players/:id/questions/:number", h.playerQuestion)
	api.POST("/players/:id/questions/:number/revert", h.revert)

	api.GET("/current-player", h.currentPlayer)
	api.PUT("/current-player", h.setCurrentPlayer)

	api.GET("/quota", h.quota)
	api.GET("/questions/available", h.available)
	api.GET("/questions/completed", h.completed)
	api.GET("/questions/:number", h.question)
	api.POST("/questions/:number/complete", h.complete)

	api.GET("/rounds/:round/players", h.roundPlayers)
	api.GET("/rounds/:round/candidates", h.candidates)
	api.POST("/rounds/:round/start", h.startRound)
	api.POST("/rounds/:round/switch", h.switchRound)
	api.POST("/rounds/:round/reset", h.resetRound)
	api.PUT("/rounds/:round/selection/:id", h.selectPlayer)
	api.DELETE("/rounds/:round/selection/:id", h.deselectPlayer)

	return r
}

func (h *Handler) board(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Board())
}

func (h *Handler) resetGame(c *gin.Context) {
	h.respond(c, h.service.ResetGame(c.Request.Context()))
}

func (h *Handler) setQuestionType(c *gin.Context) {
	var req questionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.service.SetActiveQuestionType(c.Request.Context(), req.Type))
}

func (h *Handler) rankings(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.PlayerRankings())
}

func (h *Handler) addPlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.service.AddPlayer(c.Request.Context(), req.Name, req.ProfileImage, req.Affiliation)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) player(c *gin.Context) {
	status, ok := h.service.PlayerStatus(c.Param("id"))
	if !ok {
		writeError(c, domain.ErrPlayerNotFound)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) removePlayer(c *gin.Context) {
	h.respond(c, h.service.RemovePlayer(c.Request.Context(), c.Param("id")))
}

func (h *Handler) playerQuestion(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completed": h.service.IsQuestionCompletedByPlayer(c.Param("id"), number),
	})
}

func (h *Handler) revert(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	h.respond(c, h.service.RevertQuestion(c.Request.Context(), c.Param("id"), number))
}

func (h *Handler) currentPlayer(c *gin.Context) {
	p, ok := h.service.CurrentPlayer()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"player": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p})
}

func (h *Handler) setCurrentPlayer(c *gin.Context) {
	var req currentPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := ""
	if req.PlayerID != nil {
		id = *req.PlayerID
	}
	h.respond(c, h.service.SetCurrentPlayer(c.Request.Context(), id))
}

func (h *Handler) quota(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"maxQuestionsPerPlayer": h.service.MaxQuestionsPerPlayer()})
}

func (h *Handler) available(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.AvailableQuestionsForCurrentPlayer())
}

func (h *Handler) completed(c *gin.Context) {
	if c.Query("scope") == "round" {
		c.JSON(http.StatusOK, h.service.CurrentRoundCompletedNumbers())
		return
	}
	c.JSON(http.StatusOK, h.service.AllCompletedNumbers())
}

func (h *Handler) question(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	status := questionStatus{
		Number:     number,
		Completed:  h.service.IsQuestionCompleted(number),
		TieBreaker: h.service.IsTieBreakerQuestion(number),
	}
	if idx, ok := h.service.CorrectAnswerIndex(number); ok {
		status.CorrectAnswerIndex = &idx
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) complete(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.service.MarkQuestionCompleted(c.Request.Context(), number, req.AnswerIndex, req.Correct))
}

func (h *Handler) roundPlayers(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.RoundPlayers(round))
}

func (h *Handler) candidates(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.SelectionCandidates(round))
}

func (h *Handler) startRound(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	var req startRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.service.StartRound(c.Request.Context(), round, req.PlayerIDs))
}

func (h *Handler) switchRound(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	h.respond(c, h.service.SwitchToRound(c.Request.Context(), round))
}

func (h *Handler) resetRound(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	h.respond(c, h.service.ResetRound(c.Request.Context(), round))
}

func (h *Handler) selectPlayer(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	h.respond(c, h.service.AddToSelection(c.Request.Context(), round, c.Param("id")))
}

func (h *Handler) deselectPlayer(c *gin.Context) {
	round, ok := roundParam(c)
	if !ok {
		return
	}
	h.respond(c, h.service.RemoveFromSelection(c.Request.Context(), round, c.Param("id")))
}

// respond answers a mutation with the updated board or the mapped error.
func (h *Handler) respond(c *gin.Context, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.service.Board())
}

func writeError(c *gin.Context, err error) {
	var perr *domain.PersistenceError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &perr):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPrecondition):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func roundParam(c *gin.Context) (domain.Round, bool) {
	v, ok := intParam(c, "round")
	if !ok {
		return 0, false
	}
	return domain.Round(v), true
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	}
}
