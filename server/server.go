// Package server exposes the question answering pipeline over HTTP and
// WebSocket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
	"github.com/Sundramrai3691/Farm-Guru/pkg/answer"
	"github.com/Sundramrai3691/Farm-Guru/pkg/llm"
	"github.com/Sundramrai3691/Farm-Guru/pkg/retriever"
	"github.com/Sundramrai3691/Farm-Guru/pkg/store"
)

type Config struct {
	Port     int
	DemoMode bool
}

type Server struct {
	config      Config
	retriever   *retriever.Retriever
	synthesizer *llm.Synthesizer
	store       *store.Store
	logger      *zap.Logger
	upgrader    websocket.Upgrader
}

// New wires the pipeline components into a server. store may be nil; the
// history, analytics, and seed endpoints then report the store as
// unavailable, and image lookups are skipped.
func New(config Config, ret *retriever.Retriever, syn *llm.Synthesizer, st *store.Store, log *zap.Logger) *Server {
	if config.Port == 0 {
		config.Port = 8000
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{
		config:      config,
		retriever:   ret,
		synthesizer: syn,
		store:       st,
		logger:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Run() error {
	e := s.router()
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("starting server", zap.String("addr", addr))
	return e.Start(addr)
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.HTTPErrorHandler = s.errorHandler

	e.GET("/", s.handleRoot)
	e.GET("/api/health", s.handleHealth)
	e.POST("/api/query", s.handleQuery)
	e.GET("/api/query/history", s.handleHistory)
	e.POST("/api/analytics", s.handleAnalytics)
	e.POST("/api/seed", s.handleSeed)
	e.GET("/ws", s.handleWebSocket)

	return e
}

func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	s.logger.Error("request failed",
		zap.String("path", c.Request().URL.Path),
		zap.Int("status", code),
		zap.Error(err))
	if !c.Response().Committed {
		c.JSON(code, map[string]string{"error": message})
	}
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":    "Farm-Guru",
		"message": "Agricultural question answering service",
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	status := map[string]interface{}{
		"status":    "healthy",
		"demo_mode": s.config.DemoMode,
	}
	if s.store != nil {
		if err := s.store.Ping(c.Request().Context()); err != nil {
			status["database"] = "unreachable"
		} else {
			status["database"] = "connected"
		}
	} else {
		status["database"] = "disabled"
	}
	return c.JSON(http.StatusOK, status)
}

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
	Lang    string `json:"lang"`
	ImageID string `json:"image_id"`
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query text is required")
	}
	if req.Lang == "" {
		req.Lang = "en"
	}

	resp := s.answer(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}

// answer runs the full pipeline for one query. It always produces a
// normalized response; a panic anywhere inside degrades to the static
// emergency answer.
func (s *Server) answer(ctx context.Context, req QueryRequest) (resp models.AnswerResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pipeline panic", zap.Any("panic", r))
			resp = answer.Normalize(answer.Emergency(req.Lang))
		}
	}()

	visualContext := ""
	if req.ImageID != "" && s.store != nil {
		label, err := s.store.GetImageLabel(ctx, req.ImageID)
		if err != nil {
			s.logger.Warn("image lookup failed", zap.String("image_id", req.ImageID), zap.Error(err))
		} else if label != "" {
			visualContext = "Image shows: " + label
		}
	}

	docs := s.retriever.Retrieve(ctx, req.Text, 3)
	resp = s.synthesizer.Synthesize(ctx, req.Text, docs, visualContext)
	if strings.TrimSpace(resp.Answer) == "" {
		resp = llm.LocalizedFallback(req.Text, req.Lang, visualContext)
	}
	resp = answer.Normalize(resp)

	if s.store != nil {
		id, err := s.store.InsertQuery(ctx, req.UserID, req.Text, resp)
		if err != nil {
			s.logger.Warn("failed to record query", zap.Error(err))
		} else {
			resp.Meta["query_id"] = id
		}
	}
	return resp
}

// handleHistory degrades like the rest of the pipeline: no store or a
// store error yields an empty list, never an error status.
func (s *Server) handleHistory(c echo.Context) error {
	records := []store.QueryRecord{}
	if s.store != nil {
		got, err := s.store.QueryHistory(c.Request().Context(), c.QueryParam("user_id"), 20)
		if err != nil {
			s.logger.Warn("failed to load history", zap.Error(err))
		} else if got != nil {
			records = got
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"queries": records})
}

func (s *Server) handleAnalytics(c echo.Context) error {
	var event map[string]interface{}
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event body")
	}
	s.logger.Info("analytics event", zap.Any("event", event), zap.Time("received_at", time.Now()))
	return c.JSON(http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleSeed(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "seeding requires a database")
	}
	inserted, err := s.store.Seed(c.Request().Context(), retriever.DefaultKnowledgeBase(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "seeding failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"inserted": inserted})
}

type wsQuery struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// handleWebSocket answers one query per incoming message until the client
// disconnects.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		var q wsQuery
		if err := conn.ReadJSON(&q); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", zap.Error(err))
			}
			return nil
		}
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if q.Lang == "" {
			q.Lang = "en"
		}

		resp := s.answer(c.Request().Context(), QueryRequest{Text: q.Text, Lang: q.Lang})
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write failed", zap.Error(err))
			return nil
		}
	}
}
