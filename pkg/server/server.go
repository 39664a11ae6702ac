// Package server exposes Monkey sessions over HTTP.
package server

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/oarkflow/json"
	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey"
	"github.com/oarkflow/monkey/pkg/transcript"
)

type Config struct {
	Version     string
	SessionTTL  time.Duration
	MaxSessions int
	Transcript  *transcript.Writer
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

type Server struct {
	app      *fiber.App
	engine   *monkey.Engine
	config   Config
	logger   *log.Logger
	mu       sync.Mutex
	sessions map[string]*monkey.Session
	done     chan struct{}
	stopOnce sync.Once
}

type SourceRequest struct {
	Source string `json:"source"`
}

type SessionResponse struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
}

type EvalResponse struct {
	monkey.Result
	Error string `json:"error,omitempty"`
}

type TokenResponse struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

type ParseResponse struct {
	Program    string   `json:"program"`
	Statements []string `json:"statements"`
}

func NewServer(engine *monkey.Engine, cfg Config) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder: func(v any) ([]byte, error) {
			return json.Marshal(v)
		},
		JSONDecoder: func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := &Server{
		app:      app,
		engine:   engine,
		config:   cfg,
		logger:   engine.Logger(),
		sessions: make(map[string]*monkey.Session),
		done:     make(chan struct{}),
	}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(cors.New())
	if s.config.AccessLog {
		s.app.Use(logger.New())
	}

	s.app.Get("/health", s.healthHandler)

	s.app.Post("/tokenize", s.tokenizeHandler)
	s.app.Post("/parse", s.parseHandler)

	s.app.Post("/sessions", s.createSessionHandler)
	s.app.Delete("/sessions/:id", s.deleteSessionHandler)
	s.app.Post("/sessions/:id/eval", s.evalHandler)
	s.app.Get("/sessions/:id/bindings", s.bindingsHandler)
}

func (s *Server) healthHandler(c *fiber.Ctx) error {
	s.mu.Lock()
	count := len(s.sessions)
	s.mu.Unlock()
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   s.config.Version,
		"sessions":  count,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func parseSource(c *fiber.Ctx) (string, error) {
	var req SourceRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Source) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "source cannot be empty")
	}
	return req.Source, nil
}

func (s *Server) tokenizeHandler(c *fiber.Ctx) error {
	source, err := parseSource(c)
	if err != nil {
		return err
	}
	tokens := monkey.Tokenize(source)
	resp := make([]TokenResponse, 0, len(tokens))
	for _, tok := range tokens {
		resp = append(resp, TokenResponse{
			Type:    tok.Type.String(),
			Literal: tok.Literal,
			Line:    tok.Line,
			Column:  tok.Column,
		})
	}
	return c.JSON(resp)
}

func (s *Server) parseHandler(c *fiber.Ctx) error {
	source, err := parseSource(c)
	if err != nil {
		return err
	}
	program, err := s.engine.Parse(source)
	if err != nil {
		return parseFailure(c, err)
	}
	resp := ParseResponse{Program: program.String(), Statements: make([]string, 0, len(program.Statements))}
	for _, stmt := range program.Statements {
		resp.Statements = append(resp.Statements, stmt.String())
	}
	return c.JSON(resp)
}

func parseFailure(c *fiber.Ctx, err error) error {
	var perr *monkey.ParseError
	if !errors.As(err, &perr) {
		return err
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "parse errors",
		"errors": perr.Messages,
	})
}

func (s *Server) createSessionHandler(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.MaxSessions > 0 && len(s.sessions) >= s.config.MaxSessions {
		s.reapLocked(time.Now())
		if len(s.sessions) >= s.config.MaxSessions {
			return fiber.NewError(fiber.StatusServiceUnavailable, "session limit reached")
		}
	}

	session := s.engine.NewSession()
	s.sessions[session.ID] = session
	s.logger.Info().Str("session", session.ID).Int("sessions", len(s.sessions)).Msg("session opened")
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{ID: session.ID, Created: session.Created})
}

func (s *Server) deleteSessionHandler(c *fiber.Ctx) error {
	id := c.Params("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	s.logger.Info().Str("session", id).Msg("session closed")
	return c.SendStatus(fiber.StatusNoContent)
}

// session returns the live session with id. An expired session is dropped
// and reported as missing.
func (s *Server) session(id string) (*monkey.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if ok && s.expired(session, time.Now()) {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return session, nil
}

func (s *Server) evalHandler(c *fiber.Ctx) error {
	session, err := s.session(c.Params("id"))
	if err != nil {
		return err
	}
	source, err := parseSource(c)
	if err != nil {
		return err
	}

	result, err := session.Eval(c.UserContext(), source)
	s.record(session.ID, source, result, err)

	var perr *monkey.ParseError
	var rerr *monkey.RuntimeError
	switch {
	case errors.As(err, &perr):
		return parseFailure(c, err)
	case errors.As(err, &rerr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(EvalResponse{Result: result, Error: rerr.Message})
	case err != nil:
		return err
	}
	return c.JSON(EvalResponse{Result: result})
}

func (s *Server) bindingsHandler(c *fiber.Ctx) error {
	session, err := s.session(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session.Bindings())
}

func (s *Server) record(sessionID, source string, result monkey.Result, err error) {
	if s.config.Transcript == nil {
		return
	}
	entry := transcript.Entry{
		Session:  sessionID,
		Source:   source,
		Type:     result.Type,
		Result:   result.Inspect,
		Duration: result.Duration,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if werr := s.config.Transcript.Append(entry); werr != nil {
		s.logger.Error().Err(werr).Str("path", s.config.Transcript.Path()).Msg("failed to write transcript")
	}
}

func (s *Server) expired(session *monkey.Session, now time.Time) bool {
	return s.config.SessionTTL > 0 && now.Sub(session.LastUsed()) > s.config.SessionTTL
}

// Reap drops every session idle for longer than the configured TTL and
// returns how many were removed.
func (s *Server) Reap(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reapLocked(now)
}

func (s *Server) reapLocked(now time.Time) int {
	removed := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Int("sessions", len(s.sessions)).Msg("reaped idle sessions")
	}
	return removed
}

func (s *Server) reapLoop() {
	interval := s.config.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.Reap(now)
		}
	}
}

func (s *Server) Start(addr string) error {
	if s.config.SessionTTL > 0 {
		go s.reapLoop()
	}
	s.logger.Info().Str("addr", addr).Str("version", s.config.Version).Msg("starting monkey server")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.logger.Info().Msg("shutting down monkey server")
	return s.app.Shutdown()
}
