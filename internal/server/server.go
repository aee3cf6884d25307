package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordcard/internal/session"
)

// SessionCookie holds the session ID
const SessionCookie = "wordcard_session"

const (
	sessionKey   = "session"
	loggedOutKey = "logged_out"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"join": func(words []string) string { return strings.Join(words, ", ") },
}).ParseFS(templateFS, "templates/index.html"))

// Config wires the server
type Config struct {
	Controller *session.Controller
	Sessions   *session.Store
	Logger     *zap.Logger
}

// Server is the HTTP front end
type Server struct {
	app      *fiber.App
	ctrl     *session.Controller
	sessions *session.Store
	logger   *zap.Logger
}

// New creates the server and registers all routes
func New(cfg Config) *Server {
	s := &Server{
		ctrl:     cfg.Controller,
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
	}
	if s.sessions == nil {
		s.sessions = session.NewStore(session.DefaultTTL, session.DefaultCleanup)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "wordcard",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		// Generation requests can take a while
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: s.errorHandler,
		// Form values end up in sessions that outlive the request
		Immutable: true,
	})

	s.app.Use(otelfiber.Middleware())
	s.app.Use(s.requestLogger)

	s.app.Get("/healthz", s.healthz)

	app := s.app.Group("/", s.loadSession)
	app.Get("/", s.index)
	app.Post("/identity", s.setIdentity)
	app.Post("/words", s.submitWords)
	app.Post("/clear", s.clear)
	app.Post("/logout", s.logout)
	app.Get("/preview", s.preview)
	app.Get("/download", s.download)
	app.Get("/anki", s.ankiExport)
	app.Get("/history", s.history)

	return s
}

// App returns the fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("Server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for running ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// loadSession attaches the caller's session and saves it afterwards
func (s *Server) loadSession(c *fiber.Ctx) error {
	sess := s.sessions.Get(c.Cookies(SessionCookie))
	c.Locals(sessionKey, sess)

	err := c.Next()

	if out, _ := c.Locals(loggedOutKey).(bool); out {
		c.ClearCookie(SessionCookie)
		return err
	}
	s.sessions.Save(sess)
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return err
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Debug("HTTP request", fields...)
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

func sessionOf(c *fiber.Ctx) *session.Session {
	return c.Locals(sessionKey).(*session.Session)
}
