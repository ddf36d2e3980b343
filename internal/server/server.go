// Package server hosts the prediction endpoint the client talks to.
package server

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/diogo/askweb/internal/inference"
	"github.com/diogo/askweb/internal/models"
)

// Response messages
const (
	MessageRunning        = "Arabic Law LLM Inference API is running!"
	MessageModelNotLoaded = "Model not loaded. Please wait for startup or check logs."
	MessageInferenceError = "An error occurred during inference: "
	MessageInvalidBody    = "request body must be JSON with a question field"
)

// readyTimeout bounds the readiness probe made before each generation
const readyTimeout = 5 * time.Second

// Server serves the predict API on top of a Generator
type Server struct {
	app *fiber.App
	gen inference.Generator
	cfg Config
	log *log.Logger
}

// Option configures a Server
type Option func(*serverOptions)

type serverOptions struct {
	logOutput io.Writer
}

// WithLogOutput sends access and lifecycle logs to w
func WithLogOutput(w io.Writer) Option {
	return func(o *serverOptions) {
		o.logOutput = w
	}
}

// New builds the fiber app and registers its routes
func New(gen inference.Generator, cfg Config, opts ...Option) *Server {
	o := serverOptions{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	app := fiber.New(fiber.Config{
		AppName:               "askweb",
		DisableStartupMessage: true,
	})

	s := &Server{
		app: app,
		gen: gen,
		cfg: cfg,
		log: log.New(o.logOutput, "", log.LstdFlags),
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: o.logOutput,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "*",
	}))

	s.register()
	return s
}

func (s *Server) register() {
	s.app.Get(models.PathHealth, s.handleRoot)
	s.app.Get("/ready", s.handleReady)
	s.app.Post(models.PathPredict, s.handlePredict)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the app is shut down
func (s *Server) Listen() error {
	s.log.Printf("HTTP server listening on %s", s.cfg.Addr())
	return s.app.Listen(s.cfg.Addr())
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Run listens until ctx is cancelled, then shuts the server down
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
