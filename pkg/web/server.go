// Package web serves the optional browser preview: the annotated frames
// over a websocket and the current frame rates as JSON.
package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-posefuse/internal/log"
	"github.com/teslashibe/go-posefuse/pkg/hub"
	"github.com/teslashibe/go-posefuse/pkg/stats"
)

// DefaultStatsInterval is how often connected clients are sent a stats
// snapshot over the frames socket.
const DefaultStatsInterval = time.Second

// StatsSource provides the latest frame-rate snapshot.
type StatsSource interface {
	Snapshot() stats.Snapshot
}

// Server is the preview server.
type Server struct {
	app    *fiber.App
	addr   string
	runID  string
	stats  StatsSource
	frames *hub.Hub
	logger *slog.Logger

	statsInterval time.Duration

	hubCtx    context.Context
	cancelHub context.CancelFunc
}

// NewServer builds the fiber app. Nothing listens until Start.
func NewServer(addr, runID string, src StatsSource, logger *slog.Logger) *Server {
	logger = log.OrDiscard(logger).With("component", "web")

	s := &Server{
		addr:   addr,
		runID:  runID,
		stats:  src,
		frames: hub.New("frames", logger),
		logger: logger,

		statsInterval: DefaultStatsInterval,
	}
	s.hubCtx, s.cancelHub = context.WithCancel(context.Background())

	app := fiber.New(fiber.Config{
		AppName:               "posefuse preview",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/", s.handleIndex)
	app.Get("/api/stats", s.handleStats)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Frames returns the hub that preview frames are broadcast on.
func (s *Server) Frames() *hub.Hub {
	return s.frames
}

// Start runs the hub and listens on the configured address. It blocks
// until the server stops.
func (s *Server) Start() error {
	go s.frames.Run(s.hubCtx)
	go s.pushStats(s.hubCtx)

	s.logger.Info("preview listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync starts the server in a goroutine and logs a listen failure.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("preview server stopped", "error", err)
		}
	}()
}

// Shutdown stops the server and disconnects clients.
func (s *Server) Shutdown() error {
	s.cancelHub()
	return s.app.Shutdown()
}

// pushStats sends the current snapshot to every client as a text frame
// until ctx is cancelled.
func (s *Server) pushStats(ctx context.Context) {
	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.frames.ClientCount() == 0 {
				continue
			}
			if err := s.frames.BroadcastJSON(s.statsResponse()); err != nil {
				s.logger.Warn("encode stats", "error", err)
			}
		}
	}
}
