package sysmon

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SystemReader is the sampling surface the HTTP wrapper depends on.
type SystemReader interface {
	Collect(ctx context.Context) (Snapshot, error)
	TopProcesses(ctx context.Context, n int) ([]ProcessInfo, error)
}

// Server exposes live counters as JSON.
type Server struct {
	reader       SystemReader
	topProcesses int
	echo         *echo.Echo
}

// NewServer wires the HTTP routes over reader.
func NewServer(reader SystemReader, topProcesses int) *Server {
	if topProcesses <= 0 {
		topProcesses = 5
	}

	e := echo.New()
	e.HideBanner = true

	s := &Server{
		reader:       reader,
		topProcesses: topProcesses,
		echo:         e,
	}

	e.GET("/", s.handleHome)
	e.GET("/api/system", s.handleSystem)
	e.GET("/api/processes", s.handleProcesses)

	return s
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) handleHome(c echo.Context) error {
	return c.String(http.StatusOK, "System Monitoring API is running. Endpoints: /api/system , /api/processes")
}

func (s *Server) handleSystem(c echo.Context) error {
	snap, err := s.reader.Collect(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("collect system snapshot")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sample system counters")
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) handleProcesses(c echo.Context) error {
	procs, err := s.reader.TopProcesses(c.Request().Context(), s.topProcesses)
	if err != nil {
		log.Error().Err(err).Msg("list top processes")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list processes")
	}
	return c.JSON(http.StatusOK, procs)
}
