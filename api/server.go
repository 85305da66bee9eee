// Package api exposes the daemon-mode HTTP surface: health, status, and a
// manual scan trigger, plus the cron schedule for automated runs.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"electionwatch/orchestrator"
	"electionwatch/types"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server hosts the daemon API and the scan schedule. Runs are serialized: the
// pipeline holds no internal locks, so the server guarantees one run at a
// time and rejects or skips triggers while busy.
type Server struct {
	deps       orchestrator.Deps
	httpServer *http.Server
	cron       *cron.Cron
	cronID     cron.EntryID

	mu      sync.Mutex
	running bool
	lastRun *types.RunResult
	lastErr string
}

// NewServer creates the daemon server with registered routes.
func NewServer(deps orchestrator.Deps, port string) *Server {
	s := &Server{
		deps: deps,
		cron: cron.New(),
	}

	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/status", s.handleStatus)
	r.POST("/api/scan", s.handleScan)

	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting monitor server on %s", s.httpServer.Addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	return nil
}

// StartCron schedules automated scans.
func (s *Server) StartCron(schedule string) error {
	id, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron triggered: starting scheduled scan")
		if !s.tryRun() {
			log.Println("Cron skipped: a scan is already in progress")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cronID = id
	s.cron.Start()
	log.Printf("Cron started with schedule: %s", schedule)
	return nil
}

// Shutdown stops the cron schedule and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down monitor server...")
	if s.cron != nil {
		s.cron.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}

// tryRun executes one scan if none is in progress; returns false when busy.
func (s *Server) tryRun() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.mu.Unlock()

	result, err := orchestrator.RunOnce(context.Background(), s.deps)

	s.mu.Lock()
	s.running = false
	s.lastRun = &result
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
		log.Printf("Scan failed: %v", err)
	}
	s.mu.Unlock()
	return true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := gin.H{"running": s.running}
	if s.lastRun != nil {
		resp["last_run"] = s.lastRun
	}
	if s.lastErr != "" {
		resp["last_error"] = s.lastErr
	}
	c.JSON(http.StatusOK, resp)
}

// handleScan triggers a manual on-demand run in the background.
func (s *Server) handleScan(c *gin.Context) {
	s.mu.Lock()
	busy := s.running
	s.mu.Unlock()
	if busy {
		c.JSON(http.StatusConflict, gin.H{"error": "a scan is already in progress"})
		return
	}

	go s.tryRun()
	c.JSON(http.StatusAccepted, gin.H{"status": "scan started"})
}
