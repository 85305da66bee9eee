package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"electionwatch/api"
	"electionwatch/common"
	"electionwatch/config"
	"electionwatch/dedup"
	"electionwatch/events"
	"electionwatch/orchestrator"
	"electionwatch/search"
	"electionwatch/ticket"

	"github.com/joho/godotenv"
)

func main() {
	log.SetOutput(os.Stderr)

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	daemon := flag.Bool("daemon", false, "Run as a daemon with an HTTP API and cron schedule")
	cronSchedule := flag.String("cron", "0 13 * * *", "Cron schedule for automated scans in daemon mode (default: daily 13:00)")
	port := flag.String("port", "8080", "HTTP API port in daemon mode")
	siteDir := flag.String("site-dir", "", "Checked-out published site directory (overrides SITE_DIR env var)")
	flag.Parse()

	cfg := config.Load()
	if *siteDir != "" {
		cfg.SiteDir = *siteDir
	}

	deps, cleanup, err := buildDeps(cfg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer cleanup()

	if *daemon {
		runDaemon(deps, *port, *cronSchedule)
		return
	}

	// One-shot mode: a single pipeline run, exit code carries the outcome
	if _, err := orchestrator.RunOnce(context.Background(), deps); err != nil {
		log.Printf("Scan failed: %v", err)
		os.Exit(1)
	}
}

// buildDeps wires the pipeline's collaborators from config. The search client
// is required; the ticket publisher falls back to log output when tracker
// credentials are missing; guard, archive, and events attach only when
// configured and are skipped with a warning when they fail to initialize.
func buildDeps(cfg config.Config) (orchestrator.Deps, func(), error) {
	deps := orchestrator.Deps{Config: cfg}
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	searchClient, err := search.NewCohereClient(search.CohereConfig{
		APIKey: cfg.CohereAPIKey,
		Model:  cfg.Model,
	})
	if err != nil {
		return deps, cleanup, err
	}
	deps.Search = searchClient

	if cfg.GitHubToken != "" && cfg.GitHubRepo != "" {
		publisher, err := ticket.NewGitHubPublisher(ticket.GitHubConfig{
			Token: cfg.GitHubToken,
			Repo:  cfg.GitHubRepo,
		})
		if err != nil {
			return deps, cleanup, err
		}
		deps.Publisher = publisher
	} else {
		deps.Publisher = ticket.LogPublisher{}
	}

	if cfg.RedisAddr != "" {
		guard, err := dedup.NewTicketGuard(dedup.GuardConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		if err != nil {
			log.Printf("Warning: ticket guard disabled: %v", err)
		} else {
			deps.Guard = guard
			closers = append(closers, func() { _ = guard.Close() })
		}
	}

	if cfg.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		archive, err := common.NewS3(ctx, common.S3Config{Region: cfg.S3Region})
		cancel()
		if err != nil {
			log.Printf("Warning: run archiving disabled: %v", err)
		} else {
			deps.Archive = archive
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(events.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("Warning: scan events disabled: %v", err)
		} else {
			deps.Events = producer
			closers = append(closers, func() { _ = producer.Close() })
		}
	}

	return deps, cleanup, nil
}

func runDaemon(deps orchestrator.Deps, port, cronSchedule string) {
	server := api.NewServer(deps, port)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	if err := server.StartCron(cronSchedule); err != nil {
		log.Fatalf("Failed to start cron: %v", err)
	}

	log.Println("Monitor daemon ready")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/status")
	log.Println("  POST /api/scan")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
		os.Exit(1)
	}
}
