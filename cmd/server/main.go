package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/waitlist-api/internal/api"
	"github.com/ignite/waitlist-api/internal/captcha"
	"github.com/ignite/waitlist-api/internal/config"
	"github.com/ignite/waitlist-api/internal/mailer"
	"github.com/ignite/waitlist-api/internal/ratelimit"
	"github.com/ignite/waitlist-api/internal/repository/postgres"
	"github.com/ignite/waitlist-api/internal/service/contacts"
	"github.com/ignite/waitlist-api/internal/service/waitlist"
	"github.com/ignite/waitlist-api/internal/webhook"
)

// checkPortAvailable verifies that the target port is not already in
// use, so a stale process does not silently swallow traffic.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatalf("Database ping failed: %v", err)
	}
	pingCancel()
	log.Println("Connected to Postgres")

	contactsSvc := contacts.NewService(postgres.NewContactRepo(db))
	waitlistRepo := postgres.NewWaitlistRepo(db)

	sender, err := mailer.NewSESSender(ctx, cfg.Email, cfg.App)
	if err != nil {
		log.Fatalf("Failed to initialize email sender: %v", err)
	}
	log.Printf("Email sender ready (region %s, style %s)", cfg.Email.Region, cfg.Email.TemplateStyle)

	doubleOptIn := cfg.Signup.DoubleOptInEnabled()
	waitlistSvc := waitlist.NewService(waitlistRepo, contactsSvc, sender, doubleOptIn)
	log.Printf("Signup mode: double opt-in=%v", doubleOptIn)

	var verifier *captcha.Verifier
	if cfg.Captcha.Enabled() {
		verifier = captcha.NewVerifier(cfg.Captcha.TurnstileSecretKey)
		log.Println("Turnstile captcha verification enabled")
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled() {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		limiter, err = ratelimit.NewFromURL(cfg.RateLimit.RedisURL, cfg.RateLimit.Limit, window)
		if err != nil {
			log.Fatalf("Failed to connect rate limiter: %v", err)
		}
		defer limiter.Close()
		log.Printf("Rate limiting enabled: %d per %s", cfg.RateLimit.Limit, window)
	}

	processor := webhook.NewProcessor(contactsSvc)
	if cfg.Webhook.SigningSecret != "" {
		log.Println("Webhook signature verification enabled")
	}

	// Assign through nil checks so disabled gates stay nil interfaces.
	var captchaGate api.CaptchaVerifier
	if verifier != nil {
		captchaGate = verifier
	}
	var limiterGate api.SignupLimiter
	if limiter != nil {
		limiterGate = limiter
	}

	handlers := api.NewHandlers(waitlistSvc, contactsSvc, processor,
		captchaGate, limiterGate, cfg.App, cfg.Webhook.SigningSecret)
	server := api.NewServer(cfg.Server, handlers, cfg.CORS)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Server stopped")
}
