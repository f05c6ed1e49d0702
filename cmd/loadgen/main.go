// README: Load generator; fires concurrent bookings, triggers matching and checks DB consistency.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL   string
	DSN       string
	RedisAddr string
	Timeout   time.Duration
	Requests  int
	// Concurrency caps in-flight booking requests.
	Concurrency int
	// RPS paces booking requests; 0 sends as fast as Concurrency allows.
	RPS float64
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("RIDEPOOL_LOADGEN_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("RIDEPOOL_DB_DSN", ""), "Postgres DSN for consistency checks (optional)")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("RIDEPOOL_REDIS_ADDR", ""), "Redis address for the GEO index check (optional)")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("RIDEPOOL_LOADGEN_TIMEOUT", 60*time.Second), "Total timeout")
	flag.IntVar(&cfg.Requests, "requests", envOrDefaultInt("RIDEPOOL_LOADGEN_REQUESTS", 50), "Bookings to create")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("RIDEPOOL_LOADGEN_CONCURRENCY", 50), "Concurrent booking requests")
	flag.Float64Var(&cfg.RPS, "rps", envOrDefaultFloat("RIDEPOOL_LOADGEN_RPS", 0), "Booking request rate limit (0 = unlimited)")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
