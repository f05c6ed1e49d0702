// README: Load generator cases: health, booking burst, matching trigger and DB invariants.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer func() { _ = r.redis.Close() }()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.do(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass, Latency: time.Since(start)}
			},
		},
		{
			Name: "Redis: vehicle GEO index populated",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				n, err := r.redis.ZCard(ctx, "location:vehicles").Result()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("indexed=%d", n)}
			},
		},
		{
			Name: fmt.Sprintf("Load: %d concurrent bookings", r.cfg.Requests),
			Run: func(ctx context.Context, r *Runner) Result {
				return r.bookingBurst(ctx, base+"/api/bookings")
			},
		},
		{
			Name: "Matching: trigger",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, body, err := r.do(ctx, http.MethodPost, base+"/api/trigger-matching", nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
				}
				var out struct {
					MatchesFound int   `json:"matches_found"`
					Pending      []any `json:"pending"`
				}
				_ = json.Unmarshal(body, &out)
				return Result{
					Status:  statusPass,
					Latency: time.Since(start),
					Note:    fmt.Sprintf("rides=%d pending_groups=%d", out.MatchesFound, len(out.Pending)),
				}
			},
		},
		{
			Name: "DB: confirmed bookings all reference a ride",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.expectZero(ctx, `SELECT COUNT(*) FROM bookings WHERE status = 'CONFIRMED' AND ride_id IS NULL`)
			},
		},
		{
			Name: "DB: no ride exceeds vehicle capacity",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.expectZero(ctx, `
					SELECT COUNT(*) FROM (
						SELECT r.id
						FROM rides r
						JOIN vehicles v ON v.id = r.vehicle_id
						JOIN bookings b ON b.ride_id = r.id
						GROUP BY r.id, v.capacity
						HAVING SUM(b.passengers) > v.capacity
					) over_capacity`)
			},
		},
		{
			Name: "DB: every ride's vehicle is claimed",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.expectZero(ctx, `
					SELECT COUNT(*) FROM rides r
					JOIN vehicles v ON v.id = r.vehicle_id
					WHERE v.is_available`)
			},
		},
	}
}

// bookingBurst fires N bookings from around MG Road to the airport concurrently.
func (r *Runner) bookingBurst(ctx context.Context, url string) Result {
	var limiter *rate.Limiter
	if r.cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RPS), 1)
	}

	var ok, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	start := time.Now()
	for i := 0; i < r.cfg.Requests; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}
		g.Go(func() error {
			payload := map[string]any{
				"user_id":     fmt.Sprintf("loadgen-%d", i),
				"pickup":      map[string]float64{"lat": 12.9716 + rand.Float64()*0.01, "lng": 77.5946 + rand.Float64()*0.01},
				"dropoff":     map[string]float64{"lat": 13.1986, "lng": 77.7066},
				"pickup_time": time.Now().UTC(),
				"passengers":  1,
			}
			status, _, err := r.do(gctx, http.MethodPost, url, payload)
			if err != nil || status != http.StatusCreated {
				failed.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	res := Result{
		Latency: elapsed,
		Note:    fmt.Sprintf("ok=%d failed=%d rps=%.1f", ok.Load(), failed.Load(), float64(ok.Load())/elapsed.Seconds()),
	}
	if ok.Load() == 0 {
		res.Status = statusFail
		return res
	}
	res.Status = statusPass
	return res
}

func (r *Runner) expectZero(ctx context.Context, query string) Result {
	if r.db == nil {
		return Result{Status: statusSkip, Note: "db not configured"}
	}
	var n int
	if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	if n != 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("violations=%d", n)}
	}
	return Result{Status: statusPass}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}
