// Concurrent load test for the reservation API. It hammers one concert with
// overlapping claims and verifies the two properties that matter: no seat is
// ever granted twice, and every attempt resolves as either a full success or
// a clean conflict.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"concerto/pkg/reserveflow"
)

type config struct {
	Host      string
	ConcertID string
	Workers   int
	SeatsPer  int
	Mode      string // "auto" (POST /reserve) or "explicit" (PUT /reserve)
	Rows      int
	Cols      int
}

type metrics struct {
	attempts  int64
	successes int64
	conflicts int64
	notEnough int64
	failures  int64

	mu          sync.Mutex
	grantedBy   map[string]int // seat -> times granted
	latencies   []time.Duration
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.Host, "host", "http://localhost:3001", "API base URL")
	flag.StringVar(&cfg.ConcertID, "concert", "", "Concert ID to target (required)")
	flag.IntVar(&cfg.Workers, "workers", 50, "Concurrent workers, one account each")
	flag.IntVar(&cfg.SeatsPer, "seats", 2, "Seats per reservation attempt")
	flag.StringVar(&cfg.Mode, "mode", "auto", "Reservation mode: auto or explicit")
	flag.IntVar(&cfg.Rows, "rows", 9, "Theater rows (explicit mode seat targeting)")
	flag.IntVar(&cfg.Cols, "cols", 14, "Theater cols (explicit mode seat targeting)")
	flag.Parse()

	if cfg.ConcertID == "" {
		fmt.Fprintln(os.Stderr, "missing -concert")
		flag.Usage()
		os.Exit(2)
	}

	fmt.Printf("Registering %d accounts against %s...\n", cfg.Workers, cfg.Host)
	tokens := make([]string, cfg.Workers)
	for i := range tokens {
		token, err := register(cfg.Host, i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register worker %d: %v\n", i, err)
			os.Exit(1)
		}
		tokens[i] = token
	}

	m := &metrics{grantedBy: map[string]int{}}
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			runWorker(&cfg, tokens[worker], m)
		}(i)
	}
	wg.Wait()

	report(m, time.Since(start))
}

func runWorker(cfg *config, token string, m *metrics) {
	client := reserveflow.NewClient(cfg.Host, token)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	atomic.AddInt64(&m.attempts, 1)
	began := time.Now()

	var seats []string
	var err error
	if cfg.Mode == "explicit" {
		// Everyone aims at the same front block to force conflicts.
		want := make([]string, 0, cfg.SeatsPer)
		row := 1 + rand.Intn(3)
		col := 1 + rand.Intn(cfg.Cols-cfg.SeatsPer+1)
		for k := 0; k < cfg.SeatsPer; k++ {
			want = append(want, fmt.Sprintf("%d%c", row, 'A'+col-1+k))
		}
		seats, err = client.ReserveSeats(ctx, cfg.ConcertID, want)
	} else {
		seats, err = client.ReserveByCount(ctx, cfg.ConcertID, cfg.SeatsPer)
	}

	took := time.Since(began)
	m.mu.Lock()
	m.latencies = append(m.latencies, took)
	m.mu.Unlock()

	switch {
	case err == nil:
		atomic.AddInt64(&m.successes, 1)
		m.mu.Lock()
		for _, seat := range seats {
			m.grantedBy[seat]++
		}
		m.mu.Unlock()
	case errors.Is(err, reserveflow.ErrConflict):
		atomic.AddInt64(&m.conflicts, 1)
	case errors.Is(err, reserveflow.ErrNotEnoughSeats):
		atomic.AddInt64(&m.notEnough, 1)
	default:
		atomic.AddInt64(&m.failures, 1)
		fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
	}
}

func register(host string, worker int) (string, error) {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixNano(), worker)
	body, _ := json.Marshal(map[string]interface{}{
		"username": "load-" + suffix,
		"name":     "Load Tester",
		"email":    fmt.Sprintf("load-%s@example.com", suffix),
		"password": "password123",
		"loyal":    worker%2 == 0,
	})

	resp, err := http.Post(host+"/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("register returned %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", errors.New("no access token in response")
	}
	return envelope.Data.AccessToken, nil
}

func report(m *metrics, elapsed time.Duration) {
	var doubleGrants int
	for _, count := range m.grantedBy {
		if count > 1 {
			doubleGrants++
		}
	}

	sort.Slice(m.latencies, func(i, j int) bool { return m.latencies[i] < m.latencies[j] })
	var p95 time.Duration
	if len(m.latencies) > 0 {
		p95 = m.latencies[len(m.latencies)*95/100]
	}

	fmt.Println()
	fmt.Printf("attempts:        %d\n", m.attempts)
	fmt.Printf("successes:       %d\n", m.successes)
	fmt.Printf("conflicts:       %d\n", m.conflicts)
	fmt.Printf("not enough:      %d\n", m.notEnough)
	fmt.Printf("other failures:  %d\n", m.failures)
	fmt.Printf("seats granted:   %d\n", len(m.grantedBy))
	fmt.Printf("double grants:   %d\n", doubleGrants)
	fmt.Printf("p95 latency:     %s\n", p95)
	fmt.Printf("elapsed:         %s\n", elapsed)

	if doubleGrants > 0 {
		fmt.Println("\nFAIL: at least one seat was granted twice")
		os.Exit(1)
	}
	if m.failures > 0 {
		fmt.Println("\nFAIL: unexpected errors occurred")
		os.Exit(1)
	}
	fmt.Println("\nOK: no double grants, every attempt resolved cleanly")
}
