package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestParseScriptReply(t *testing.T) {
	tests := []struct {
		name      string
		reply     interface{}
		wantErr   bool
		allowed   bool
		count     int64
		remaining int64
	}{
		{
			name:      "allowed under limit",
			reply:     []interface{}{int64(1), int64(5), int64(15)},
			allowed:   true,
			count:     5,
			remaining: 15,
		},
		{
			name:      "denied over limit",
			reply:     []interface{}{int64(0), int64(25), int64(0)},
			allowed:   false,
			count:     25,
			remaining: 0,
		},
		{
			name:    "wrong element count",
			reply:   []interface{}{int64(1), int64(5)},
			wantErr: true,
		},
		{
			name:    "non integer element",
			reply:   []interface{}{"1", int64(5), int64(15)},
			wantErr: true,
		},
		{
			name:    "not a slice",
			reply:   int64(1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, count, remaining, err := parseScriptReply(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got allowed=%v count=%d remaining=%d", allowed, count, remaining)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v", allowed, tt.allowed)
			}
			if count != tt.count {
				t.Errorf("count = %d, want %d", count, tt.count)
			}
			if remaining != tt.remaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.remaining)
			}
		})
	}
}

func TestIsAllowedBypassesRedisWhenDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		Enabled:         false,
		WindowDuration:  time.Minute,
		DefaultRequests: 60,
	})

	result, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeDefault)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("disabled limiter must allow")
	}
	if result.Remaining != 60 {
		t.Errorf("remaining = %d, want 60", result.Remaining)
	}
}

func TestIsAllowedBypassesRedisForWhitelistedIP(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 60,
		WhitelistedIPs:  []string{"192.168.1.10"},
	})

	result, err := limiter.IsAllowed(context.Background(), "192.168.1.10", RateLimitTypeDefault)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("whitelisted IP must allow")
	}
}

func TestGetLimitPerType(t *testing.T) {
	limiter := NewRateLimiter(nil, &Config{
		DefaultRequests:     60,
		PublicRequests:      100,
		AuthRequests:        10,
		ReservationRequests: 20,
		HealthRequests:      120,
	})

	tests := []struct {
		limitType RateLimitType
		want      int
	}{
		{RateLimitTypeDefault, 60},
		{RateLimitTypePublic, 100},
		{RateLimitTypeAuth, 10},
		{RateLimitTypeReservation, 20},
		{RateLimitTypeHealth, 120},
	}
	for _, tt := range tests {
		if got := limiter.getLimit(tt.limitType); got != tt.want {
			t.Errorf("getLimit(%s) = %d, want %d", tt.limitType, got, tt.want)
		}
	}
}
