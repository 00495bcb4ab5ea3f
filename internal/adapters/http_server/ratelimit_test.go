package httpserver

import "testing"

func TestRateLimiter_PerKey(t *testing.T) {
	l := NewRateLimiter(2)
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("burst not honoured")
	}
	if l.Allow("a") {
		t.Fatalf("third request allowed")
	}
	if !l.Allow("b") {
		t.Fatalf("keys share a bucket")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	var l *RateLimiter = NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatalf("disabled limiter blocked request %d", i)
		}
	}
}
