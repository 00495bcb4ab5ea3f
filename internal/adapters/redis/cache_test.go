package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "guest_manual/internal/adapters/redis"
	"guest_manual/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var miss domain.Manual
	if ok, err := c.Get(ctx, "manual:sea", &miss); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Manual{
		Property: domain.Property{ID: 3, Slug: "sea", Name: "Sea View", WifiSSID: "SeaNet"},
		FAQs:     []domain.FAQ{{ID: 9, PropID: 3, Question: "Towels?", Answer: "Bathroom"}},
		CheckinSteps: []domain.CheckinStep{
			{ID: 1, PropID: 3, Step: 1, Title: "Door"},
		},
	}
	if err := c.Set(ctx, "manual:sea", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("manual:sea"); ttl != time.Minute {
		t.Fatalf("ttl: %v", ttl)
	}

	var out domain.Manual
	ok, err := c.Get(ctx, "manual:sea", &out)
	if !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.Property.WifiSSID != "SeaNet" || len(out.FAQs) != 1 || out.FAQs[0].Answer != "Bathroom" || out.CheckinSteps[0].Step != 1 {
		t.Fatalf("unexpected manual: %+v", out)
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "manual:sea", &out); ok {
		t.Fatalf("entry outlived its ttl")
	}
}

func TestCache_DelAndCorruptValue(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_ = c.Set(ctx, "manual:a", domain.Manual{}, 60)
	if err := c.Del(ctx, "manual:a"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("manual:a") {
		t.Fatalf("key not deleted")
	}

	_ = mr.Set("manual:b", "{not json")
	var m domain.Manual
	if ok, err := c.Get(ctx, "manual:b", &m); ok || err != nil {
		t.Fatalf("corrupt value: ok=%v err=%v", ok, err)
	}
	if mr.Exists("manual:b") {
		t.Fatalf("corrupt value kept")
	}
}
