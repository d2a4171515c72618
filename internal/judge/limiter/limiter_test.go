package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
)

func newTestLimiter(t *testing.T, max int) (*HostLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	l := New(rdb, max, 5*time.Minute)
	l.wait = time.Millisecond
	return l, mr
}

func TestAcquireWithinCapacity(t *testing.T) {
	l, mr := newTestLimiter(t, 2)
	ctx := context.Background()

	if err := l.Acquire(ctx, model.LangPython); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := l.Acquire(ctx, model.LangPython); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	got, err := mr.Get(slotKey(model.LangPython))
	if err != nil {
		t.Fatalf("read slot counter: %v", err)
	}
	if got != "2" {
		t.Errorf("slot counter = %s, want 2", got)
	}
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := l.Acquire(ctx, model.LangCPP); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx, model.LangCPP) }()

	select {
	case err := <-done:
		t.Fatalf("second acquire returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	if err := l.Release(ctx, model.LangCPP); err != nil {
		t.Fatalf("release: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("blocked acquire: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not unblock after release")
	}
}

func TestAcquireHonorsContext(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := l.Acquire(ctx, model.LangJava); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	if err := l.Acquire(waitCtx, model.LangJava); err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestLanguagesLimitedIndependently(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := l.Acquire(ctx, model.LangCPP); err != nil {
		t.Fatalf("cpp acquire: %v", err)
	}
	if err := l.Acquire(ctx, model.LangJava); err != nil {
		t.Fatalf("java acquire should not wait on the cpp slot: %v", err)
	}
}

func TestReleaseNeverGoesNegative(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := l.Release(ctx, model.LangPython); err != nil {
		t.Fatalf("release on empty counter: %v", err)
	}
	if err := l.Acquire(ctx, model.LangPython); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	got, err := mr.Get(slotKey(model.LangPython))
	if err != nil {
		t.Fatalf("read slot counter: %v", err)
	}
	if got != "1" {
		t.Errorf("slot counter = %s, want 1", got)
	}
}

func TestExpiredSlotDoesNotLeak(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	if err := l.Acquire(ctx, model.LangCPP); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(10 * time.Minute)

	if err := l.Acquire(ctx, model.LangCPP); err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}
}
