package wallet

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newService() (*Service, *Memory) {
	mem := NewMemory(time.Hour)
	return NewService(mem), mem
}

func open(t *testing.T, svc *Service, tenant, id, balance string) *Session {
	t.Helper()
	s := &Session{
		ID:       id,
		TenantID: tenant,
		PlayerID: "p-" + id,
		Currency: "EUR",
		Balance:  decimal.RequireFromString(balance),
	}
	if err := svc.OpenSession(context.Background(), s); err != nil {
		t.Fatalf("open session: %v", err)
	}
	return s
}

func TestOpenGetClose(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	open(t, svc, "acme", "s1", "100.50")

	got, err := svc.GetSession(ctx, "acme", "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Balance.Equal(decimal.RequireFromString("100.50")) || !got.Open() {
		t.Fatalf("session: %+v", got)
	}

	closed, err := svc.CloseSession(ctx, "acme", "s1")
	if err != nil || closed.ClosedAt == nil {
		t.Fatalf("close: %+v err=%v", closed, err)
	}
	if _, err := svc.CloseSession(ctx, "acme", "s1"); !errors.Is(err, ErrClosed) {
		t.Fatalf("double close: %v", err)
	}
	if _, err := svc.Adjust(ctx, "acme", "s1", decimal.NewFromInt(1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("adjust after close: %v", err)
	}
}

func TestAdjust_ExactDecimals(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	open(t, svc, "acme", "s1", "0.10")

	// 0.10 + 0.20 must be exactly 0.30
	got, err := svc.Adjust(ctx, "acme", "s1", decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if !got.Balance.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("balance: %s", got.Balance)
	}
	got, err = svc.Adjust(ctx, "acme", "s1", decimal.RequireFromString("-0.30"))
	if err != nil || !got.Balance.IsZero() {
		t.Fatalf("debit to zero: %+v err=%v", got, err)
	}
}

func TestAdjust_InsufficientFunds(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	open(t, svc, "acme", "s1", "5")

	_, err := svc.Adjust(ctx, "acme", "s1", decimal.RequireFromString("-5.01"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraft: %v", err)
	}
	got, _ := svc.GetSession(ctx, "acme", "s1")
	if !got.Balance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("balance changed on rejected debit: %s", got.Balance)
	}
}

func TestAdjust_ConcurrentIncrements(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	open(t, svc, "acme", "s1", "0")

	const workers = 8
	const perWorker = 500
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := svc.Adjust(ctx, "acme", "s1", decimal.NewFromInt(1)); err != nil {
					t.Errorf("adjust: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := svc.GetSession(ctx, "acme", "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(workers * perWorker)) {
		t.Fatalf("lost adjustments: balance=%s want=%d", got.Balance, workers*perWorker)
	}
}

func TestAdjust_ConcurrentWithClose(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	open(t, svc, "acme", "s1", "0")

	var wg sync.WaitGroup
	var accepted int64
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := svc.Adjust(ctx, "acme", "s1", decimal.NewFromInt(1)); err == nil {
					atomic.AddInt64(&accepted, 1)
				} else if !errors.Is(err, ErrClosed) {
					t.Errorf("adjust: %v", err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.CloseSession(ctx, "acme", "s1"); err != nil {
			t.Errorf("close: %v", err)
		}
	}()
	wg.Wait()

	// every accepted adjustment landed before the close, none after
	got, err := svc.GetSession(ctx, "acme", "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Open() {
		t.Fatal("session must be closed")
	}
	if !got.Balance.Equal(decimal.NewFromInt(accepted)) {
		t.Fatalf("balance=%s but %d adjustments were accepted", got.Balance, accepted)
	}
}

func TestTenantIsolation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	open(t, svc, "acme", "s1", "10")

	if _, err := svc.GetSession(ctx, "rival", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant get: %v", err)
	}
	if _, err := svc.Adjust(ctx, "rival", "s1", decimal.NewFromInt(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant adjust: %v", err)
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	mem := NewMemory(time.Minute)
	base := time.Now()
	mem.now = func() time.Time { return base }
	svc := NewService(mem)
	ctx := context.Background()
	open(t, svc, "acme", "s1", "10")

	mem.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.GetSession(ctx, "acme", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session must be gone: %v", err)
	}
}

func TestOpenSession_Validation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if err := svc.OpenSession(ctx, &Session{ID: "x", TenantID: "acme"}); err == nil {
		t.Fatal("missing player must fail")
	}
	if err := svc.OpenSession(ctx, &Session{
		ID: "x", TenantID: "acme", PlayerID: "p",
		Balance: decimal.RequireFromString("-1"),
	}); err == nil {
		t.Fatal("negative opening balance must fail")
	}
}

func TestNew_Drivers(t *testing.T) {
	if _, err := New(Config{Driver: "memory"}); err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, err := New(Config{Driver: "vault"}); err == nil {
		t.Fatal("unknown driver must fail")
	}
	if _, err := New(Config{Driver: "redis", RedisURL: "not a url"}); err == nil {
		t.Fatal("bad redis url must fail")
	}
}
