package cache

import (
	"context"
	"testing"
	"time"
)

func TestPageCache_PutGet(t *testing.T) {
	t.Parallel()

	pc, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pc.Close()

	ctx := context.Background()

	if _, _, ok := pc.Get(ctx, "https://example.com/"); ok {
		t.Error("Get() hit on empty cache")
	}

	if err := pc.Put(ctx, "https://example.com/", "<html>body</html>", "browser"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	body, via, ok := pc.Get(ctx, "https://example.com/")
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if body != "<html>body</html>" {
		t.Errorf("body = %q", body)
	}
	if via != "browser" {
		t.Errorf("via = %q, want browser", via)
	}
}

func TestPageCache_PutReplaces(t *testing.T) {
	t.Parallel()

	pc, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pc.Close()

	ctx := context.Background()
	if err := pc.Put(ctx, "https://example.com/", "first", "basic"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := pc.Put(ctx, "https://example.com/", "second", "browser"); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	body, via, ok := pc.Get(ctx, "https://example.com/")
	if !ok || body != "second" || via != "browser" {
		t.Errorf("Get() = (%q, %q, %v), want replaced entry", body, via, ok)
	}
}

func TestPageCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	pc, err := Open(t.TempDir(), Options{TTL: time.Minute, EnableWAL: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pc.Close()

	ctx := context.Background()
	if err := pc.Put(ctx, "https://example.com/", "body", "basic"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Advance the clock past the TTL.
	pc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, _, ok := pc.Get(ctx, "https://example.com/"); ok {
		t.Error("Get() hit on expired entry")
	}
}

func TestPageCache_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	pc, err := Open(t.TempDir(), Options{TTL: 0})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pc.Close()

	ctx := context.Background()
	if err := pc.Put(ctx, "https://example.com/", "body", "basic"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	pc.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	if _, _, ok := pc.Get(ctx, "https://example.com/"); !ok {
		t.Error("Get() miss with expiry disabled")
	}
}

func TestPageCache_Purge(t *testing.T) {
	t.Parallel()

	pc, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pc.Close()

	ctx := context.Background()
	if err := pc.Put(ctx, "https://example.com/a", "a", "basic"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := pc.Put(ctx, "https://example.com/b", "b", "basic"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := pc.Purge(ctx); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if _, _, ok := pc.Get(ctx, "https://example.com/a"); ok {
		t.Error("Get() hit after Purge()")
	}
}
