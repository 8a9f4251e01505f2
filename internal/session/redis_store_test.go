package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client), mr
}

func TestRevokeAndLookup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if revoked {
		t.Error("fresh token reported revoked")
	}

	if err := store.Revoke(ctx, "token-1", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !revoked {
		t.Error("revoked token not reported")
	}

	// Other tokens are unaffected.
	revoked, _ = store.IsRevoked(ctx, "token-2")
	if revoked {
		t.Error("unrelated token reported revoked")
	}
}

func TestRevocationExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "token-1", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if revoked {
		t.Error("revocation outlived the token")
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	store, mr := newTestStore(t)

	if err := store.Revoke(context.Background(), "token-1", -time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Error("expected nothing recorded for an already-expired token")
	}
}

func TestLookupErrorSurfaces(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if _, err := store.IsRevoked(context.Background(), "token-1"); err == nil {
		t.Error("expected an error when redis is unreachable")
	}
}
