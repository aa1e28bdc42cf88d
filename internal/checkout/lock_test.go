package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeLockStore struct {
	keys map[string]string
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{keys: map[string]string{}}
}

func (f *fakeLockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = "held"
	return true, nil
}

func (f *fakeLockStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
	}
	return nil
}

func (f *fakeLockStore) CheckoutLockKey(cartID string) string {
	return "jb:checkout_lock:" + cartID
}

func TestLockerSerializesPerCart(t *testing.T) {
	t.Parallel()

	store := newFakeLockStore()
	locker, err := NewLocker(store, time.Minute)
	if err != nil {
		t.Fatalf("new locker: %v", err)
	}

	cartA := uuid.New()
	cartB := uuid.New()
	ctx := context.Background()

	ok, err := locker.Acquire(ctx, cartA)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	ok, err = locker.Acquire(ctx, cartA)
	if err != nil || ok {
		t.Fatalf("second acquire must fail: ok=%v err=%v", ok, err)
	}

	// an unrelated cart is not blocked
	ok, err = locker.Acquire(ctx, cartB)
	if err != nil || !ok {
		t.Fatalf("other cart acquire: ok=%v err=%v", ok, err)
	}

	if err := locker.Release(ctx, cartA); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = locker.Acquire(ctx, cartA)
	if err != nil || !ok {
		t.Fatalf("reacquire after release: ok=%v err=%v", ok, err)
	}
}

func TestNewLockerValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewLocker(nil, time.Minute); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewLocker(newFakeLockStore(), 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
