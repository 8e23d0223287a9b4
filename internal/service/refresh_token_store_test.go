package service

import (
	"testing"
	"time"
)

func TestMemoryRefreshTokenStore(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", time.Hour); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ok, err := store.Exists("jti-1")
	if err != nil || !ok {
		t.Fatalf("expected token to exist, ok=%v err=%v", ok, err)
	}

	if err := store.Revoke("jti-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ok, err = store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expected token revoked, ok=%v err=%v", ok, err)
	}
}

func TestMemoryRefreshTokenStoreExpiry(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", -time.Minute); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ok, err := store.Exists("jti-1")
	if err != nil || ok {
		t.Fatalf("expired token must not exist, ok=%v err=%v", ok, err)
	}
}

func TestMemoryRefreshTokenStoreBlankJTI(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("  ", "user-1", time.Hour); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ok, _ := store.Exists("  ")
	if ok {
		t.Fatalf("blank jti must not be stored")
	}
}
