package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}
	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("Get(k) = %q ok=%v err=%v", got, ok, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("deleted key still present")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expired key still present")
	}
}

func TestMemoryStoreCopiesValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := []byte("v1")
	if err := s.Set(ctx, "k", in, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	in[0] = 'x'
	got, _, _ := s.Get(ctx, "k")
	if !bytes.Equal(got, []byte("v1")) {
		t.Fatalf("stored value mutated through caller slice: %q", got)
	}
	got[0] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if !bytes.Equal(again, []byte("v1")) {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}
}
