package auth

import (
	"context"
	"testing"
	"time"
)

func TestWithSessionAndFromContext(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	s := Session{SessionID: 3, ExpiresAt: expires}

	ctx := WithSession(context.Background(), s)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Session in context")
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Session")
	}
}

func TestAuthenticated(t *testing.T) {
	ctx := WithSession(context.Background(), Session{SessionID: 1})
	if !Authenticated(ctx) {
		t.Error("expected Authenticated = true with session")
	}
	if Authenticated(context.Background()) {
		t.Error("expected Authenticated = false without session")
	}
}
