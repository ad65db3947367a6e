package db

import (
	"context"
	"testing"
)

func TestConnFromContext_Empty(t *testing.T) {
	conn := ConnFromContext(context.Background())
	if conn != nil {
		t.Error("expected nil conn from empty context")
	}
}

func TestConnFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), connKey, "not-a-conn")
	conn := ConnFromContext(ctx)
	if conn != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestConnFromContext_StringKeyDoesNotCollide(t *testing.T) {
	// A plain string key must not satisfy the typed context key.
	ctx := context.WithValue(context.Background(), "db_conn", "impostor") //nolint:staticcheck
	conn := ConnFromContext(ctx)
	if conn != nil {
		t.Error("expected nil for string-keyed value")
	}
}

func TestWithConn_NilRoundTrip(t *testing.T) {
	ctx := WithConn(context.Background(), nil)
	if conn := ConnFromContext(ctx); conn != nil {
		t.Error("expected nil conn back from nil WithConn")
	}
}
