package userctx

import (
	"context"
	"testing"
)

func TestGetUserID(t *testing.T) {
	if _, ok := GetUserID(context.Background()); ok {
		t.Fatal("expected no user in an empty context")
	}
	if _, ok := GetUserID(WithUserID(context.Background(), "  ")); ok {
		t.Fatal("blank user id must not count as authenticated")
	}
	id, ok := GetUserID(WithUserID(context.Background(), " alice "))
	if !ok || id != "alice" {
		t.Fatalf("got %q, %v", id, ok)
	}
}
