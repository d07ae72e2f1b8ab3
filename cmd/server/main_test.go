package main

import "testing"

func TestEnvOr_UsesEnv(t *testing.T) {
	t.Setenv("ROOMVERSE_LISTEN", ":9090")
	if got := envOr("ROOMVERSE_LISTEN", ":8080"); got != ":9090" {
		t.Fatalf("envOr()=%q want %q", got, ":9090")
	}
}

func TestEnvOr_Fallback(t *testing.T) {
	t.Setenv("ROOMVERSE_LISTEN", "  ")
	if got := envOr("ROOMVERSE_LISTEN", ":8080"); got != ":8080" {
		t.Fatalf("envOr()=%q want %q", got, ":8080")
	}
}
