//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestStargazers_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(token, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{"Mergifyio/mergify-engine", "Mergifyio", "mergify-engine", false},
		{"nonexistent", "nonexistent-owner-12345", "nonexistent-repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := client.Stargazers(ctx, tt.owner, tt.repo, 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Stargazers(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
			}
			if err == nil && len(users) == 0 {
				t.Error("expected at least one stargazer")
			}
		})
	}
}

func TestBulkStarred_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	got, err := NewClient(token, Config{}).BulkStarred(ctx, "Mergifyio", "mergify-engine")
	if err != nil {
		t.Fatalf("BulkStarred() error: %v", err)
	}
	if len(got) > BulkPageSize {
		t.Errorf("BulkStarred() returned %d users, cap is %d", len(got), BulkPageSize)
	}
}
