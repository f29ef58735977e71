package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Tiliavir/nexus/internal/storage"
	"github.com/Tiliavir/nexus/internal/storage/postgres"
	"github.com/Tiliavir/nexus/internal/storage/storagetest"
)

// These tests need a scratch database, e.g.
// NEXUS_TEST_POSTGRES_URL=postgres://localhost:5432/nexus_test?sslmode=disable
func TestStoreContract(t *testing.T) {
	url := os.Getenv("NEXUS_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("NEXUS_TEST_POSTGRES_URL not set")
	}

	n := 0
	storagetest.Run(t, func(t *testing.T) storage.Store {
		n++
		ctx := context.Background()
		prefix := fmt.Sprintf("test_%d_%d_", time.Now().UnixNano(), n)
		s, err := postgres.Connect(ctx, url, prefix)
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		t.Cleanup(func() {
			cleanup, err := postgres.Connect(context.Background(), url, prefix)
			if err != nil {
				return
			}
			defer cleanup.Close()
			_ = cleanup.DropTables(context.Background())
		})
		return s
	})
}
