package repository

import (
	"context"
	"testing"

	"github.com/jobtrack/jobtrack/internal/testutil"
)

// newTestRepository connects to DATABASE_URL, serializes on the advisory
// lock and rebuilds the schema from the embedded migrations.
func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	repo, err := New(ctx, dbURL, DefaultPoolOptions())
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	if _, err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return repo
}
