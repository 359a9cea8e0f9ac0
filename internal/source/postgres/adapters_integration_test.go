//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/assettrack/internal/domain"
)

func TestAdaptersCountAndPage(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("assettrack"),
		postgrescontainer.WithUsername("assettrack"),
		postgrescontainer.WithPassword("assettrack"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	assetID := uuid.NewString()
	_, err = pool.Exec(ctx,
		`INSERT INTO assets (asset_id, tag_id, description) VALUES ($1,$2,$3)`,
		assetID, "TAG-001", "Thinkpad X1")
	require.NoError(t, err)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err = pool.Exec(ctx,
			`INSERT INTO checkouts (checkout_id, asset_id, employee_name, checkout_date, created_at)
             VALUES ($1,$2,$3,$4,$5)`,
			uuid.NewString(), assetID, "Ada Lovelace", base.Add(-time.Duration(i)*time.Hour), base.Add(-time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO disposals (disposal_id, asset_id, disposal_method, dispose_date, dispose_value, created_at)
         VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), assetID, "recycled", base, 120.50, base)
	require.NoError(t, err)

	checkouts := NewCheckoutSource(pool)

	total, err := checkouts.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, total)

	page, err := checkouts.Page(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	for i := 1; i < len(page); i++ {
		require.False(t, page[i].CreatedAt.After(page[i-1].CreatedAt), "records must be newest first")
	}
	require.Equal(t, "TAG-001", page[0].AssetTagID, "asset summary must be joined in")
	require.Equal(t, "Thinkpad X1", page[0].AssetDescription)

	details, ok := page[0].Details.(domain.CheckoutDetails)
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", details.EmployeeName)

	rest, err := checkouts.Page(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2, "end of collection returns a short page")

	empty, err := checkouts.Page(ctx, 10, 3)
	require.NoError(t, err)
	require.Empty(t, empty, "offset past the end returns an empty slice")

	disposals := NewDisposeSource(pool)
	total, err = disposals.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, total)

	dpage, err := disposals.Page(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, dpage, 1)
	ddetails, ok := dpage[0].Details.(domain.DisposeDetails)
	require.True(t, ok)
	require.Equal(t, "recycled", ddetails.DisposalMethod)
	require.InDelta(t, 120.50, ddetails.DisposeValue, 0.001)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	path := resolvePath(t, "../../../migrations/001_schema.sql")
	contents, readErr := os.ReadFile(path)
	require.NoError(t, readErr)

	_, execErr := pool.Exec(ctx, string(contents))
	require.NoError(t, execErr)
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
