//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=savingsplan sslmode=disable"
	}

	db, err := NewDB(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func TestTaxTableRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTaxTableRepository(testDB(t))

	table := domain.DefaultTaxTable()
	table.TaxYear = 1999 // keep clear of real seeded years
	t.Cleanup(func() {
		repo.(*taxTableRepository).db.ExecContext(ctx, `DELETE FROM tax_tables WHERE tax_year = 1999`)
	})

	require.NoError(t, repo.Save(ctx, table))
	// Saving twice replaces rather than duplicates
	require.NoError(t, repo.Save(ctx, table))

	got, err := repo.GetByYear(ctx, 1999)
	require.NoError(t, err)
	require.NoError(t, got.Validate())

	decimalEqual := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(table, got, decimalEqual); diff != "" {
		t.Errorf("table mismatch after round trip (-want +got):\n%s", diff)
	}

	years, err := repo.ListYears(ctx)
	require.NoError(t, err)
	assert.Contains(t, years, 1999)
}

func TestTaxTableRepository_NotFound(t *testing.T) {
	repo := NewTaxTableRepository(testDB(t))

	_, err := repo.GetByYear(context.Background(), 1800)

	assert.ErrorIs(t, err, domain.ErrTaxTableNotFound)
}
