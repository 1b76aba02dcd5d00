package datastore

import (
	"database/sql"
	"strings"
	"testing"

	"givehub/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// newOfflineDB builds a bun.DB that is never connected; tests only render SQL.
func newOfflineDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://localhost:5432/givehub?sslmode=disable")))
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() {
		//nolint:errcheck
		db.Close()
	})
	return db
}

func TestPopularityOrderTieBreak(t *testing.T) {
	db := newOfflineDB(t)

	rendered := popularityOrder(db.NewSelect().Model((*models.DonationRequest)(nil))).String()

	for _, clause := range []string{"baseline_score DESC", "supporter_count DESC", "created_at DESC"} {
		require.Contains(t, rendered, clause)
	}

	// rows equal on every ranking criterion still come back in one order
	require.True(t, strings.HasSuffix(rendered, "id DESC"), rendered)
	require.Less(t, strings.Index(rendered, "created_at DESC"), strings.Index(rendered, "id DESC"))
}
