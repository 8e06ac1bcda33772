package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store/storetest"
)

func TestSQLiteStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) catalog.Store {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		s.SetClock(now)
		return s
	})
}

func TestSQLiteReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	name, price := "Comedouro", 35.0
	_, err = s.Insert(ctx, model.ProductFields{Name: &name, Price: &price})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, name, list[0].Name)
}

func TestPostgresStoreContract(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	storetest.Run(t, func(t *testing.T, now func() time.Time) catalog.Store {
		ctx := context.Background()
		s, err := OpenPostgres(ctx, dsn)
		require.NoError(t, err)
		_, err = s.db.ExecContext(ctx, "DELETE FROM products")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		s.SetClock(now)
		return s
	})
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	require.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", pg.rebind("SELECT 1 WHERE a = ? AND b = ?"))
	lite := &Store{dialect: SQLite}
	require.Equal(t, "a = ?", lite.rebind("a = ?"))
}
