package migrate

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MigracionesEmbebidas(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidate_NombreInvalido(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/crear_tablas.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.ErrorContains(t, validateFS(fsys, "migrations"), "invalid migration filename")
}

func TestValidate_SinDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/20260101000000_x.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	assert.ErrorContains(t, validateFS(fsys, "migrations"), "goose Down")
}

func TestMigraciones_RestriccionesDelLibro(t *testing.T) {
	data := readMigration(t, "_create_stock_ledger.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS variation_location_details",
		"CHECK (quantity >= 0)",
		"CREATE TABLE IF NOT EXISTS stock_transactions",
		"BEFORE UPDATE OR DELETE ON stock_transactions",
		"DROP TABLE IF EXISTS stock_transactions",
	} {
		assert.Contains(t, data, sub)
	}
}

func TestMigraciones_Traslados(t *testing.T) {
	data := readMigration(t, "_create_stock_transfers.sql")
	for _, sub := range []string{
		"CHECK (source_location_id <> destination_location_id)",
		"UNIQUE (transfer_id, variation_id)",
		"CHECK (status IN ('in_stock','in_transit','sold','lost'))",
	} {
		assert.Contains(t, data, sub)
	}
}

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	entries, err := fs.ReadDir(migrationsFS, Dir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			b, err := fs.ReadFile(migrationsFS, Dir+"/"+e.Name())
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("no hay migración *%s", suffix)
	return ""
}
