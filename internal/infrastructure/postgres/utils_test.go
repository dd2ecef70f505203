package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/traslados-api/internal/domain"
)

func TestClassify_CodigosDeConcurrencia(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		err := fmt.Errorf("send: %w", &pgconn.PgError{Code: code, Message: "x"})
		assert.ErrorIs(t, classify(err), domain.ErrConcurrencyConflict, code)
	}
}

func TestClassify_CheckViolationEsStockInsuficiente(t *testing.T) {
	err := &pgconn.PgError{Code: "23514", ConstraintName: "variation_location_details_quantity_check"}
	assert.ErrorIs(t, classify(err), domain.ErrInsufficientStock)
}

func TestClassify_OtrosErroresSinCambio(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, classify(plain))
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(domain.ErrNotFound), domain.ErrNotFound)
}

func TestValidIDs_DescartaNoUUID(t *testing.T) {
	ids := validIDs([]string{"no-es-uuid", "7c9e6679-7425-40de-944b-e07fc1f90ae7"})
	assert.Equal(t, []string{"7c9e6679-7425-40de-944b-e07fc1f90ae7"}, ids)
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 10, limitArg(10))
}
