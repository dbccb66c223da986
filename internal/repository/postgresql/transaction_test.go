package postgresql

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
)

type stubTx struct {
	pgx.Tx
}

func TestGetQuerier(t *testing.T) {
	db := &database.DB{}

	q := GetQuerier(context.Background(), db)
	_, isTx := q.(pgx.Tx)
	assert.False(t, isTx)

	tx := &stubTx{}
	assert.Same(t, tx, GetQuerier(WithTx(context.Background(), tx), db))
}

func TestGetQuerier_IgnoresUntypedKey(t *testing.T) {
	db := &database.DB{}
	ctx := context.WithValue(context.Background(), "tx", &stubTx{})

	_, isTx := GetQuerier(ctx, db).(pgx.Tx)
	assert.False(t, isTx)
}
