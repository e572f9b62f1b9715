package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-manager/internal/discount"
)

func TestDiscountRepository_GetProductDiscounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDiscountRepository(db)

	query := regexp.QuoteMeta(`SELECT discounts FROM product_discounts WHERE product_id = ?`)
	mock.ExpectQuery(query).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"discounts"}).AddRow(`[{"percent":"-10","cap":"80","shedule":"0 9-17 * * 1-5"}]`))
	mock.ExpectQuery(query).WithArgs("p2").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetProductDiscounts(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "-10", got[0].Percent.Decimal.String())
	assert.Equal(t, "0 9-17 * * 1-5", got[0].Schedule)

	got, err = repo.GetProductDiscounts(context.Background(), "p2")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_SetProductDiscounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDiscountRepository(db)

	discounts := []discount.Discount{
		{Percent: decimal.NewNullDecimal(decimal.NewFromInt(15)), Cap: "150"},
	}
	raw, err := discount.Encode(discounts)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_discounts (product_id, discounts) VALUES (?, ?)`)).
		WithArgs("p1", raw).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SetProductDiscounts(context.Background(), "p1", discounts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_ListProductIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDiscountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id FROM product_discounts ORDER BY product_id`)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow("p1").AddRow("p2"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id FROM product_discounts ORDER BY product_id`)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	got, err := repo.ListProductIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, got)

	got, err = repo.ListProductIDs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_SetDiscountsForProducts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDiscountRepository(db)

	discounts := []discount.Discount{
		{Percent: decimal.NewNullDecimal(decimal.NewFromInt(10)), Cap: "50"},
	}
	raw, err := discount.Encode(discounts)
	require.NoError(t, err)

	insert := regexp.QuoteMeta(`INSERT INTO product_discounts (product_id, discounts) VALUES (?, ?),(?, ?) ON DUPLICATE KEY UPDATE discounts = VALUES(discounts)`)
	mock.ExpectBegin()
	mock.ExpectExec(insert).WithArgs("p1", raw, "p2", raw).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.SetDiscountsForProducts(context.Background(), []string{"p1", "p2"}, discounts))
	require.NoError(t, repo.SetDiscountsForProducts(context.Background(), nil, discounts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_SetDiscountsForProductsRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDiscountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO product_discounts`)).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := repo.SetDiscountsForProducts(context.Background(), []string{"p1"}, []discount.Discount{})
	assert.EqualError(t, err, "deadlock")
	assert.NoError(t, mock.ExpectationsWereMet())
}
