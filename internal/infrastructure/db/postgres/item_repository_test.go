package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

func newItemRepoMock(t *testing.T) (*ItemRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewItemRepository(mock, zerolog.Nop()), mock
}

func TestItemRepository_FindByID(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, description, price FROM items WHERE id = $1`,
	)).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price"}).
			AddRow(int64(2), "Widget", "a widget", 9.99))

	it, err := repo.FindByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "Widget", it.Name)
	require.Equal(t, 9.99, it.Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_FindByIDMissing(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectQuery(`SELECT id, name, description, price FROM items`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Create(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO items (name, description, price) VALUES ($1, $2, $3) RETURNING id`,
	)).
		WithArgs("Widget", "a widget", 9.99).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := repo.Create(context.Background(), "Widget", "a widget", 9.99)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_UpdateReplacesAllFields(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE items SET name = $1, description = $2, price = $3 WHERE id = $4`,
	)).
		WithArgs("Gadget", "", 5.0, int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	found, err := repo.Update(context.Background(), 2, "Gadget", "", 5.0)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_UpdateMissingRow(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectExec(`UPDATE items SET`).
		WithArgs("Gadget", "", 5.0, int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	found, err := repo.Update(context.Background(), 404, "Gadget", "", 5.0)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_DeleteMissingRow(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectExec(`DELETE FROM items`).
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	found, err := repo.Delete(context.Background(), 404)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_SearchUsesSubstringMatch(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectQuery(`SELECT id, name, description, price FROM items WHERE name ILIKE`).
		WithArgs("note").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price"}).
			AddRow(int64(1), "Blue Notebook", "", 3.0))

	items, err := repo.Search(context.Background(), "note")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Blue Notebook", items[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_StorageFailureTagged(t *testing.T) {
	repo, mock := newItemRepoMock(t)

	mock.ExpectQuery(`SELECT id, name, description, price FROM items`).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.FindAll(context.Background())
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}
