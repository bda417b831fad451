package repository

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/salescore/backend/internal/adapter/storage"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func newStatementRepository() *Repository {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return &Repository{db: &storage.DB{QueryBuilder: &psql}}
}

func TestCreateCustomerStatement_NullableIdentifiers(t *testing.T) {
	r := newStatementRepository()

	t.Run("Walk-in without code inserts NULL", func(t *testing.T) {
		_, args, err := r.createCustomerStatement(&domain.Customer{
			Email: "walkin@example.com",
			Name:  "Walk In",
		}).ToSql()

		assert.NoError(t, err)
		assert.Equal(t, (*string)(nil), args[0])
		assert.Equal(t, "walkin@example.com", *(args[1].(*string)))
	})

	t.Run("Provided identifiers pass through", func(t *testing.T) {
		_, args, err := r.createCustomerStatement(&domain.Customer{
			Code:  "C42",
			Email: "c42@example.com",
			Name:  "Known Customer",
		}).ToSql()

		assert.NoError(t, err)
		assert.Equal(t, "C42", *(args[0].(*string)))
		assert.Equal(t, "c42@example.com", *(args[1].(*string)))
	})

	t.Run("Both identifiers absent insert NULLs", func(t *testing.T) {
		_, args, err := r.createCustomerStatement(&domain.Customer{Name: "Anonymous"}).ToSql()

		assert.NoError(t, err)
		assert.Equal(t, (*string)(nil), args[0])
		assert.Equal(t, (*string)(nil), args[1])
	})
}
