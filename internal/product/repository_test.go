package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"id", "name", "description", "image_url", "price", "created_at"}

func TestRepository_GetProductByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(productColumns).
			AddRow("prod-1", "Desk Lamp", "warm light", "lamp.jpg", 2500, time.Now())

		mock.ExpectQuery("SELECT id, name, description, image_url, price, created_at FROM products WHERE id").
			WithArgs("prod-1").
			WillReturnRows(rows)

		p, err := repo.GetProductByID(context.Background(), "prod-1")
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Desk Lamp", p.Name)
		assert.Equal(t, int64(2500), p.Price)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, description, image_url, price, created_at FROM products WHERE id").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(productColumns))

		p, err := repo.GetProductByID(context.Background(), "missing")
		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, description, image_url, price, created_at FROM products WHERE id").
			WillReturnError(errors.New("db error"))

		_, err := repo.GetProductByID(context.Background(), "prod-1")
		assert.Error(t, err)
	})
}

func TestRepository_GetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows(productColumns).
		AddRow("prod-1", "Desk Lamp", "warm light", "lamp.jpg", 2500, time.Now()).
		AddRow("prod-2", "Notebook", "dotted", "note.jpg", 900, time.Now())

	mock.ExpectQuery("SELECT .* FROM products ORDER BY created_at DESC").
		WillReturnRows(rows)

	products, err := repo.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "prod-1", products[0].ID)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	input := NewProductInput{Name: "Desk Lamp", Description: "warm light", ImageURL: "lamp.jpg", Price: 2500}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(productColumns).
			AddRow("prod-1", input.Name, input.Description, input.ImageURL, input.Price, time.Now())

		mock.ExpectQuery("INSERT INTO products").
			WithArgs(input.Name, input.Description, input.ImageURL, input.Price).
			WillReturnRows(rows)

		p, err := repo.Create(context.Background(), input)
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "prod-1", p.ID)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO products").
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(context.Background(), input)
		assert.Error(t, err)
	})
}
