package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tokopintar/catalog-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'member',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  category TEXT,
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	images := `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  file_id TEXT NOT NULL UNIQUE,
  file_name TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  is_placeholder INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{users, products, images} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func newStoredProduct(name string, createdAt time.Time, imagePositions ...int) *models.Product {
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: "desc",
		Price:       decimal.NewFromFloat(19.99),
		Stock:       3,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	for _, pos := range imagePositions {
		product.Images = append(product.Images, models.ProductImage{
			ID:       uuid.New(),
			URL:      name + "-url-" + uuid.NewString(),
			FileID:   uuid.NewString(),
			FileName: name + ".jpg",
			Position: pos,
		})
	}
	return product
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := &models.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		PasswordHash: "x",
		Name:         "Owner",
	}
	require.NoError(t, db.Create(owner).Error)

	product := newStoredProduct("widget", time.Now().UTC(), 2, 0, 1)
	product.CreatedBy = &owner.ID

	_, err := repo.CreateProduct(ctx, product)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	assert.Equal(t, product.Name, stored.Name)
	require.NotNil(t, stored.Creator)
	assert.Equal(t, owner.Email, stored.Creator.Email)

	require.Len(t, stored.Images, 3)
	for i, img := range stored.Images {
		assert.Equal(t, i, img.Position, "images must come back in position order")
	}
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListProductsNewestFirst(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	older := newStoredProduct("older", base, 0)
	newer := newStoredProduct("newer", base.Add(time.Hour), 0)

	_, err := repo.CreateProduct(ctx, older)
	require.NoError(t, err)
	_, err = repo.CreateProduct(ctx, newer)
	require.NoError(t, err)

	rows, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "newer", rows[0].Name)
	assert.Equal(t, "older", rows[1].Name)
}

func TestRepositoryListProductsEmpty(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
