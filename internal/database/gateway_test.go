package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milovmv/larek/internal/database/repository"
	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/wizard"
)

func openTestDB(t *testing.T) (*LocalGateway, *sql.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "larek.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	migrations, err := filepath.Abs("migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrationsWithDB(db, migrations))
	require.NoError(t, SeedDefaults(context.Background(), db))
	return NewLocalGateway(db), db
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	g, db := openTestDB(t)
	ctx := context.Background()

	first, err := g.GetProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Seeding again must not duplicate rows.
	n, err := g.products.Count(ctx)
	require.NoError(t, err)
	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, Reseed(ctx, db))
	again, err := g.products.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, n, again)
}

func TestGetProductsMapsRows(t *testing.T) {
	t.Parallel()
	g, _ := openTestDB(t)

	products, err := g.GetProducts(context.Background())
	require.NoError(t, err)

	var priceless int
	for _, p := range products {
		require.NotEmpty(t, p.ID)
		require.NotEmpty(t, p.Title)
		if p.Price == nil {
			priceless++
		}
	}
	require.Equal(t, 1, priceless, "demo catalog carries exactly one priceless product")
}

func TestPostOrderPersists(t *testing.T) {
	t.Parallel()
	g, _ := openTestDB(t)
	ctx := context.Background()

	products, err := g.GetProducts(ctx)
	require.NoError(t, err)
	var items []string
	var total int64
	for _, p := range products {
		if p.Price == nil {
			continue
		}
		items = append(items, p.ID)
		total += *p.Price
		if len(items) == 2 {
			break
		}
	}
	require.Len(t, items, 2)

	res, err := g.PostOrder(ctx, wizard.OrderPayload{
		Payment: store.PaymentCard,
		Address: "Spolokh street 15",
		Email:   "a@b.co",
		Phone:   "+79001234567",
		Items:   items,
		Total:   total,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)
	require.Equal(t, total, res.Total)

	orders, err := g.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, res.ID, orders[0].ID)
	require.ElementsMatch(t, items, orders[0].ItemIDs)
	require.Equal(t, total, orders[0].Total)
}

func TestPostOrderRejections(t *testing.T) {
	t.Parallel()
	g, _ := openTestDB(t)
	ctx := context.Background()

	products, err := g.GetProducts(ctx)
	require.NoError(t, err)
	var priced, priceless store.Product
	for _, p := range products {
		if p.Price == nil {
			priceless = p
		} else if priced.ID == "" {
			priced = p
		}
	}
	require.NotEmpty(t, priced.ID)
	require.NotEmpty(t, priceless.ID)

	base := wizard.OrderPayload{
		Payment: store.PaymentCash,
		Address: "Spolokh street 15",
		Email:   "a@b.co",
		Phone:   "+79001234567",
	}

	empty := base
	_, err = g.PostOrder(ctx, empty)
	require.ErrorContains(t, err, "no items")

	unknown := base
	unknown.Items = []string{"nope"}
	_, err = g.PostOrder(ctx, unknown)
	require.ErrorContains(t, err, "unknown product")

	free := base
	free.Items = []string{priceless.ID}
	_, err = g.PostOrder(ctx, free)
	require.ErrorContains(t, err, "cannot be bought")

	mismatch := base
	mismatch.Items = []string{priced.ID}
	mismatch.Total = *priced.Price + 1
	_, err = g.PostOrder(ctx, mismatch)
	require.ErrorContains(t, err, "total mismatch")

	orders, err := g.orders.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders, "rejected orders leave no rows behind")
}

func TestOrderCreateRollsBackOnBadItem(t *testing.T) {
	t.Parallel()
	g, _ := openTestDB(t)
	ctx := context.Background()

	products, err := g.products.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	// Second line item violates the products foreign key, so the whole
	// order must roll back, including the already-inserted order row.
	err = g.orders.Create(ctx, repository.Order{
		ID:      "order-rollback",
		Payment: "card",
		Address: "Spolokh street 15",
		Email:   "a@b.co",
		Phone:   "+79001234567",
		Total:   100,
		ItemIDs: []string{products[0].ID, "missing"},
	})
	require.Error(t, err)

	orders, err := g.orders.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestProductRepoGet(t *testing.T) {
	t.Parallel()
	g, _ := openTestDB(t)
	ctx := context.Background()

	products, err := g.products.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	got, err := g.products.Get(ctx, products[0].ID)
	require.NoError(t, err)
	require.Equal(t, products[0].Title, got.Title)

	_, err = g.products.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
