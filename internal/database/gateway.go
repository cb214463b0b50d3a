package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/milovmv/larek/internal/database/repository"
	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/wizard"
)

// LocalGateway serves the catalog and accepts orders straight from sqlite.
// Used when no API base URL is configured. It applies the same checks a real
// server would: unknown and priceless items are rejected, and the submitted
// total must match the stored prices.
type LocalGateway struct {
	products *repository.ProductRepo
	orders   *repository.OrderRepo
}

func NewLocalGateway(db *sql.DB) *LocalGateway {
	return &LocalGateway{
		products: repository.NewProductRepo(db),
		orders:   repository.NewOrderRepo(db),
	}
}

func (g *LocalGateway) GetProducts(ctx context.Context) ([]store.Product, error) {
	rows, err := g.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]store.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, store.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			ImageURL:    p.Image,
		})
	}
	return out, nil
}

func (g *LocalGateway) PostOrder(ctx context.Context, order wizard.OrderPayload) (wizard.OrderResult, error) {
	if len(order.Items) == 0 {
		return wizard.OrderResult{}, errors.New("order has no items")
	}
	var total int64
	for _, id := range order.Items {
		p, err := g.products.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return wizard.OrderResult{}, fmt.Errorf("unknown product %s", id)
		}
		if err != nil {
			return wizard.OrderResult{}, err
		}
		if p.Price == nil {
			return wizard.OrderResult{}, fmt.Errorf("product %s cannot be bought", id)
		}
		total += *p.Price
	}
	if total != order.Total {
		return wizard.OrderResult{}, fmt.Errorf("total mismatch: submitted %d, priced %d", order.Total, total)
	}
	o := repository.Order{
		ID:      uuid.NewString(),
		Payment: string(order.Payment),
		Address: order.Address,
		Email:   order.Email,
		Phone:   order.Phone,
		Total:   total,
		ItemIDs: order.Items,
	}
	if err := g.orders.Create(ctx, o); err != nil {
		return wizard.OrderResult{}, fmt.Errorf("create order: %w", err)
	}
	return wizard.OrderResult{ID: o.ID, Total: total}, nil
}
