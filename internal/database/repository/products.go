package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ProductRepo handles the catalog table.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Upsert(ctx context.Context, p Product) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO products(id, title, description, price, category, image)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 title=excluded.title,
	 description=excluded.description,
	 price=excluded.price,
	 category=excluded.category,
	 image=excluded.image;
	`, p.ID, p.Title, p.Description, p.Price, p.Category, p.Image)
	return err
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, description, price, category, image FROM products ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Image); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `SELECT id, title, description, price, category, image FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
