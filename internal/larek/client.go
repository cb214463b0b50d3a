// Package larek is the HTTP client for the remote storefront API: the
// product catalog read and the order write the presenter consumes. The
// transport details stay here; callers only see catalog products and order
// results.
package larek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/milovmv/larek/internal/store"
	"github.com/milovmv/larek/internal/wizard"
)

// Client talks to the storefront API. It implements wizard.CatalogSource and
// wizard.OrderGateway.
type Client struct {
	baseURL string
	cdnURL  string
	http    *http.Client
}

// NewClient builds a client for the API at baseURL. Image paths returned by
// the catalog are relative; cdnURL is prefixed onto them.
func NewClient(baseURL, cdnURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cdnURL:  strings.TrimRight(cdnURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type productDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       *int64 `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

type productListDTO struct {
	Total int          `json:"total"`
	Items []productDTO `json:"items"`
}

type orderDTO struct {
	Payment string   `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Items   []string `json:"items"`
	Total   int64    `json:"total"`
}

type orderResultDTO struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
}

type apiErrorDTO struct {
	Error string `json:"error"`
}

// GetProducts fetches the full catalog.
func (c *Client) GetProducts(ctx context.Context) ([]store.Product, error) {
	var list productListDTO
	if err := c.do(ctx, http.MethodGet, "/product", nil, &list); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	items := make([]store.Product, 0, len(list.Items))
	for _, dto := range list.Items {
		items = append(items, store.Product{
			ID:          dto.ID,
			Title:       dto.Title,
			Description: dto.Description,
			Price:       dto.Price,
			Category:    dto.Category,
			ImageURL:    c.imageURL(dto.Image),
		})
	}
	return items, nil
}

// PostOrder places an order and returns the server's acknowledgement.
func (c *Client) PostOrder(ctx context.Context, order wizard.OrderPayload) (wizard.OrderResult, error) {
	body := orderDTO{
		Payment: string(order.Payment),
		Address: order.Address,
		Email:   order.Email,
		Phone:   order.Phone,
		Items:   order.Items,
		Total:   order.Total,
	}
	var res orderResultDTO
	if err := c.do(ctx, http.MethodPost, "/order", body, &res); err != nil {
		return wizard.OrderResult{}, fmt.Errorf("post order: %w", err)
	}
	return wizard.OrderResult{ID: res.ID, Total: res.Total}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiErrorDTO
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) imageURL(path string) string {
	if c.cdnURL == "" || path == "" || strings.Contains(path, "://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.cdnURL + path
}
