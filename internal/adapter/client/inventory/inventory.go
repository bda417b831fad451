package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/adapter/config"
	"github.com/salescore/backend/internal/core/domain"
	"go.uber.org/zap"
)

// Client talks to the external inventory collaborator over HTTP. Every
// call has a finite timeout; a timed-out or failed call is a failure of
// that single call, which callers under the best-effort policy log and
// skip.
type Client struct {
	host   string
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg *config.Inventory, log *zap.Logger) (*Client, error) {
	return &Client{
		host:   cfg.HostString,
		http:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger: log,
	}, nil
}

type stockRequest struct {
	ProductID   string `json:"productId"`
	Quantity    int64  `json:"quantity"`
	OrderID     string `json:"orderId"`
	PerformedBy string `json:"performedBy,omitempty"`
}

type productResponse struct {
	ID      string  `json:"id"`
	SKU     string  `json:"sku"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	TaxRate float64 `json:"taxRate"`
}

func (c *Client) Reserve(ctx context.Context, productID string, quantity int64, orderNumber domain.DocumentNumber) (bool, error) {
	return c.stockOp(ctx, "reserve", stockRequest{
		ProductID: productID,
		Quantity:  quantity,
		OrderID:   string(orderNumber),
	})
}

func (c *Client) Release(ctx context.Context, productID string, quantity int64, orderNumber domain.DocumentNumber) (bool, error) {
	return c.stockOp(ctx, "release", stockRequest{
		ProductID: productID,
		Quantity:  quantity,
		OrderID:   string(orderNumber),
	})
}

func (c *Client) Fulfill(ctx context.Context, productID string, quantity int64, orderNumber domain.DocumentNumber, performedBy string) (bool, error) {
	return c.stockOp(ctx, "fulfill", stockRequest{
		ProductID:   productID,
		Quantity:    quantity,
		OrderID:     string(orderNumber),
		PerformedBy: performedBy,
	})
}

func (c *Client) stockOp(ctx context.Context, op string, payload stockRequest) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	requestStr := "http://" + c.host + "/inventory/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("stock operation rejected",
			zap.String("op", op),
			zap.String("product", payload.ProductID),
			zap.Int("status", resp.StatusCode))
		return false, nil
	}
	return true, nil
}

func (c *Client) GetProduct(ctx context.Context, ref string) (*domain.Product, error) {
	requestStr := "http://" + c.host + "/products/" + ref
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrDataNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status for product lookup",
			zap.String("ref", ref), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("bad response %v for request %s", resp.StatusCode, requestStr)
	}

	var result productResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	price, err := decimal.NewFromFloat64(result.Price)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}
	taxRate, err := decimal.NewFromFloat64(result.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	return &domain.Product{
		ID:      result.ID,
		SKU:     result.SKU,
		Name:    result.Name,
		Price:   price,
		TaxRate: taxRate,
	}, nil
}
