// Package clients holds the HTTP clients for external services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sebodigital/internal/inventory"
	"sebodigital/internal/orders"
)

// EstanteVirtualClient talks to the Estante Virtual marketplace API.
type EstanteVirtualClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewEstanteVirtualClient(baseURL, token string, timeout time.Duration) *EstanteVirtualClient {
	return &EstanteVirtualClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type marketplaceOrderPayload struct {
	ID       string `json:"id"`
	Customer struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"customer"`
	ShippingDeadline *time.Time `json:"shipping_deadline"`
	Items            []struct {
		Title     string          `json:"title"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
	} `json:"items"`
}

// OpenOrders fetches orders awaiting fulfillment.
func (c *EstanteVirtualClient) OpenOrders(ctx context.Context) ([]*orders.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/orders?status=open", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload []marketplaceOrderPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	result := make([]*orders.Order, 0, len(payload))
	for _, p := range payload {
		order := &orders.Order{
			ID:               uuid.New(),
			ExternalID:       p.ID,
			CustomerName:     p.Customer.Name,
			ShippingAddress:  p.Customer.Address,
			Status:           orders.StatusPending,
			ShippingDeadline: p.ShippingDeadline,
		}
		for _, item := range p.Items {
			order.Items = append(order.Items, orders.Item{
				Title:     item.Title,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		result = append(result, order)
	}
	return result, nil
}

// PushTracking reports a tracking code for a shipped order.
func (c *EstanteVirtualClient) PushTracking(ctx context.Context, externalID, trackingCode string) error {
	body, err := json.Marshal(struct {
		TrackingCode string `json:"tracking_code"`
	}{TrackingCode: trackingCode})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/orders/%s/tracking", c.baseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// PublishListing creates or refreshes a listing on the marketplace.
func (c *EstanteVirtualClient) PublishListing(ctx context.Context, listing inventory.Listing) error {
	body, err := json.Marshal(listing)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/listings", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *EstanteVirtualClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
