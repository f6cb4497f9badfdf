package backend

import (
	"context"
	"fmt"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

// Order fetches the authoritative snapshot of one order.
func (c *Client) Order(ctx context.Context, id int) (models.Order, error) {
	var env envelope[models.Order]
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/orders/%d", id), nil, &env); err != nil {
		return models.Order{}, err
	}
	return env.Data, nil
}

// UpdateStatus asks the store to move an order to a new status. On
// success the store notifies subscribed viewers through the push channel;
// callers converge by re-fetching, never by assuming the write landed.
func (c *Client) UpdateStatus(ctx context.Context, id int, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, "PUT", fmt.Sprintf("/api/orders/%d", id), body, nil)
}

// UpdateReceipt sets the delivery receipt flag without touching the
// status. isGet nil clears the flag back to undetermined (redelivery).
func (c *Client) UpdateReceipt(ctx context.Context, id int, isGet *int) error {
	body := map[string]*int{"isGet": isGet}
	return c.do(ctx, "PUT", fmt.Sprintf("/api/orders/%d/check", id), body, nil)
}
