package backend

import (
	"context"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

// CategorySales fetches the flat sales-by-category rows. Callers fold
// them into reporting buckets themselves; the store returns the raw tree.
func (c *Client) CategorySales(ctx context.Context) ([]models.CategorySales, error) {
	var env envelope[[]models.CategorySales]
	if err := c.do(ctx, "GET", "/api/categories", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RevenueDashboard fetches the revenue dashboard aggregates.
func (c *Client) RevenueDashboard(ctx context.Context) (models.RevenueDashboard, error) {
	var env envelope[models.RevenueDashboard]
	if err := c.do(ctx, "GET", "/api/revenue/dashboard", nil, &env); err != nil {
		return models.RevenueDashboard{}, err
	}
	return env.Data, nil
}

// OrderStats fetches the order dashboard aggregates.
func (c *Client) OrderStats(ctx context.Context) (models.OrderStats, error) {
	var env envelope[models.OrderStats]
	if err := c.do(ctx, "GET", "/api/orders/dashboard/stats", nil, &env); err != nil {
		return models.OrderStats{}, err
	}
	return env.Data, nil
}
