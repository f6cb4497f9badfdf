package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Figure is a numeric figure as the upstream store reports it. The
// aggregate endpoints are inconsistent about types: the same column comes
// back as "125000", 125000 or null depending on the query that produced
// it, so the raw value is kept verbatim and parsed on demand.
type Figure string

// Int parses the figure as an integer. Non-numeric values count as zero.
func (f Figure) Int() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(string(f)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FigureOf converts an integer back into the wire representation.
func FigureOf(n int64) Figure {
	return Figure(strconv.FormatInt(n, 10))
}

func (f *Figure) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = Figure(str)
		return nil
	}
	// Bare number; keep the raw digits.
	*f = Figure(s)
	return nil
}

func (f Figure) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// OrderItem is a single line of an order.
type OrderItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
}

// Shipping describes how an order is delivered.
type Shipping struct {
	Method        string  `json:"method"`
	Fee           float64 `json:"fee"`
	EstimatedDate string  `json:"estimated_date"`
}

// Order is the authoritative order snapshot as served by the upstream
// store. It is never mutated locally; the admin view only observes it.
//
// IsGet is the delivery receipt flag: nil = undetermined, 1 = customer
// confirmed receipt, 0 = customer reported non-receipt. It only carries
// meaning while Status is "Delivered".
type Order struct {
	ID           int         `json:"id"`
	Status       string      `json:"status"`
	IsGet        *int        `json:"isGet"`
	ReturnReason string      `json:"returnReason,omitempty"`
	CancelReason string      `json:"cancelReason,omitempty"`
	Items        []OrderItem `json:"items"`
	Shipping     Shipping    `json:"shipping"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	CouponCode  string  `json:"coupon_code,omitempty"`
	CouponType  string  `json:"coupon_type,omitempty"`
	CouponValue float64 `json:"coupon_value,omitempty"`
	Total       float64 `json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategorySales is one row of the sales-by-category aggregates. ParentID
// is nil for top-level categories and for orphans.
type CategorySales struct {
	ID            int    `json:"id"`
	ParentID      *int   `json:"parent_id,omitempty"`
	Name          string `json:"category_name"`
	TotalSold     Figure `json:"total_sold"`
	TotalQuantity Figure `json:"total_quantity"`
}

// RevenueDashboard feeds the revenue reporting screen.
type RevenueDashboard struct {
	TotalRevenue   Figure          `json:"total_revenue"`
	MonthlyRevenue []MonthlyFigure `json:"monthly_revenue"`
	ByCategory     []CategorySales `json:"by_category"`
}

// MonthlyFigure is one bar of the month-by-month revenue chart.
type MonthlyFigure struct {
	Month string `json:"month"`
	Total Figure `json:"total"`
}

// OrderStats feeds the order dashboard screen.
type OrderStats struct {
	TotalOrders int             `json:"total_orders"`
	ByStatus    []StatusCount   `json:"by_status"`
	ByCategory  []CategorySales `json:"by_category"`
}

// StatusCount is the number of orders currently in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
