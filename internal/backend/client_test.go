package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Token: "test-token"})
	require.NoError(t, err)
	return client
}

func TestOrder_FetchesAndUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/orders/42", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": 42, "status": "Delivered", "isGet": nil},
		})
	})

	order, err := client.Order(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, order.ID)
	assert.Equal(t, "Delivered", order.Status)
	assert.Nil(t, order.IsGet)
}

func TestUpdateStatus_SendsStatusBody(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/api/orders/42", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.UpdateStatus(context.Background(), 42, "Processing"))
	assert.Equal(t, map[string]string{"status": "Processing"}, got)
}

func TestUpdateReceipt_NullClearsFlag(t *testing.T) {
	var raw []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/42/check", r.URL.Path)
		raw, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.UpdateReceipt(context.Background(), 42, nil))
	assert.JSONEq(t, `{"isGet": null}`, string(raw))

	one := 1
	require.NoError(t, client.UpdateReceipt(context.Background(), 42, &one))
	assert.JSONEq(t, `{"isGet": 1}`, string(raw))
}

func TestDo_NonSuccessBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "order not found", http.StatusNotFound)
	})

	_, err := client.Order(context.Background(), 9)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Body, "order not found")
}

func TestCategorySales_MixedFigureTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":1,"category_name":"Tops","total_sold":"10"},
			{"id":5,"parent_id":1,"category_name":"Tees","total_sold":5}
		]}`))
	})

	records, err := client.CategorySales(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(10), records[0].TotalSold.Int())
	assert.Equal(t, int64(5), records[1].TotalSold.Int())
	require.NotNil(t, records[1].ParentID)
	assert.Equal(t, 1, *records[1].ParentID)
}

func TestRevenueDashboard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/revenue/dashboard", r.URL.Path)
		w.Write([]byte(`{"data":{
			"total_revenue":"900",
			"monthly_revenue":[{"month":"2026-01","total":"400"},{"month":"2026-02","total":500}]
		}}`))
	})

	dash, err := client.RevenueDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(900), dash.TotalRevenue.Int())
	require.Len(t, dash.MonthlyRevenue, 2)
	assert.Equal(t, int64(500), dash.MonthlyRevenue[1].Total.Int())
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestOrder_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Order(ctx, 1)
	assert.Error(t, err)
}
