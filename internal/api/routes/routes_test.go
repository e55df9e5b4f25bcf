package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/api/handlers"
	"github.com/akaibo/orderbook/internal/api/models"
	"github.com/akaibo/orderbook/internal/api/routes"
	"github.com/akaibo/orderbook/internal/matching"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	engine := matching.NewEngine(zap.NewNop(), nil)
	holder := handlers.NewEngineHolder(engine, zap.NewNop())
	srv := httptest.NewServer(routes.SetupRoutes(holder, zap.NewNop()))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { engine.Close() })
	return &testServer{Server: srv, t: t}
}

func (ts *testServer) post(path string, body interface{}) *http.Response {
	ts.t.Helper()
	data, err := json.Marshal(body)
	require.NoError(ts.t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(ts.t, err)
	return resp
}

func (ts *testServer) get(path string) *http.Response {
	ts.t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(ts.t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func limitOrderBody(pair, side, price, quantity string) map[string]string {
	return map[string]string{
		"pair":     pair,
		"side":     side,
		"price":    price,
		"quantity": quantity,
	}
}

// TestSubmitMatchAndQueryFlow walks the full flow: rest a bid, cross it
// with an ask, verify the trade history and the empty book.
func TestSubmitMatchAndQueryFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post("/api/v1/orders/limit", limitOrderBody("BTCUSD", "buy", "50000", "0.01"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var submitResp models.SubmitOrderResponse
	decodeJSON(t, resp, &submitResp)
	assert.True(t, submitResp.Success)
	assert.NotEmpty(t, submitResp.OrderID)

	resp = ts.post("/api/v1/orders/limit", limitOrderBody("BTCUSD", "sell", "49900", "0.01"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Trade executed at the maker's price
	var history models.TradeHistoryResponse
	resp = ts.get("/api/v1/BTCUSD/tradehistory")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &history)

	require.Equal(t, 1, history.Count)
	assert.Equal(t, "50000.0000", history.Trades[0].Price)
	assert.Equal(t, "0.01000000", history.Trades[0].Quantity)
	assert.Equal(t, "SELL", history.Trades[0].TakerSide)
	assert.Equal(t, "500.000000000000", history.Trades[0].QuoteVolume)
	assert.Equal(t, "BTCUSD", history.Trades[0].CurrencyPair)
	assert.NotEmpty(t, history.Trades[0].ID)

	// Book is empty afterwards
	var book models.OrderBookResponse
	resp = ts.get("/api/v1/BTCUSD/orderbook")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &book)

	assert.Empty(t, book.Bids)
	assert.Empty(t, book.Asks)
}

// TestOrderBookAggregation verifies aggregated levels: summed quantities,
// order counts, priority ordering, lowercase side tokens.
func TestOrderBookAggregation(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []map[string]string{
		limitOrderBody("BTCUSD", "buy", "99", "1"),
		limitOrderBody("BTCUSD", "buy", "100", "2"),
		limitOrderBody("BTCUSD", "BUY", "100", "3"),
		limitOrderBody("BTCUSD", "sell", "101", "4"),
	} {
		resp := ts.post("/api/v1/orders/limit", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var book models.OrderBookResponse
	resp := ts.get("/api/v1/BTCUSD/orderbook")
	decodeJSON(t, resp, &book)

	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)

	assert.Equal(t, "100.0000", book.Bids[0].Price)
	assert.Equal(t, "5.00000000", book.Bids[0].Quantity)
	assert.Equal(t, 2, book.Bids[0].OrderCount)
	assert.Equal(t, "buy", book.Bids[0].Side)
	assert.Equal(t, "99.0000", book.Bids[1].Price)

	assert.Equal(t, "101.0000", book.Asks[0].Price)
	assert.Equal(t, "sell", book.Asks[0].Side)
	assert.Equal(t, "BTCUSD", book.Asks[0].CurrencyPair)
}

// TestNumbersAcceptedAsJSONNumbers checks that price/quantity may come in
// as bare numbers, not only strings.
func TestNumbersAcceptedAsJSONNumbers(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post("/api/v1/orders/limit", map[string]interface{}{
		"pair":     "BTCUSD",
		"side":     "buy",
		"price":    15000,
		"quantity": 0.05,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var book models.OrderBookResponse
	resp = ts.get("/api/v1/BTCUSD/orderbook")
	decodeJSON(t, resp, &book)

	require.Len(t, book.Bids, 1)
	assert.Equal(t, "15000.0000", book.Bids[0].Price)
	assert.Equal(t, "0.05000000", book.Bids[0].Quantity)
}

// TestPairIsNormalizedToUpper checks case-insensitive pair handling across
// submit and query paths.
func TestPairIsNormalizedToUpper(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post("/api/v1/orders/limit", limitOrderBody("btcusd", "buy", "100", "1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var book models.OrderBookResponse
	resp = ts.get("/api/v1/btcusd/orderbook")
	decodeJSON(t, resp, &book)

	assert.Equal(t, "BTCUSD", book.Pair)
	require.Len(t, book.Bids, 1)
}

// TestInvalidSubmitsRejected verifies the error envelope for bad input.
func TestInvalidSubmitsRejected(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body interface{}
		code models.ErrorCode
	}{
		{"UnknownSide", limitOrderBody("BTCUSD", "hold", "100", "1"), models.ErrInvalidSide},
		{"MissingPair", limitOrderBody("", "buy", "100", "1"), models.ErrMissingField},
		{"ZeroPrice", limitOrderBody("BTCUSD", "buy", "0", "1"), models.ErrInvalidPrice},
		{"NegativePrice", limitOrderBody("BTCUSD", "buy", "-1", "1"), models.ErrInvalidPrice},
		{"UnparsablePrice", limitOrderBody("BTCUSD", "buy", "abc", "1"), models.ErrInvalidPrice},
		{"ZeroQuantity", limitOrderBody("BTCUSD", "buy", "100", "0"), models.ErrInvalidQuantity},
		{"MissingQuantity", map[string]string{"pair": "BTCUSD", "side": "buy", "price": "100"}, models.ErrMissingField},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.post("/api/v1/orders/limit", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body models.BaseResponse
			decodeJSON(t, resp, &body)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}

	// Nothing rested
	var book models.OrderBookResponse
	resp := ts.get("/api/v1/BTCUSD/orderbook")
	decodeJSON(t, resp, &book)
	assert.Empty(t, book.Bids)
	assert.Empty(t, book.Asks)
}

// TestMalformedJSONRejected checks the decode failure path.
func TestMalformedJSONRejected(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/orders/limit", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.BaseResponse
	decodeJSON(t, resp, &body)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, models.ErrInvalidRequest, body.Error.Code)
}

// TestEmptyHistoryIsNotAnError checks the unknown-pair read path.
func TestEmptyHistoryIsNotAnError(t *testing.T) {
	ts := newTestServer(t)

	var history models.TradeHistoryResponse
	resp := ts.get("/api/v1/NOSUCHPAIR/tradehistory")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &history)

	assert.True(t, history.Success)
	assert.Equal(t, 0, history.Count)
	assert.Empty(t, history.Trades)
}

// TestHealthEndpoint checks the liveness surface.
func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var health models.HealthResponse
	resp := ts.get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &health)

	assert.Equal(t, "healthy", health.Status)
}
