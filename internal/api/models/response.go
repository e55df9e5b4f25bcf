package models

import "time"

// BaseResponse is the base structure for all API responses
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// SubmitOrderResponse represents the response for order submission
type SubmitOrderResponse struct {
	BaseResponse
	OrderID string `json:"order_id,omitempty"`
}

// PriceLevelDTO is one aggregated price level in an order book response.
// Price and quantity are fixed-point strings with their canonical scales
// (4 and 8 fractional digits).
type PriceLevelDTO struct {
	Side         string `json:"side"`
	Price        string `json:"price"`
	Quantity     string `json:"quantity"`
	CurrencyPair string `json:"currencyPair"`
	OrderCount   int    `json:"orderCount"`
}

// OrderBookResponse represents the aggregated order book for one pair
type OrderBookResponse struct {
	BaseResponse
	Pair string          `json:"currencyPair"`
	Bids []PriceLevelDTO `json:"bids"`
	Asks []PriceLevelDTO `json:"asks"`
}

// TradeDTO represents a trade in API responses. Price, quantity and quote
// volume are fixed-point strings with 4, 8 and 12 fractional digits.
type TradeDTO struct {
	ID           string    `json:"id"`
	Price        string    `json:"price"`
	Quantity     string    `json:"quantity"`
	CurrencyPair string    `json:"currencyPair"`
	TradedAt     time.Time `json:"tradedAt"`
	TakerSide    string    `json:"takerSide"`
	QuoteVolume  string    `json:"quoteVolume"`
}

// TradeHistoryResponse represents the response for trade history queries
type TradeHistoryResponse struct {
	BaseResponse
	Pair   string     `json:"currencyPair"`
	Trades []TradeDTO `json:"trades"`
	Count  int        `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Version       string    `json:"version"`
}
