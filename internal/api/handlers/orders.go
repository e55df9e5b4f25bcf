package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/api/models"
	"github.com/akaibo/orderbook/internal/matching"
	"github.com/akaibo/orderbook/internal/types"
)

// EngineHolder wraps the matching engine for dependency injection
type EngineHolder struct {
	Engine *matching.Engine
	Log    *zap.Logger
}

// NewEngineHolder creates a new engine holder
func NewEngineHolder(engine *matching.Engine, log *zap.Logger) *EngineHolder {
	if log == nil {
		log = zap.NewNop()
	}
	return &EngineHolder{Engine: engine, Log: log}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeErrorResponse writes an error response
func (eh *EngineHolder) writeErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	eh.Log.Warn("request failed",
		zap.String("error_code", string(httpErr.Error.Code)),
		zap.Int("status", httpErr.StatusCode))

	writeJSON(w, httpErr.StatusCode, models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	})
}

// engineErrorToHTTP maps core errors to the API error envelope. Rejections
// become 400s; an invariant violation is a 500, the book can no longer be
// trusted.
func engineErrorToHTTP(err error) *models.HTTPError {
	switch {
	case err == nil:
		return nil
	case matching.IsRejection(err):
		return models.ErrBadRequest(err.Error(), nil)
	case matching.IsInvariantViolation(err):
		return models.ErrInternal(err.Error())
	default:
		// Unknown engine errors get the same treatment as invariant trips.
		return models.ErrInternal(err.Error())
	}
}

// SubmitLimitOrderHandler handles limit order submission. Trades and
// residual placement are internal side effects; the response reports only
// acceptance and the assigned order id.
func (eh *EngineHolder) SubmitLimitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		eh.writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	side, price, quantity, httpErr := req.Validate()
	if httpErr != nil {
		eh.writeErrorResponse(w, httpErr)
		return
	}

	pair := strings.ToUpper(strings.TrimSpace(req.Pair))
	order := types.NewOrder(pair, side, price, quantity)

	if err := eh.Engine.Submit(order); err != nil {
		eh.writeErrorResponse(w, engineErrorToHTTP(err))
		return
	}

	eh.Log.Info("order submitted",
		zap.String("order_id", order.ID),
		zap.String("pair", pair),
		zap.String("side", side.String()))

	writeJSON(w, http.StatusOK, models.SubmitOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order placed successfully!",
		},
		OrderID: order.ID,
	})
}
