package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/api/models"
	"github.com/akaibo/orderbook/internal/book"
	"github.com/akaibo/orderbook/internal/types"
)

func levelsToDTO(pair string, side types.Side, levels []book.LevelSummary) []models.PriceLevelDTO {
	out := make([]models.PriceLevelDTO, len(levels))
	for i, level := range levels {
		out[i] = models.PriceLevelDTO{
			Side:         strings.ToLower(side.String()),
			Price:        level.Price.StringFixed(types.PriceScale),
			Quantity:     level.Quantity.StringFixed(types.QuantityScale),
			CurrencyPair: pair,
			OrderCount:   level.OrderCount,
		}
	}
	return out
}

// GetOrderBookHandler returns the aggregated book for one pair: bids
// highest-first, asks lowest-first, one entry per price level.
func (eh *EngineHolder) GetOrderBookHandler(w http.ResponseWriter, r *http.Request) {
	pair := strings.ToUpper(mux.Vars(r)["pair"])

	snapshot := eh.Engine.Snapshot(pair)

	eh.Log.Debug("order book snapshot retrieved",
		zap.String("pair", pair),
		zap.Int("bid_levels", len(snapshot.Bids)),
		zap.Int("ask_levels", len(snapshot.Asks)))

	writeJSON(w, http.StatusOK, models.OrderBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Pair: pair,
		Bids: levelsToDTO(pair, types.Buy, snapshot.Bids),
		Asks: levelsToDTO(pair, types.Sell, snapshot.Asks),
	})
}
