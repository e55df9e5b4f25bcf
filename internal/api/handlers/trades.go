package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/api/models"
	"github.com/akaibo/orderbook/internal/types"
)

func tradesToDTO(trades []*types.Trade) []models.TradeDTO {
	out := make([]models.TradeDTO, len(trades))
	for i, trade := range trades {
		out[i] = models.TradeDTO{
			ID:           trade.ID,
			Price:        trade.Price.StringFixed(types.PriceScale),
			Quantity:     trade.Quantity.StringFixed(types.QuantityScale),
			CurrencyPair: trade.Pair,
			TradedAt:     trade.TradedAt,
			TakerSide:    trade.TakerSide.String(),
			QuoteVolume:  trade.QuoteVolume.StringFixed(types.QuoteVolumeScale),
		}
	}
	return out
}

// GetTradeHistoryHandler returns the pair's trades, most recent first.
// A pair with no trades yields an empty list, not an error.
func (eh *EngineHolder) GetTradeHistoryHandler(w http.ResponseWriter, r *http.Request) {
	pair := strings.ToUpper(mux.Vars(r)["pair"])

	trades := eh.Engine.RecentTrades(pair)

	eh.Log.Debug("trade history retrieved",
		zap.String("pair", pair),
		zap.Int("count", len(trades)))

	writeJSON(w, http.StatusOK, models.TradeHistoryResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Pair:   pair,
		Trades: tradesToDTO(trades),
		Count:  len(trades),
	})
}
