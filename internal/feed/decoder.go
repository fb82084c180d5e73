// Package feed connects to the exchange trade stream and drives the
// ingestion pipeline: decode, alert, batch, flush.
package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"whalelake/internal/model"
)

// tradeMessage mirrors the exchange trade event payload. Pointer fields
// distinguish a missing key from a zero value; unknown keys are ignored.
type tradeMessage struct {
	TradeTime  *int64  `json:"T"`
	Price      *string `json:"p"`
	Quantity   *string `json:"q"`
	BuyerMaker *bool   `json:"m"`
}

// DecodeTrade parses one raw feed message into a Trade. A decode failure is
// returned to the caller to log and drop; it must never take the listener
// down. The returned Trade always satisfies Price > 0 and Quantity > 0.
func DecodeTrade(raw []byte) (model.Trade, error) {
	var msg tradeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return model.Trade{}, fmt.Errorf("malformed trade message: %w", err)
	}

	if msg.TradeTime == nil || msg.Price == nil || msg.Quantity == nil || msg.BuyerMaker == nil {
		return model.Trade{}, fmt.Errorf("trade message missing required fields")
	}

	if *msg.TradeTime <= 0 {
		return model.Trade{}, fmt.Errorf("invalid trade time: %d", *msg.TradeTime)
	}

	price, err := strconv.ParseFloat(*msg.Price, 64)
	if err != nil {
		return model.Trade{}, fmt.Errorf("invalid price %q: %w", *msg.Price, err)
	}
	if price <= 0 {
		return model.Trade{}, fmt.Errorf("invalid price: %v", price)
	}

	quantity, err := strconv.ParseFloat(*msg.Quantity, 64)
	if err != nil {
		return model.Trade{}, fmt.Errorf("invalid quantity %q: %w", *msg.Quantity, err)
	}
	if quantity <= 0 {
		return model.Trade{}, fmt.Errorf("invalid quantity: %v", quantity)
	}

	return model.Trade{
		Time:       time.UnixMilli(*msg.TradeTime).UTC(),
		Price:      price,
		Quantity:   quantity,
		BuyerMaker: *msg.BuyerMaker,
	}, nil
}
