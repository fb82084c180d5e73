// Package model defines the domain models shared by the ingestion and
// dashboard sides of the application.
package model

import "time"

// Trade represents a single executed trade on the tracked pair, normalized
// from the exchange feed format. Trades are immutable once constructed:
// the decoder builds them, the batcher buffers them, the storage sink
// persists them. Nothing mutates a Trade after creation.
type Trade struct {
	// Time is when the trade executed on the exchange, millisecond
	// precision, UTC.
	Time time.Time `json:"time"`

	// Price is the execution price in quote currency. Always > 0.
	Price float64 `json:"price"`

	// Quantity is the traded amount in base-asset units. Always > 0.
	Quantity float64 `json:"quantity"`

	// BuyerMaker is true when the buyer was the resting (maker) order,
	// meaning the trade was initiated by an aggressive sell.
	BuyerMaker bool `json:"buyer_maker"`
}

// Notional returns the trade value in quote currency.
func (t Trade) Notional() float64 {
	return t.Price * t.Quantity
}

// Side returns "SELL" when the maker was on the buy side (the taker sold),
// otherwise "BUY".
func (t Trade) Side() string {
	if t.BuyerMaker {
		return "SELL"
	}
	return "BUY"
}
