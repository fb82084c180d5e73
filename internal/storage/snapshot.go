package storage

import (
	"bytes"
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"

	"whalelake/internal/model"
)

// snapshotExt is the object key extension for snapshot files.
const snapshotExt = ".parquet"

// snapshotRow is the columnar schema of one snapshot: time (epoch millis),
// price, quantity, buyer_maker. One row per trade.
type snapshotRow struct {
	Time       int64   `parquet:"time"`
	Price      float64 `parquet:"price"`
	Quantity   float64 `parquet:"quantity"`
	BuyerMaker bool    `parquet:"buyer_maker"`
}

// SnapshotKey derives the object key for a batch flushed at ts, second
// granularity: "<prefix>_YYYYMMDD_HHMMSS.parquet". Second granularity keeps
// keys unique (flushes are a minute apart) and the date segment makes
// prefix listing by day cheap.
func SnapshotKey(prefix string, ts time.Time) string {
	return prefix + "_" + ts.UTC().Format("20060102_150405") + snapshotExt
}

// DayPrefix derives the listing prefix for all snapshots of ts's UTC day.
func DayPrefix(prefix string, ts time.Time) string {
	return prefix + "_" + ts.UTC().Format("20060102")
}

// EncodeSnapshot serializes a batch of trades into a parquet file body.
func EncodeSnapshot(trades []model.Trade) ([]byte, error) {
	rows := make([]snapshotRow, len(trades))
	for i, t := range trades {
		rows[i] = snapshotRow{
			Time:       t.Time.UnixMilli(),
			Price:      t.Price,
			Quantity:   t.Quantity,
			BuyerMaker: t.BuyerMaker,
		}
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[snapshotRow](&buf)
	if _, err := w.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeSnapshot deserializes a parquet file body back into trades.
func DecodeSnapshot(body []byte) ([]model.Trade, error) {
	rows, err := parquet.Read[snapshotRow](bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}

	trades := make([]model.Trade, len(rows))
	for i, r := range rows {
		trades[i] = model.Trade{
			Time:       time.UnixMilli(r.Time).UTC(),
			Price:      r.Price,
			Quantity:   r.Quantity,
			BuyerMaker: r.BuyerMaker,
		}
	}
	return trades, nil
}
