// Package alert classifies notable trades and delivers whale alerts to
// Telegram.
package alert

import (
	"fmt"
	"strings"

	"whalelake/internal/model"
)

const (
	sideBuy  = "🟢 BUY"
	sideSell = "🔴 SELL"
)

// Classify decides whether a trade is a whale and formats the alert text.
// A trade qualifies when its quantity meets or exceeds the threshold, so the
// decision is monotonic in quantity. Returns ("", false) for trades below
// the threshold. Side-effect free.
func Classify(t model.Trade, threshold float64) (string, bool) {
	if t.Quantity < threshold {
		return "", false
	}

	side := sideBuy
	if t.BuyerMaker {
		side = sideSell
	}

	msg := fmt.Sprintf(
		"🚨 <b>WHALE ALERT</b> 🚨\n\n"+
			"%s <b>%.4f BTC</b>\n"+
			"Price: $%s\n"+
			"Value: $%s\n"+
			"Time: %s",
		side,
		t.Quantity,
		groupThousands(t.Price, 2),
		groupThousands(t.Notional(), 0),
		t.Time.Format("2006-01-02 15:04:05"),
	)
	return msg, true
}

// groupThousands formats v with the given number of decimals and commas
// between thousands groups, e.g. 75000 -> "75,000".
func groupThousands(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + b.String() + fracPart
}
