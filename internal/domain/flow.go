package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	// WhaleThresholdUSDC es el notional bruto mínimo para que un wallet
	// cuente como whale dentro de la ventana de muestreo.
	WhaleThresholdUSDC = 200.0

	// maxTopWallets limita los wallets reportados en WhaleFlow.
	maxTopWallets = 8
)

// WalletFlow es el flujo direccional agregado de un wallet en la ventana actual.
type WalletFlow struct {
	Wallet string
	NetYes float64 // con signo: + sesgo YES, - sesgo NO
	Gross  float64 // sin signo
}

// WhaleFlow es el flujo agregado de los wallets whale de un mercado.
//
// Asimetría intencional: TradeCount cuenta TODOS los trades del scope
// (profundidad de la muestra), mientras que NetYesNotional y GrossNotional
// suman solo sobre los wallets que pasan el threshold.
type WhaleFlow struct {
	MarketID       string
	NetYesNotional float64
	GrossNotional  float64
	TradeCount     int
	Timestamp      time.Time
	TopWallets     []WalletFlow // orden descendente por Gross, máx 8
}

// AggregateWhaleFlow computa el flujo whale de un mercado a partir del tape.
//
// Clasificación direccional: BUY del lado up/yes suma notional al net del
// wallet, SELL lo resta; para el lado no/down el signo se invierte.
// Trades con notional no positivo se descartan.
func AggregateWhaleFlow(marketID string, trades []RawTrade, now time.Time) WhaleFlow {
	byWallet := make(map[string]*WalletFlow)
	scopeCount := 0

	for _, t := range trades {
		if t.ScopeSlug() != marketID {
			continue
		}
		scopeCount++

		notional := t.Notional()
		if notional <= 0 {
			continue
		}

		wallet := strings.ToLower(t.Wallet)
		if wallet == "" {
			wallet = "anon"
		}

		outcome := strings.ToLower(t.Outcome)
		isYes := outcome == "up" || outcome == "yes"
		isBuy := strings.ToUpper(t.Side) != "SELL"

		signed := notional
		if isYes != isBuy {
			signed = -notional
		}

		wf, ok := byWallet[wallet]
		if !ok {
			wf = &WalletFlow{Wallet: wallet}
			byWallet[wallet] = wf
		}
		wf.NetYes += signed
		wf.Gross += notional
	}

	whales := make([]WalletFlow, 0, len(byWallet))
	for _, wf := range byWallet {
		if wf.Gross >= WhaleThresholdUSDC {
			whales = append(whales, *wf)
		}
	}
	sort.Slice(whales, func(i, j int) bool {
		return whales[i].Gross > whales[j].Gross
	})

	flow := WhaleFlow{
		MarketID:   marketID,
		TradeCount: scopeCount,
		Timestamp:  now,
	}
	for _, w := range whales {
		flow.NetYesNotional += w.NetYes
		flow.GrossNotional += w.Gross
	}
	if len(whales) > maxTopWallets {
		whales = whales[:maxTopWallets]
	}
	flow.TopWallets = whales

	return flow
}
