package polymarket

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// mapGammaMarket convierte un gammaMarket DTO a domain.MarketSnapshot.
// Los campos opcionales ausentes o malformados quedan en su zero value —
// la cadena de fallback de DeriveYesPrice se encarga del resto.
func mapGammaMarket(r gammaMarket) domain.MarketSnapshot {
	m := domain.MarketSnapshot{
		ID:       r.ID,
		Slug:     r.Slug,
		Question: r.Question,
		Active:   r.Active,
		Closed:   r.Closed,
	}

	if v, err := r.BestBid.Float64(); err == nil {
		m.BestBid = v
	}
	if v, err := r.BestAsk.Float64(); err == nil {
		m.BestAsk = v
	}
	if v, err := r.LastTradePrice.Float64(); err == nil {
		m.LastTradePrice = v
	}

	m.Outcomes = parseStringArray(r.Outcomes)
	m.OutcomePrices = parseFloatArray(r.OutcomePrices)

	if ids := parseStringArray(r.CLOBTokenIDs); len(ids) >= 2 {
		m.YesTokenID = ids[0]
		m.NoTokenID = ids[1]
	}

	if r.EndDateISO != "" {
		// Polymarket usa varios formatos; intentamos los más comunes
		for _, layout := range []string{
			time.RFC3339,
			"2006-01-02T15:04:05.000Z",
			"2006-01-02T15:04:05Z",
			"2006-01-02",
		} {
			if t, err := time.Parse(layout, r.EndDateISO); err == nil {
				m.EndDate = t.UTC()
				break
			}
		}
	}

	return m
}

// mapDataTrade convierte un trade raw del tape a domain.RawTrade.
func mapDataTrade(r rawDataTrade) domain.RawTrade {
	size, _ := r.Size.Float64()
	price, _ := r.Price.Float64()

	return domain.RawTrade{
		Wallet:    r.ProxyWallet,
		Side:      r.Side,
		Size:      size,
		Price:     price,
		Timestamp: parseTradeTimestamp(r.Timestamp),
		Slug:      r.Slug,
		EventSlug: r.EventSlug,
		Outcome:   r.Outcome,
	}
}

// parseStringArray decodifica un array JSON embebido en string: `["Up","Down"]`.
// Devuelve nil con input vacío o malformado.
func parseStringArray(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// parseFloatArray decodifica un array JSON de números-como-string: `["0.6","0.4"]`.
func parseFloatArray(s string) []float64 {
	if s == "" {
		return nil
	}
	var raw []json.Number
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	out := make([]float64, len(raw))
	for i, n := range raw {
		v, err := n.Float64()
		if err != nil {
			return nil
		}
		out[i] = v
	}
	return out
}

func parseTradeTimestamp(n json.Number) time.Time {
	s := n.String()
	// Unix timestamp en segundos o milisegundos
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		if sec > 1e12 {
			return time.Unix(sec/1000, (sec%1000)*int64(time.Millisecond))
		}
		return time.Unix(sec, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec)
	}
	for _, layout := range []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05.000Z", "2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
