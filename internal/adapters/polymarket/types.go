package polymarket

import "encoding/json"

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarket es un mercado de GET /markets. Gamma devuelve varios campos
// numéricos como strings y los arrays de outcomes como JSON embebido en
// strings, de ahí el uso de json.Number y el doble parse en mapping.go.
type gammaMarket struct {
	ID             string      `json:"id"`
	Slug           string      `json:"slug"`
	Question       string      `json:"question"`
	EndDateISO     string      `json:"endDate"`
	Active         bool        `json:"active"`
	Closed         bool        `json:"closed"`
	BestBid        json.Number `json:"bestBid"`
	BestAsk        json.Number `json:"bestAsk"`
	LastTradePrice json.Number `json:"lastTradePrice"`
	Outcomes       string      `json:"outcomes"`      // JSON string: ["Up","Down"]
	OutcomePrices  string      `json:"outcomePrices"` // JSON string: ["0.6","0.4"]
	CLOBTokenIDs   string      `json:"clobTokenIds"`  // JSON string: [yes, no]
}

// --- Data API ---

// rawDataTrade es un trade del tape público de GET /trades.
type rawDataTrade struct {
	ProxyWallet string      `json:"proxyWallet"`
	Side        string      `json:"side"`
	Size        json.Number `json:"size"`
	Price       json.Number `json:"price"`
	Timestamp   json.Number `json:"timestamp"`
	Slug        string      `json:"slug"`
	EventSlug   string      `json:"eventSlug"`
	Outcome     string      `json:"outcome"`
}

// --- CLOB API (ejecución) ---

// clobOrderRequest is the JSON body sent to POST /order.
type clobOrderRequest struct {
	Order     clobOrderBody `json:"order"`
	Owner     string        `json:"owner"`
	OrderType string        `json:"orderType"`
}

type clobOrderBody struct {
	Salt          json.Number `json:"salt"`
	Maker         string      `json:"maker"`
	Signer        string      `json:"signer"`
	Taker         string      `json:"taker"`
	TokenID       string      `json:"tokenId"`
	MakerAmount   string      `json:"makerAmount"`
	TakerAmount   string      `json:"takerAmount"`
	Expiration    string      `json:"expiration"`
	Nonce         string      `json:"nonce"`
	FeeRateBps    string      `json:"feeRateBps"`
	Side          string      `json:"side"`
	SignatureType int         `json:"signatureType"`
	Signature     string      `json:"signature"`
}

type clobOrderResponse struct {
	ErrorMsg string `json:"errorMsg"`
	OrderID  string `json:"orderID"`
	Status   string `json:"status"`
	Success  bool   `json:"success"`
}

type clobNegRiskResponse struct {
	NegRisk bool `json:"neg_risk"`
}
