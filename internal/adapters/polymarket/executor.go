package polymarket

// executor.go — Real order execution via Polymarket CLOB API.
//
// Implements ports.OrderExecutor using AuthClient for L1/L2 auth.
// Orders are submitted as FOK marketable buys: the bot either gets filled at
// the limit or not at all — no resting orders to manage between cycles.

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// Executor implements ports.OrderExecutor.
type Executor struct {
	auth *AuthClient
}

// NewExecutor creates an Executor over an authenticated client.
func NewExecutor(auth *AuthClient) *Executor {
	return &Executor{auth: auth}
}

// PlaceMarketOrder signs and submits a FOK BUY order to the CLOB.
// A venue rejection is reported in the result, never retried here.
func (e *Executor) PlaceMarketOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	if err := e.auth.EnsureCreds(ctx); err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: creds: %w", err)
	}

	negRisk, err := e.isNegRisk(ctx, req.TokenID)
	if err != nil {
		// Sin respuesta asumimos el exchange estándar
		negRisk = false
	}

	signed, err := e.auth.buildSignedOrder(req.TokenID, req.PriceLimit, req.SizeUSD, negRisk)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: sign: %w", err)
	}

	body := clobOrderRequest{
		Order: clobOrderBody{
			Salt:          json.Number(signed.Order.Salt.String()),
			Maker:         signed.Order.Maker.Hex(),
			Signer:        signed.Order.Signer.Hex(),
			Taker:         signed.Order.Taker.Hex(),
			TokenID:       req.TokenID,
			MakerAmount:   signed.Order.MakerAmount.String(),
			TakerAmount:   signed.Order.TakerAmount.String(),
			Expiration:    signed.Order.Expiration.String(),
			Nonce:         signed.Order.Nonce.String(),
			FeeRateBps:    signed.Order.FeeRateBps.String(),
			Side:          "BUY",
			SignatureType: int(signed.Order.SignatureType.Int64()),
			Signature:     "0x" + hex.EncodeToString(signed.Signature),
		},
		Owner:     e.auth.creds.APIKey,
		OrderType: "FOK",
	}

	var resp clobOrderResponse
	if err := e.auth.doL2(ctx, http.MethodPost, "/order", body, &resp); err != nil {
		return domain.OrderResult{}, fmt.Errorf("place order: post: %w", err)
	}

	result := domain.OrderResult{
		Success:  resp.Success && resp.ErrorMsg == "",
		OrderID:  resp.OrderID,
		Status:   resp.Status,
		ErrorMsg: resp.ErrorMsg,
	}
	return result, nil
}

// isNegRisk queries the CLOB to determine if a token uses the NegRisk adapter.
func (e *Executor) isNegRisk(ctx context.Context, tokenID string) (bool, error) {
	url := fmt.Sprintf("%s/neg-risk?token_id=%s", e.auth.clobBase, tokenID)

	var resp clobNegRiskResponse
	if err := e.auth.get(ctx, e.auth.clobLimiter, url, &resp); err != nil {
		return false, fmt.Errorf("neg-risk check: %w", err)
	}
	return resp.NegRisk, nil
}
