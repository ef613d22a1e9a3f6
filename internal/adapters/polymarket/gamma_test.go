package polymarket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyedge/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyedge/internal/domain"
)

const gammaMarketFixture = `[{
	"id": "501234",
	"slug": "btc-updown-5m-1750000200",
	"question": "Bitcoin Up or Down - June 15, 3:10PM ET",
	"endDate": "2025-06-15T19:15:00Z",
	"active": true,
	"closed": false,
	"bestBid": "0.54",
	"bestAsk": "0.56",
	"lastTradePrice": "0.55",
	"outcomes": "[\"Up\",\"Down\"]",
	"outcomePrices": "[\"0.55\",\"0.45\"]",
	"clobTokenIds": "[\"token_up_1\",\"token_down_1\"]"
}]`

func newTestClient(gammaSrv, dataSrv *httptest.Server) *polymarket.Client {
	gammaURL := ""
	dataURL := ""
	if gammaSrv != nil {
		gammaURL = gammaSrv.URL
	}
	if dataSrv != nil {
		dataURL = dataSrv.URL
	}
	return polymarket.NewClient(gammaURL, dataURL, "")
}

func TestFetchMarketBySlug_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "btc-updown-5m-1750000200", r.URL.Query().Get("slug"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(gammaMarketFixture))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil)
	m, err := client.FetchMarketBySlug(context.Background(), "btc-updown-5m-1750000200")

	require.NoError(t, err)
	assert.Equal(t, "btc-updown-5m-1750000200", m.Slug)
	assert.Equal(t, "501234", m.ID)
	assert.True(t, m.Active)
	assert.InDelta(t, 0.54, m.BestBid, 1e-9)
	assert.InDelta(t, 0.56, m.BestAsk, 1e-9)
	assert.Equal(t, []string{"Up", "Down"}, m.Outcomes)
	require.Len(t, m.OutcomePrices, 2)
	assert.InDelta(t, 0.55, m.OutcomePrices[0], 1e-9)
	assert.Equal(t, "token_up_1", m.YesTokenID)
	assert.Equal(t, "token_down_1", m.NoTokenID)
	assert.Equal(t, 2025, m.EndDate.Year())

	// la cadena de derivación usa outcomePrices primero
	assert.InDelta(t, 0.55, domain.DeriveYesPrice(m), 1e-9)
}

func TestFetchMarketBySlug_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil)
	_, err := client.FetchMarketBySlug(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrMarketNotFound)
}

func TestFetchMarketByID_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv, nil)
	_, err := client.FetchMarketByID(context.Background(), "501234")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMarketNotFound, "un 500 es fallo de transporte, no 'sin datos'")
}

func TestFetchActiveMarkets_MalformedOptionalFields(t *testing.T) {
	// outcomes malformado y book ausente → zero values, sin error
	fixture := `[{
		"id": "1",
		"slug": "btc-updown-5m-1750000500",
		"active": true,
		"closed": false,
		"outcomes": "not-json",
		"outcomePrices": ""
	}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("closed"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	client := newTestClient(srv, nil)
	markets, err := client.FetchActiveMarkets(context.Background())

	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Nil(t, markets[0].Outcomes)
	assert.Equal(t, 0.5, domain.DeriveYesPrice(markets[0]), "sin datos cae al neutral 0.5")
}
