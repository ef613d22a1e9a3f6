package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// fakeMarkets implementa ports.MarketProvider en memoria, contando llamadas.
type fakeMarkets struct {
	bySlug    map[string]domain.MarketSnapshot
	byID      map[string]domain.MarketSnapshot
	active    []domain.MarketSnapshot
	fetchErr  error // error de transporte a devolver en todos los fetches
	slugCalls int
	listCalls int
}

func (f *fakeMarkets) FetchMarketBySlug(_ context.Context, slug string) (domain.MarketSnapshot, error) {
	f.slugCalls++
	if f.fetchErr != nil {
		return domain.MarketSnapshot{}, f.fetchErr
	}
	m, ok := f.bySlug[slug]
	if !ok {
		return domain.MarketSnapshot{}, domain.ErrMarketNotFound
	}
	return m, nil
}

func (f *fakeMarkets) FetchMarketByID(_ context.Context, id string) (domain.MarketSnapshot, error) {
	if f.fetchErr != nil {
		return domain.MarketSnapshot{}, f.fetchErr
	}
	m, ok := f.byID[id]
	if !ok {
		return domain.MarketSnapshot{}, domain.ErrMarketNotFound
	}
	return m, nil
}

func (f *fakeMarkets) FetchActiveMarkets(_ context.Context) ([]domain.MarketSnapshot, error) {
	f.listCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.active, nil
}

// fakeTape implementa ports.TradeProvider.
type fakeTape struct {
	trades []domain.RawTrade
	err    error
}

func (f *fakeTape) FetchRecentTrades(_ context.Context, _ int) ([]domain.RawTrade, error) {
	return f.trades, f.err
}

func testResolverConfig() ResolverConfig {
	return ResolverConfig{
		SlugPrefix:      "btc-updown-5m",
		BucketSeconds:   300,
		RefreshInterval: 30 * time.Second,
		TradeTapeLimit:  400,
	}
}

func newTestResolver(cfg ResolverConfig, markets *fakeMarkets, tape *fakeTape, now time.Time) *Resolver {
	r := NewResolver(cfg, markets, tape)
	r.now = func() time.Time { return now }
	return r
}

func TestResolverBucketSlug(t *testing.T) {
	r := NewResolver(testResolverConfig(), nil, nil)

	// 1700000123 cae en el bucket que empieza en 1700000100
	now := time.Unix(1700000123, 0)
	assert.Equal(t, "btc-updown-5m-1700000100", r.BucketSlug(now))

	// El borde exacto del bucket pertenece al bucket que comienza ahí
	assert.Equal(t, "btc-updown-5m-1700000400", r.BucketSlug(time.Unix(1700000400, 0)))
}

func TestResolverExplicitSlugOverride(t *testing.T) {
	now := time.Unix(1700000123, 0)
	cfg := testResolverConfig()
	cfg.MarketSlug = "my-market"

	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"my-market": {Slug: "my-market", Active: true, EndDate: now.Add(3 * time.Minute)},
	}}
	r := newTestResolver(cfg, markets, &fakeTape{}, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my-market", m.Slug)
}

func TestResolverExplicitOverrideNotFoundFailsHard(t *testing.T) {
	now := time.Unix(1700000123, 0)
	cfg := testResolverConfig()
	cfg.MarketSlug = "typo-slug"

	// Aunque existan mercados descubribles, el override mal configurado no
	// cae silenciosamente al autodescubrimiento.
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"btc-updown-5m-1700000100": {Slug: "btc-updown-5m-1700000100", Active: true},
	}}
	r := newTestResolver(cfg, markets, &fakeTape{}, now)

	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, domain.ErrMarketNotFound)
}

func TestResolverExplicitIDOverride(t *testing.T) {
	now := time.Unix(1700000123, 0)
	cfg := testResolverConfig()
	cfg.MarketID = "512329"

	markets := &fakeMarkets{byID: map[string]domain.MarketSnapshot{
		"512329": {ID: "512329", Active: true},
	}}
	r := newTestResolver(cfg, markets, &fakeTape{}, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "512329", m.ID)
}

func TestResolverDeterministicBucketHit(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"btc-updown-5m-1700000100": {Slug: "btc-updown-5m-1700000100", Active: true, EndDate: now.Add(4 * time.Minute)},
	}}
	r := newTestResolver(testResolverConfig(), markets, &fakeTape{}, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "btc-updown-5m-1700000100", m.Slug)
}

func TestResolverTapeDiscovery(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"btc-updown-5m-1699999800": {Slug: "btc-updown-5m-1699999800", Active: true},
	}}
	tape := &fakeTape{trades: []domain.RawTrade{
		{EventSlug: "btc-updown-5m-1699999500", Timestamp: now.Add(-4 * time.Minute)},
		{EventSlug: "unrelated-market", Timestamp: now},
		// El más reciente que sigue la convención gana
		{EventSlug: "btc-updown-5m-1699999800", Timestamp: now.Add(-1 * time.Minute)},
	}}
	r := newTestResolver(testResolverConfig(), markets, tape, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "btc-updown-5m-1699999800", m.Slug)
}

func TestResolverListingScanFallback(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{active: []domain.MarketSnapshot{
		{Slug: "will-eth-hit-5k", Question: "Will ETH hit $5k?", EndDate: now.Add(time.Minute)},
		{Slug: "btc-late", Question: "Bitcoin Up or Down?", EndDate: now.Add(10 * time.Minute)},
		{Slug: "btc-soon", Question: "Bitcoin Up or Down?", EndDate: now.Add(2 * time.Minute)},
	}}
	r := newTestResolver(testResolverConfig(), markets, &fakeTape{}, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	// Gana el candidato con endDate más próximo
	assert.Equal(t, "btc-soon", m.Slug)
}

func TestResolverNoMarketAnywhere(t *testing.T) {
	now := time.Unix(1700000123, 0)
	r := newTestResolver(testResolverConfig(), &fakeMarkets{}, &fakeTape{}, now)

	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, ErrNoMarket)
}

func TestResolverCacheWithinTTL(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"btc-updown-5m-1700000100": {Slug: "btc-updown-5m-1700000100", Active: true, EndDate: now.Add(4 * time.Minute)},
	}}
	r := newTestResolver(testResolverConfig(), markets, &fakeTape{}, now)

	_, err := r.Resolve(context.Background())
	require.NoError(t, err)
	callsAfterFirst := markets.slugCalls

	// Segundo resolve dentro del TTL: sin tráfico adicional
	r.now = func() time.Time { return now.Add(10 * time.Second) }
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, markets.slugCalls)
}

func TestResolverRefreshAfterTTL(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"btc-updown-5m-1700000100": {Slug: "btc-updown-5m-1700000100", Active: true, EndDate: now.Add(4 * time.Minute)},
	}}
	r := newTestResolver(testResolverConfig(), markets, &fakeTape{}, now)

	_, err := r.Resolve(context.Background())
	require.NoError(t, err)
	callsAfterFirst := markets.slugCalls

	r.now = func() time.Time { return now.Add(45 * time.Second) }
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Greater(t, markets.slugCalls, callsAfterFirst)
}

func TestResolverExpiredMarketForcesRefresh(t *testing.T) {
	now := time.Unix(1700000100, 0)
	oldSlug := "btc-updown-5m-1700000100"
	newSlug := "btc-updown-5m-1700000400"
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		oldSlug: {Slug: oldSlug, Active: true, EndDate: time.Unix(1700000400, 0)},
		newSlug: {Slug: newSlug, Active: true, EndDate: time.Unix(1700000700, 0)},
	}}
	cfg := testResolverConfig()
	cfg.RefreshInterval = time.Hour // el TTL no va a forzar nada aquí
	r := newTestResolver(cfg, markets, &fakeTape{}, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, oldSlug, m.Slug)

	// La ventana anterior expiró: aunque el TTL no haya vencido, el snapshot
	// expirado fuerza refetch y el slug determinista apunta al bucket nuevo.
	r.now = func() time.Time { return time.Unix(1700000405, 0) }
	m, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newSlug, m.Slug)
}

func TestResolverTransportFailureReusesCache(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{bySlug: map[string]domain.MarketSnapshot{
		"btc-updown-5m-1700000100": {Slug: "btc-updown-5m-1700000100", Active: true, EndDate: now.Add(4 * time.Minute)},
	}}
	r := newTestResolver(testResolverConfig(), markets, &fakeTape{}, now)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)

	markets.fetchErr = errors.New("gamma: status 502")
	r.now = func() time.Time { return now.Add(time.Minute) }

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, m.Slug, got.Slug)
}

func TestResolverTransportFailureWithoutCache(t *testing.T) {
	now := time.Unix(1700000123, 0)
	markets := &fakeMarkets{fetchErr: errors.New("gamma: status 502")}
	r := newTestResolver(testResolverConfig(), markets, &fakeTape{}, now)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMarket)
}
