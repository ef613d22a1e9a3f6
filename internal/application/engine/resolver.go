package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
	"github.com/alejandrodnm/polyedge/internal/ports"
)

// ErrNoMarket indica que ninguna estrategia de selección encontró un mercado.
// Es un error de configuración: el operador debe fijar un override explícito.
var ErrNoMarket = errors.New("no active up/down market found; set market_slug in config or POLYMARKET_MARKET_SLUG")

// ResolverConfig controla la selección y el refresh del mercado actual.
type ResolverConfig struct {
	MarketSlug      string // override explícito; "" = autodescubrir
	MarketID        string
	SlugPrefix      string        // p.ej. "btc-updown-5m"
	BucketSeconds   int64         // duración de la ventana
	RefreshInterval time.Duration // TTL de la cache
	TradeTapeLimit  int
}

// Resolver selecciona y trackea el mercado "actual" de la ventana corta.
// El rollover es implícito: cuando la ventana cacheada expira, el siguiente
// Resolve refetchea y el slug determinista del paso 2 apunta ya al bucket nuevo.
type Resolver struct {
	cfg     ResolverConfig
	markets ports.MarketProvider
	trades  ports.TradeProvider

	cached      domain.MarketSnapshot
	hasCached   bool
	lastRefresh time.Time
	now         func() time.Time // inyectable en tests
}

// NewResolver crea un Resolver con las dependencias inyectadas.
func NewResolver(cfg ResolverConfig, markets ports.MarketProvider, trades ports.TradeProvider) *Resolver {
	return &Resolver{
		cfg:     cfg,
		markets: markets,
		trades:  trades,
		now:     time.Now,
	}
}

// Resolve devuelve el snapshot del mercado actual, usando la cache si sigue
// fresca. Un fetch fallido conserva la cache anterior si existía.
func (r *Resolver) Resolve(ctx context.Context) (domain.MarketSnapshot, error) {
	now := r.now()

	if r.hasCached && !r.cached.Expired(now) && now.Sub(r.lastRefresh) < r.cfg.RefreshInterval {
		return r.cached, nil
	}

	m, err := r.selectMarket(ctx, now)
	if err != nil {
		// Los errores de configuración fallan fuerte; solo los fallos de
		// transporte degradan a la cache anterior.
		configErr := errors.Is(err, domain.ErrMarketNotFound) || errors.Is(err, ErrNoMarket)
		if r.hasCached && !configErr {
			slog.Warn("market refresh failed, reusing cached snapshot",
				"market", r.cached.MarketID(), "err", err)
			return r.cached, nil
		}
		return domain.MarketSnapshot{}, err
	}

	r.cached = m
	r.hasCached = true
	r.lastRefresh = now
	return m, nil
}

// selectMarket aplica la política de selección en orden de prioridad:
//  1. override explícito por slug o id — falla fuerte si no existe
//  2. slug determinista derivado del bucket temporal actual
//  3. descubrimiento por el tape de trades en vivo
//  4. scan del listado completo de mercados activos por keyword
func (r *Resolver) selectMarket(ctx context.Context, now time.Time) (domain.MarketSnapshot, error) {
	if r.cfg.MarketSlug != "" {
		m, err := r.markets.FetchMarketBySlug(ctx, r.cfg.MarketSlug)
		if err != nil {
			return domain.MarketSnapshot{}, fmt.Errorf("resolver: configured slug %q: %w", r.cfg.MarketSlug, err)
		}
		return m, nil
	}
	if r.cfg.MarketID != "" {
		m, err := r.markets.FetchMarketByID(ctx, r.cfg.MarketID)
		if err != nil {
			return domain.MarketSnapshot{}, fmt.Errorf("resolver: configured id %q: %w", r.cfg.MarketID, err)
		}
		return m, nil
	}

	// Paso 2: el slug de la ventana actual es derivable sin discovery
	slug := r.BucketSlug(now)
	m, err := r.markets.FetchMarketBySlug(ctx, slug)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, domain.ErrMarketNotFound) {
		return domain.MarketSnapshot{}, fmt.Errorf("resolver: bucket slug %q: %w", slug, err)
	}
	slog.Debug("bucket slug not listed yet, falling back to discovery", "slug", slug)

	if m, ok := r.discoverFromTape(ctx); ok {
		return m, nil
	}

	if m, ok := r.discoverFromListing(ctx); ok {
		return m, nil
	}

	return domain.MarketSnapshot{}, ErrNoMarket
}

// BucketSlug devuelve el slug esperado de la ventana que contiene now:
// <prefix>-<floor(unix/bucket)*bucket>.
func (r *Resolver) BucketSlug(now time.Time) string {
	bucket := r.cfg.BucketSeconds
	start := now.Unix() / bucket * bucket
	return fmt.Sprintf("%s-%d", r.cfg.SlugPrefix, start)
}

// discoverFromTape busca en el tape reciente el scope con mayor timestamp
// que siga la convención de naming, y fetchea ese mercado.
func (r *Resolver) discoverFromTape(ctx context.Context) (domain.MarketSnapshot, bool) {
	trades, err := r.trades.FetchRecentTrades(ctx, r.cfg.TradeTapeLimit)
	if err != nil || len(trades) == 0 {
		return domain.MarketSnapshot{}, false
	}

	prefix := r.cfg.SlugPrefix + "-"
	var best domain.RawTrade
	found := false
	for _, t := range trades {
		if !strings.HasPrefix(t.ScopeSlug(), prefix) {
			continue
		}
		if !found || t.Timestamp.After(best.Timestamp) {
			best = t
			found = true
		}
	}
	if !found {
		return domain.MarketSnapshot{}, false
	}

	m, err := r.markets.FetchMarketBySlug(ctx, best.ScopeSlug())
	if err != nil {
		slog.Debug("tape-discovered slug fetch failed", "slug", best.ScopeSlug(), "err", err)
		return domain.MarketSnapshot{}, false
	}
	return m, true
}

// discoverFromListing filtra el listado activo por keyword ("btc"/"bitcoin"
// + "up or down") y elige el de endDate más cercano.
func (r *Resolver) discoverFromListing(ctx context.Context) (domain.MarketSnapshot, bool) {
	all, err := r.markets.FetchActiveMarkets(ctx)
	if err != nil {
		slog.Warn("active market listing failed", "err", err)
		return domain.MarketSnapshot{}, false
	}

	var candidates []domain.MarketSnapshot
	for _, m := range all {
		q := strings.ToLower(m.Question + " " + m.Slug)
		if (strings.Contains(q, "bitcoin") || strings.Contains(q, "btc")) &&
			strings.Contains(q, "up or down") {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return domain.MarketSnapshot{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].EndDate.Before(candidates[j].EndDate)
	})
	return candidates[0], true
}
