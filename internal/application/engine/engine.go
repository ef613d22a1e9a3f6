package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
	"github.com/alejandrodnm/polyedge/internal/ports"
)

// Config contiene la configuración del engine.
type Config struct {
	PollInterval   time.Duration
	MaxPositionUSD float64
	EdgeThreshold  float64
	TradeTapeLimit int
	RunOnce        bool
}

// Engine es el orquestador del pipeline de decisión. Cada ciclo es
// independiente salvo el estado del resolver, el buffer y el trader;
// los ciclos nunca se solapan — el siguiente espera a que termine el actual.
type Engine struct {
	cfg      Config
	resolver *Resolver
	buffer   *domain.TickBuffer
	trades   ports.TradeProvider
	scorer   ports.BiasScorer
	trader   *domain.Trader
	executor ports.OrderExecutor // nil = paper mode
	notifier ports.Notifier
	storage  ports.Storage // opcional

	mu   sync.RWMutex
	last *domain.CycleOutcome

	now func() time.Time
}

// New crea un Engine con todas las dependencias inyectadas.
// executor puede ser nil (paper mode); storage y notifier son opcionales.
func New(
	cfg Config,
	resolver *Resolver,
	trades ports.TradeProvider,
	scorer ports.BiasScorer,
	executor ports.OrderExecutor,
	notifier ports.Notifier,
	storage ports.Storage,
) *Engine {
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		buffer:   domain.NewTickBuffer(),
		trades:   trades,
		scorer:   scorer,
		trader:   domain.NewTrader(cfg.MaxPositionUSD, cfg.EdgeThreshold),
		executor: executor,
		notifier: notifier,
		storage:  storage,
		now:      time.Now,
	}
}

// Run ejecuta el loop hasta que el contexto se cancele. Un ciclo fallido se
// loguea y se abandona; el siguiente arranca en su propio schedule.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"interval", e.cfg.PollInterval,
		"edge_threshold", e.cfg.EdgeThreshold,
		"max_position_usd", e.cfg.MaxPositionUSD,
		"live", e.executor != nil,
	)

	if err := e.runCycle(ctx); err != nil {
		slog.Error("cycle failed", "err", err)
		if e.cfg.RunOnce {
			return err
		}
	}

	if e.cfg.RunOnce {
		return nil
	}

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped")
			return nil
		case <-ticker.C:
			// runCycle es síncrono: el tick siguiente no puede computar
			// contra un set de posiciones que este ciclo aún está mutando
			if err := e.runCycle(ctx); err != nil {
				slog.Error("cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve su outcome.
func (e *Engine) RunOnce(ctx context.Context) (domain.CycleOutcome, error) {
	return e.cycle(ctx)
}

// LastOutcome devuelve el outcome del último ciclo completado, para la UI.
// Puramente derivado, sin efectos secundarios.
func (e *Engine) LastOutcome() (domain.CycleOutcome, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.last == nil {
		return domain.CycleOutcome{}, false
	}
	return *e.last, true
}

// runCycle ejecuta un ciclo completo y notifica/persiste el resultado.
func (e *Engine) runCycle(ctx context.Context) error {
	start := e.now()

	outcome, err := e.cycle(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientHistory) {
			// Benigno: el buffer aún está en warm-up
			slog.Info("warming up price buffer", "ticks", e.buffer.Len())
			return nil
		}
		return err
	}

	e.mu.Lock()
	e.last = &outcome
	e.mu.Unlock()

	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, outcome); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}
	if e.storage != nil {
		if err := e.storage.SaveCycle(ctx, outcome); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("cycle complete",
		"market", outcome.MarketID,
		"action", outcome.Decision.Action,
		"p_short", fmt.Sprintf("%.3f", outcome.Prediction.PUpShort),
		"p_medium", fmt.Sprintf("%.3f", outcome.Prediction.PUpMedium),
		"confidence", fmt.Sprintf("%.2f", outcome.Prediction.Confidence),
		"duration", e.now().Sub(start).Round(time.Millisecond),
	)
	return nil
}

// cycle ejecuta el pipeline: resolve → tick → whale → features → predict →
// trade → (opcional) execute. Todas las entradas de la extracción provienen
// del mismo snapshot resuelto.
func (e *Engine) cycle(ctx context.Context) (domain.CycleOutcome, error) {
	now := e.now()

	market, err := e.resolver.Resolve(ctx)
	if err != nil {
		return domain.CycleOutcome{}, fmt.Errorf("engine.cycle: resolve: %w", err)
	}

	tick := domain.NewMarketTick(market.MarketID(), domain.DeriveYesPrice(market), now)
	e.buffer.Append(tick)

	trades, err := e.trades.FetchRecentTrades(ctx, e.cfg.TradeTapeLimit)
	if err != nil {
		// El tape degradado no aborta el ciclo: flujo whale neutro
		slog.Warn("trade tape unavailable", "err", err)
		trades = nil
	}
	whale := domain.AggregateWhaleFlow(tick.MarketID, trades, now)

	features, err := domain.ExtractFeatures(e.buffer.Recent(20), whale, now)
	if err != nil {
		return domain.CycleOutcome{}, fmt.Errorf("engine.cycle: %w", err)
	}

	bias := 0.0
	if e.scorer != nil {
		bias = e.scorer.Score(ctx, features)
	}

	pred := domain.Predict(features, bias, now)
	decision := e.trader.OnPrediction(pred, features.YesPrice, now)

	outcome := domain.CycleOutcome{
		MarketID:     tick.MarketID,
		Question:     market.Question,
		RemainingSec: market.RemainingSeconds(now),
		YesPrice:     features.YesPrice,
		Whale:        whale,
		Prediction:   pred,
		Decision:     decision,
		Timestamp:    now,
	}

	if decision.Action == domain.ActionOpen && e.executor != nil {
		outcome.Execution = e.execute(ctx, market, decision)
	}

	return outcome, nil
}

// execute envía la orden real para una decisión OPEN. Un fallo de ejecución
// se reporta pero no revierte la posición ya registrada en el trader.
func (e *Engine) execute(ctx context.Context, market domain.MarketSnapshot, d domain.Decision) *domain.OrderResult {
	tokenID := market.YesTokenID
	if d.Side == domain.SideNo {
		tokenID = market.NoTokenID
	}
	if tokenID == "" {
		slog.Warn("no token id for market, skipping execution", "market", market.MarketID())
		return &domain.OrderResult{ErrorMsg: "missing clob token id"}
	}

	req := domain.OrderRequest{
		TokenID:    tokenID,
		Side:       d.Side,
		SizeUSD:    d.Position.SizeUSD,
		PriceLimit: d.Position.EntryPrice,
	}

	result, err := e.executor.PlaceMarketOrder(ctx, req)
	if err != nil {
		slog.Error("order execution failed", "market", market.MarketID(), "err", err)
		return &domain.OrderResult{ErrorMsg: err.Error()}
	}
	if !result.Success {
		slog.Error("order rejected by venue",
			"market", market.MarketID(), "status", result.Status, "err", result.ErrorMsg)
	} else {
		slog.Info("order placed",
			"market", market.MarketID(), "order_id", result.OrderID, "status", result.Status)
	}
	return &result
}

// Positions expone las posiciones abiertas del trader.
func (e *Engine) Positions() []domain.Position {
	return e.trader.Positions()
}
