package storage

// sqlite.go — journal de ciclos, solo escritura.
//
// Estrategia:
//   - `cycles`: una fila por ciclo de decisión con la predicción, el flujo
//     whale agregado y el veredicto del trader. El engine nunca lee de aquí;
//     el estado de trading vive en memoria.
//   - Prune automático al arrancar: ciclos > 30d.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    decided_at     DATETIME NOT NULL,
    market_id      TEXT     NOT NULL,
    question       TEXT,
    remaining_sec  INTEGER  NOT NULL DEFAULT -1,
    yes_price      REAL     NOT NULL,
    p_up_short     REAL     NOT NULL,
    p_up_medium    REAL     NOT NULL,
    confidence     REAL     NOT NULL,
    reason         TEXT,
    whale_net      REAL     NOT NULL DEFAULT 0,
    whale_gross    REAL     NOT NULL DEFAULT 0,
    whale_trades   INTEGER  NOT NULL DEFAULT 0,
    action         TEXT     NOT NULL,
    side           TEXT,
    entry_price    REAL,
    size_usd       REAL,
    order_id       TEXT,
    order_status   TEXT,
    order_success  INTEGER,
    order_error    TEXT
);

CREATE INDEX IF NOT EXISTS idx_cycles_at     ON cycles(decided_at DESC);
CREATE INDEX IF NOT EXISTS idx_cycles_market ON cycles(market_id);
CREATE INDEX IF NOT EXISTS idx_cycles_action ON cycles(action);
`

// Ciclos de más de 30 días no aportan nada al análisis de la heurística.
const retentionCycles = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia ciclos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCycle persiste el outcome de un ciclo como una fila del journal.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, o domain.CycleOutcome) error {
	var (
		side       *string
		entryPrice *float64
		sizeUSD    *float64
	)
	if o.Decision.Action == domain.ActionOpen {
		sd := string(o.Decision.Side)
		ep := o.Decision.Position.EntryPrice
		su := o.Decision.Position.SizeUSD
		side, entryPrice, sizeUSD = &sd, &ep, &su
	}

	var (
		orderID, orderStatus, orderError *string
		orderSuccess                     *bool
	)
	if o.Execution != nil {
		orderID = &o.Execution.OrderID
		orderStatus = &o.Execution.Status
		orderError = &o.Execution.ErrorMsg
		orderSuccess = &o.Execution.Success
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (
			decided_at, market_id, question, remaining_sec, yes_price,
			p_up_short, p_up_medium, confidence, reason,
			whale_net, whale_gross, whale_trades,
			action, side, entry_price, size_usd,
			order_id, order_status, order_success, order_error
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.Timestamp.UTC(), o.MarketID, o.Question, o.RemainingSec, o.YesPrice,
		o.Prediction.PUpShort, o.Prediction.PUpMedium, o.Prediction.Confidence, o.Prediction.Reason,
		o.Whale.NetYesNotional, o.Whale.GrossNotional, o.Whale.TradeCount,
		string(o.Decision.Action), side, entryPrice, sizeUSD,
		orderID, orderStatus, orderSuccess, orderError,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: %w", err)
	}
	return nil
}

// CycleRow es una fila del journal tal como se leyó de la base de datos.
// Solo la usan herramientas de análisis y los tests; el engine no lee.
type CycleRow struct {
	DecidedAt  time.Time
	MarketID   string
	Question   string
	YesPrice   float64
	PUpShort   float64
	Confidence float64
	Action     string
	Side       string
	EntryPrice float64
	SizeUSD    float64
}

// RecentCycles devuelve las últimas n filas del journal, más recientes primero.
func (s *SQLiteStorage) RecentCycles(ctx context.Context, n int) ([]CycleRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT decided_at, market_id, question, yes_price, p_up_short, confidence,
		       action, COALESCE(side, ''), COALESCE(entry_price, 0), COALESCE(size_usd, 0)
		FROM cycles
		ORDER BY decided_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentCycles: %w", err)
	}
	defer rows.Close()

	var out []CycleRow
	for rows.Next() {
		var r CycleRow
		if err := rows.Scan(&r.DecidedAt, &r.MarketID, &r.Question, &r.YesPrice,
			&r.PUpShort, &r.Confidence, &r.Action, &r.Side, &r.EntryPrice, &r.SizeUSD); err != nil {
			return nil, fmt.Errorf("storage.RecentCycles: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// pruneOld elimina ciclos fuera del periodo de retención.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionCycles)
	res, err := s.db.ExecContext(ctx, `DELETE FROM cycles WHERE decided_at < ?`, cutoff)
	if err != nil {
		slog.Warn("cycle journal prune failed", "err", err)
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Debug("pruned old cycles", "rows", n)
	}
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
