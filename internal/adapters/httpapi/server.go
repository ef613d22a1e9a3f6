package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// StatusSource expone el estado en vivo del engine. Todo es read-only:
// el endpoint nunca muta nada.
type StatusSource interface {
	LastOutcome() (domain.CycleOutcome, bool)
	Positions() []domain.Position
}

// Server sirve GET /api/status con el snapshot del último ciclo.
type Server struct {
	src  StatusSource
	http *http.Server
}

// NewServer crea el servidor de estado en la dirección dada.
func NewServer(addr string, src StatusSource) *Server {
	s := &Server{src: src}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run sirve hasta que el contexto se cancele; el shutdown es limpio.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()
	slog.Info("status endpoint listening", "addr", s.http.Addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return s.http.Shutdown(shutCtx)
	case err := <-errc:
		return err
	}
}

// Handler expone el mux para tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

type statusResponse struct {
	Running   bool              `json:"running"`
	Cycle     *cycleView        `json:"cycle,omitempty"`
	Positions []domain.Position `json:"positions"`
}

type cycleView struct {
	MarketID     string        `json:"market_id"`
	Question     string        `json:"question"`
	RemainingSec int64         `json:"remaining_sec"`
	YesPrice     float64       `json:"yes_price"`
	PUpShort     float64       `json:"p_up_short"`
	PUpMedium    float64       `json:"p_up_medium"`
	Confidence   float64       `json:"confidence"`
	Action       domain.Action `json:"action"`
	Detail       string        `json:"detail"`
	WhaleNet     float64       `json:"whale_net"`
	WhaleGross   float64       `json:"whale_gross"`
	Timestamp    time.Time     `json:"timestamp"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Positions: s.src.Positions()}
	if resp.Positions == nil {
		resp.Positions = []domain.Position{}
	}

	if outcome, ok := s.src.LastOutcome(); ok {
		resp.Running = true
		resp.Cycle = &cycleView{
			MarketID:     outcome.MarketID,
			Question:     outcome.Question,
			RemainingSec: outcome.RemainingSec,
			YesPrice:     outcome.YesPrice,
			PUpShort:     outcome.Prediction.PUpShort,
			PUpMedium:    outcome.Prediction.PUpMedium,
			Confidence:   outcome.Prediction.Confidence,
			Action:       outcome.Decision.Action,
			Detail:       outcome.Decision.Detail,
			WhaleNet:     outcome.Whale.NetYesNotional,
			WhaleGross:   outcome.Whale.GrossNotional,
			Timestamp:    outcome.Timestamp,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("status encode failed", "err", err)
	}
}
