package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resultado del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, outcome domain.CycleOutcome) error {
	c.printCompact(outcome)
	if c.table && len(outcome.Whale.TopWallets) > 0 {
		c.printWhaleTable(outcome.Whale)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(o domain.CycleOutcome) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s", o.Timestamp.Format("15:04:05"), compactName(o.Question, 30))
	if o.RemainingSec >= 0 {
		fmt.Fprintf(&sb, " (%s left)", formatRemaining(o.RemainingSec))
	}
	fmt.Fprintf(&sb, " | yes=%.3f p=%.3f/%.3f conf=%.2f",
		o.YesPrice, o.Prediction.PUpShort, o.Prediction.PUpMedium, o.Prediction.Confidence)

	if o.Whale.GrossNotional > 0 {
		fmt.Fprintf(&sb, " | whale net$%.0f gross$%.0f (%d trades)",
			o.Whale.NetYesNotional, o.Whale.GrossNotional, o.Whale.TradeCount)
	}

	fmt.Fprintf(&sb, " | %s", o.Decision.Detail)

	if o.Execution != nil {
		if o.Execution.Success {
			fmt.Fprintf(&sb, " | order %s %s", o.Execution.OrderID, o.Execution.Status)
		} else {
			fmt.Fprintf(&sb, " | ORDER FAILED: %s", o.Execution.ErrorMsg)
		}
	}

	fmt.Fprintln(c.out, sb.String())
}

// printWhaleTable imprime el desglose de las wallets whale del ciclo.
func (c *Console) printWhaleTable(flow domain.WhaleFlow) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Wallet", "Net YES $", "Gross $", "Lean")

	for _, w := range flow.TopWallets {
		table.Append(
			shortWallet(w.Wallet),
			fmt.Sprintf("%+.0f", w.NetYes),
			fmt.Sprintf("%.0f", w.Gross),
			lean(w.NetYes),
		)
	}

	table.Render()
}

// lean devuelve la dirección dominante del flujo de una wallet.
func lean(net float64) string {
	switch {
	case net > 0:
		return "UP"
	case net < 0:
		return "DOWN"
	default:
		return "-"
	}
}

// shortWallet abrevia una dirección larga a 0x1234…abcd.
func shortWallet(w string) string {
	if len(w) <= 12 {
		return w
	}
	return w[:6] + "…" + w[len(w)-4:]
}

// compactName recorta el nombre del mercado a maxLen caracteres.
func compactName(q string, maxLen int) string {
	q = strings.TrimSpace(q)
	if len(q) <= maxLen {
		return q
	}
	return q[:maxLen-1] + "…"
}

// formatRemaining formatea segundos restantes como m:ss.
func formatRemaining(secs int64) string {
	d := time.Duration(secs) * time.Second
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
