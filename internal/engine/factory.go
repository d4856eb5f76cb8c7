package engine

import (
	"titan-trader/internal/interfaces"
	"titan-trader/internal/signal"
	"titan-trader/internal/store"
)

// Components bundles the engine with its owned collaborators so the caller
// can run the executor worker and reach the ledger for reporting.
type Components struct {
	Engine   interfaces.Engine
	Risk     *RiskController
	Executor *Executor
	Ledger   *Ledger
}

// New assembles the risk controller, ledger, executor and engine from
// configuration.
func New(cfg *store.Config, prices PriceView, broker interfaces.Broker, symbolFor func(uint32) string) Components {
	ledger := NewLedger(
		cfg.Risk.Capital,
		cfg.Exit.StopLossOffset,
		cfg.Exit.TakeProfitOffset,
		cfg.Exit.AutoExit,
	)
	risk := NewRiskController(
		cfg.Risk.Capital,
		cfg.Risk.AmountPerTrade,
		cfg.Risk.MaxTradesPerSymbol,
		ledger,
	)
	exec := NewExecutor(broker, ledger, risk, 0)

	params := signal.Params{
		BaselineWindow: cfg.Indicators.BaselineWindow,
		RangeWindow:    cfg.Indicators.RangeWindow,
		RangeMult:      cfg.Indicators.RangeMult,
		RSIPeriod:      cfg.Indicators.RSIPeriod,
		MinBars:        cfg.Indicators.MinBars,
		RSIUpper:       cfg.Indicators.RSIUpper,
		RSILower:       cfg.Indicators.RSILower,
	}
	series := signal.NewSeriesStore(cfg.Indicators.Lookback)
	alerts := AlertPrefs{
		SignalFired: cfg.Alerts.SignalFired,
		OrderPlaced: cfg.Alerts.OrderPlaced,
		Panic:       cfg.Alerts.Panic,
	}

	eng := newEngine(prices, series, params, risk, exec, ledger, symbolFor, alerts)
	return Components{Engine: eng, Risk: risk, Executor: exec, Ledger: ledger}
}
