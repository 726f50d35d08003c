package lightclient

import (
	"github.com/ethereum/go-ethereum/metrics"
)

// Light client meters are collected regardless of metrics.Enabled; the node
// configuration decides whether they get reported.
var (
	updateAcceptedCounter = metrics.NewRegisteredCounterForced("lightclient/update/accepted", nil)
	updateRejectedCounter = metrics.NewRegisteredCounterForced("lightclient/update/rejected", nil)

	historyCountGauge    = newRegisteredGaugeForced("lightclient/history/count")
	finalizedHeightGauge = newRegisteredGaugeForced("lightclient/finalized/height")
	epochGauge           = newRegisteredGaugeForced("lightclient/epoch")
)

func newRegisteredGaugeForced(name string) metrics.Gauge {
	g := new(metrics.StandardGauge)
	metrics.DefaultRegistry.Register(name, g)
	return g
}

func (c *Contract) updateGauges() {
	historyCountGauge.Update(int64(c.ledger.Count()))
	finalizedHeightGauge.Update(int64(c.state.Finalized.BlockHeight))
	epochGauge.Update(int64(c.CurrentEpoch()))
}
