package engine

import "github.com/rs/zerolog"

// CutStatistics collects counts for each cutoff mechanism during one search.
type CutStatistics struct {
	TTCutoffs        uint64
	BetaCutoffs      uint64
	QNodes           uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
}

func (c CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("tt", c.TTCutoffs).
		Uint64("beta", c.BetaCutoffs).
		Uint64("qnodes", c.QNodes).
		Uint64("qstandpat", c.QStandPatCutoffs).
		Uint64("qbeta", c.QBetaCutoffs)
}
