package model

import (
	"time"

	"github.com/google/uuid"
)

// Contract types for OptionRecord.Type.
const (
	ContractCall = "CALL"
	ContractPut  = "PUT"
)

// Trigger kinds for UpdateState.LastTrigger.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// -----------------------------------------------------------------------------
// Snapshot Types
// -----------------------------------------------------------------------------

// EquitySnapshot is the equity dataset written to public/stocks.json by the
// collection script. It is replaced wholesale on every successful run.
type EquitySnapshot struct {
	GeneratedAt   string         `json:"atualizadoEm"`   // Generation time ("02/01/2006 15:04")
	ReferenceDate string         `json:"dataReferencia"` // Trading date the quotes refer to ("2006-01-02")
	Source        string         `json:"fonte"`          // Data source label (e.g., "cotahist-python + yfinance")
	TotalCount    int            `json:"totalAcoes"`     // Number of records in Stocks
	Stocks        []EquityRecord `json:"acoes"`          // Equity records, volume-descending
}

// EquityRecord is a single equity row. Optional fields are pointers because
// the script emits null for unknown values and zero is meaningful for the
// variation percentages.
type EquityRecord struct {
	Ticker       string         `json:"ticker"`            // Unique key within a snapshot (e.g., "TASA4")
	Company      string         `json:"empresa"`           // Company display name
	Price        float64        `json:"preco"`             // Last price (BRL)
	Sector       string         `json:"setor"`             // Sector label
	DividendYld  *float64       `json:"dy"`                // Dividend yield %
	PriceEarn    *float64       `json:"pl"`                // Price/earnings
	PriceBook    *float64       `json:"pvp"`               // Price/book value
	FiveYearVar  *float64       `json:"var5a"`             // 5-year variation %
	GrahamUpside *float64       `json:"upsideGraham"`      // Graham-number upside %
	DayVar       *float64       `json:"varDia"`            // Daily variation %
	WeekVar      *float64       `json:"varSemana"`         // Weekly variation %
	Volume       *int64         `json:"volume"`            // Trading volume
	UpdatedAt    string         `json:"ultimaAtualizacao"` // Per-ticker fetch time
	Options      []OptionRecord `json:"opcoes"`            // Options the script attached, passthrough
}

// DerivativesSnapshot is the derivatives dataset written to data/cotahist.json.
// It may be absent even when the equity snapshot exists. Header fields are
// passthrough; only Options is interpreted by the service.
type DerivativesSnapshot struct {
	GeneratedAt   string         `json:"atualizadoEm,omitempty"`
	ReferenceDate string         `json:"data_referencia,omitempty"`
	Source        string         `json:"fonte,omitempty"`
	TotalCount    int            `json:"total,omitempty"`
	Options       []OptionRecord `json:"opcoes"`
}

// OptionRecord is a single derivative contract. Duplicates are expected: an
// underlying has many strikes per expiration and both contract types.
type OptionRecord struct {
	Ticker     string   `json:"ticker"`        // Contract code (e.g., "TASAB45")
	Underlying string   `json:"ticker_objeto"` // Underlying equity ticker (e.g., "TASA4")
	Type       string   `json:"tipo"`          // ContractCall or ContractPut
	Price      *float64 `json:"preco"`         // Last premium, passthrough
	Strike     *float64 `json:"strike"`        // Strike price, optional
	Expiration string   `json:"vencimento"`    // Expiration date ("2006-01-02")
}

// -----------------------------------------------------------------------------
// Update State
// -----------------------------------------------------------------------------

// UpdateState is the most recent regeneration outcome. A single process-wide
// instance lives inside the orchestrator; everything else sees copies.
type UpdateState struct {
	Running        bool       // A regeneration is in flight
	LastRunID      uuid.UUID  // ID of the most recent run
	LastTrigger    string     // TriggerManual or TriggerScheduled
	LastStartedAt  *time.Time // Start of the most recent run
	LastFinishedAt *time.Time // End of the most recent completed run
	LastError      string     // Failure of the most recent completed run, "" on success
}
