// Package municipality holds the per-municipality PEC integration settings.
// Each active municipality points at its own PEC installation with its own
// credentials and LEDI counterpart keys.
package municipality

import "time"

// IntegrationStatus gates whether a municipality participates in scheduled
// delivery runs.
type IntegrationStatus string

const (
	StatusActive   IntegrationStatus = "ACTIVE"
	StatusInactive IntegrationStatus = "INACTIVE"
)

// Defaults for installations migrated before the counterpart keys were
// collected. The PEC accepts these placeholders and flags the batch for
// manual review on its side.
const (
	DefaultContraChave   = "MISSING_CONTRA_CHAVE"
	DefaultCnpjRemetente = "00000000000191"
)

// Municipality is one municipal PEC integration.
type Municipality struct {
	ID                string
	Name              string
	CodIbge           string
	CNES              string
	PecURL            string
	PecUser           string
	PecPassword       string
	ContraChave       string
	CnpjRemetente     string
	IntegrationStatus IntegrationStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Normalize fills the counterpart-key defaults on partially configured rows.
func (m *Municipality) Normalize() {
	if m.ContraChave == "" {
		m.ContraChave = DefaultContraChave
	}
	if m.CnpjRemetente == "" {
		m.CnpjRemetente = DefaultCnpjRemetente
	}
}

// Deliverable reports whether the municipality can receive a delivery run at
// all. Missing endpoint or credentials abort before any record is touched.
func (m *Municipality) Deliverable() bool {
	return m.PecURL != "" && m.PecUser != "" && m.PecPassword != ""
}
