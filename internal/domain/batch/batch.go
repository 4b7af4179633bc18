// Package batch models delivery batches: one per municipality per run,
// tracking how many records reached the PEC and the terminal verdict of the
// run.
package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mode distinguishes scheduler-driven runs from operator-triggered ones.
type Mode string

const (
	ModeScheduled Mode = "SCHEDULED"
	ModeManual    Mode = "MANUAL"
)

// Status is the batch lifecycle. A batch is created GENERATED and closes into
// exactly one terminal state.
type Status string

const (
	StatusGenerated Status = "GENERATED"
	StatusSent      Status = "SENT"
	StatusPartial   Status = "PARTIAL"
	StatusError     Status = "ERROR"
)

// DeliveryBatch groups the records of one municipality delivery run.
type DeliveryBatch struct {
	ID             string
	MunicipalityID string
	Mode           Mode
	Status         Status
	Competence     string // MM/YYYY
	FileName       string
	TotalRecords   int
	SentRecords    int
	FailedRecords  int
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// New creates a GENERATED batch stamped with the current competence period.
func New(municipalityID string, mode Mode, now time.Time) *DeliveryBatch {
	id := uuid.NewString()
	return &DeliveryBatch{
		ID:             id,
		MunicipalityID: municipalityID,
		Mode:           mode,
		Status:         StatusGenerated,
		Competence:     Competence(now),
		FileName:       fmt.Sprintf("BATCH_%s_%s", mode, id[:8]),
		CreatedAt:      now,
	}
}

// Competence formats the MM/YYYY reporting period the Ministry attributes the
// batch to.
func Competence(t time.Time) string {
	return t.Format("01/2006")
}

// Close settles the batch. Every record delivered means SENT, a mixed outcome
// means PARTIAL, and nothing delivered means ERROR. A run that found no
// failures (including an empty one) counts as SENT.
func (b *DeliveryBatch) Close(sent, failed int, now time.Time) {
	b.SentRecords = sent
	b.FailedRecords = failed
	b.TotalRecords = sent + failed
	switch {
	case failed == 0:
		b.Status = StatusSent
	case sent > 0:
		b.Status = StatusPartial
	default:
		b.Status = StatusError
	}
	b.CompletedAt = &now
}

// Abort closes the batch as ERROR without touching record counters. Used when
// the PEC login fails and no record was attempted.
func (b *DeliveryBatch) Abort(now time.Time) {
	b.Status = StatusError
	b.CompletedAt = &now
}

// LogStatus is the per-record outcome recorded on the batch log.
type LogStatus string

const (
	LogSuccess LogStatus = "SUCCESS"
	LogError   LogStatus = "ERROR"
)

// Log is one per-record delivery trace inside a batch. PayloadDebug carries
// the base64 transport envelope of failed sends so support can replay them
// against a staging PEC.
type Log struct {
	ID           string
	BatchID      string
	RecordID     string
	UUIDFicha    string
	SheetType    string
	Status       LogStatus
	Message      string
	PayloadDebug string
	CreatedAt    time.Time
}
