package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewBatch(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	b := New("mun-1", ModeScheduled, now)

	require.Equal(t, StatusGenerated, b.Status)
	require.Equal(t, "09/2026", b.Competence)
	require.Equal(t, "BATCH_SCHEDULED_"+b.ID[:8], b.FileName)
	require.Nil(t, b.CompletedAt)
}

func TestClose(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name         string
		sent, failed int
		want         Status
	}{
		{"all delivered", 5, 0, StatusSent},
		{"mixed outcome", 3, 2, StatusPartial},
		{"nothing delivered", 0, 4, StatusError},
		{"empty run", 0, 0, StatusSent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("mun-1", ModeManual, now)
			b.Close(tt.sent, tt.failed, now)
			require.Equal(t, tt.want, b.Status)
			require.Equal(t, tt.sent+tt.failed, b.TotalRecords)
			require.NotNil(t, b.CompletedAt)
		})
	}
}

func TestAbort(t *testing.T) {
	now := time.Now()
	b := New("mun-1", ModeScheduled, now)
	b.Abort(now)
	require.Equal(t, StatusError, b.Status)
	require.Zero(t, b.TotalRecords)
	require.NotNil(t, b.CompletedAt)
}
