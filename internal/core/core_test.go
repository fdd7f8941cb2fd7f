package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsWrap(t *testing.T) {
	sentinels := []error{
		ErrInvalidInterface,
		ErrCaptureStartFailure,
		ErrWorkerJoinTimeout,
		ErrDecodeFailure,
		ErrConfigInvalid,
		ErrExporterClosed,
	}

	for _, s := range sentinels {
		t.Run(s.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("open eth0: %w", s)
			assert.True(t, errors.Is(wrapped, s))
			assert.Contains(t, s.Error(), "netsniff:")
		})
	}
}

func TestTimeFormatMilliseconds(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 7, 123456789, time.UTC)
	assert.Equal(t, "09:05:07.123", ts.Format(TimeFormat))
}
