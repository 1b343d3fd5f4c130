package util

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"locked", errors.New("database is locked"), true},
		{"table_locked", errors.New("database table is locked (5)"), true},
		{"busy", errors.New("database is busy"), true},
		{"sqlite_busy", errors.New("SQLITE_BUSY: retry"), true},
		{"bad_connection", errors.New("driver: bad connection"), true},
		{"not_found", errors.New("not found"), false},
		{"other", errors.New("constraint failed"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestRetryStopsOnNonTransient(t *testing.T) {
	t.Parallel()

	fatal := errors.New("constraint failed")
	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return fatal
	}, TxRetryOptions(context.Background())...)

	require.Error(t, err)
	assert.ErrorIs(t, err, fatal, "LastErrorOnly must preserve the sentinel")
	assert.Equal(t, 1, calls, "non-transient errors must not be retried")
}

func TestRetryRecoversFromTransient(t *testing.T) {
	t.Parallel()

	calls := 0
	result, err := RetryWithResult(context.Background(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, fmt.Errorf("query: %w", errors.New("database is locked"))
		}
		return 42, nil
	}, TxRetryOptions(context.Background())...)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), func() error {
		calls++
		return errors.New("database is locked")
	}, TxRetryOptions(context.Background())...)

	require.Error(t, err)
	assert.Equal(t, 5, calls, "transient errors retry up to the attempt bound")
}
