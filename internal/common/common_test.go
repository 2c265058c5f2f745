package common

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opyta/sistema-financeiro/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		name     string
	}{
		{name: "invalid range", err: &InvalidRangeError{Reason: "missing start"}, sentinel: ErrInvalidRange},
		{name: "schema mismatch", err: &SchemaMismatchError{Table: "T", Expected: []string{"ID"}, Got: []string{"Id"}}, sentinel: ErrSchemaMismatch},
		{name: "invalid numeric", err: &InvalidNumericInputError{Field: "Budget", Value: "abc"}, sentinel: ErrInvalidNumericInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Contains(t, tt.err.Error(), tt.sentinel.Error())
		})
	}
}

func TestSchemaMismatchError_RowMessage(t *testing.T) {
	err := &SchemaMismatchError{Table: "Calc", Expected: []string{"ID", "A"}, Got: []string{"x"}, Row: 3}
	assert.Contains(t, err.Error(), "row 3 has 1 cells, header has 2")
}

func TestUserError(t *testing.T) {
	inner := errors.New("boom")
	err := NewUserError("could not load spreadsheet", inner)

	assert.Equal(t, "could not load spreadsheet: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "plain", (&UserError{UserMessage: "plain"}).Error())
}

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("down")
		}, opts)
		require.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry missing tables", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrTableNotFound
		}, opts)
		require.ErrorIs(t, err, ErrTableNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("bad request"), Retryable: false}
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)
	logger.Debug("hello", "sheet", "Projetos")
	assert.Contains(t, buf.String(), `"sheet":"Projetos"`)

	_, err = NewLogger(&buf, "loud", "json")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewLogger(&buf, "info", "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
