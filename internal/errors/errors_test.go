package errors_test

import (
	"context"
	"testing"

	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, apperrors.Wrapf(nil, "context %d", 1))
	})

	t.Run("keeps chain", func(t *testing.T) {
		err := apperrors.Wrapf(apperrors.ErrNotFound, "task %s", "t-1")
		require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		require.Equal(t, "task t-1: not found", err.Error())
	})
}

func TestJoin(t *testing.T) {
	err := apperrors.Join(apperrors.ErrSync, context.DeadlineExceeded)
	require.True(t, apperrors.Is(err, apperrors.ErrSync))
	require.True(t, apperrors.Is(err, context.DeadlineExceeded))

	require.Equal(t, apperrors.ErrSession, apperrors.Join(apperrors.ErrSession, nil))
}
