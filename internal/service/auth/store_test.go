package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	now := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	id := uuid.New()
	sess := Session{UserID: uuid.New(), Role: "doctor", CreatedAt: now}

	require.NoError(t, s.SaveSession(ctx, id, sess, time.Hour))

	got, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	now = now.Add(59 * time.Minute)
	require.NoError(t, s.TouchSession(ctx, id, time.Hour))

	now = now.Add(30 * time.Minute)
	_, err = s.GetSession(ctx, id)
	require.NoError(t, err, "touch must extend the deadline")

	now = now.Add(31 * time.Minute)
	_, err = s.GetSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.TouchSession(ctx, id, time.Hour), ErrSessionNotFound)

	deleted, err := s.DeleteSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryStore_Failures(t *testing.T) {
	now := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.RecordFailure(ctx, "Doc", 15*time.Minute)
		require.NoError(t, err)
		assert.EqualValues(t, i, n)
	}

	n, err := s.Failures(ctx, "doc")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	now = now.Add(15 * time.Minute)
	n, err = s.Failures(ctx, "doc")
	require.NoError(t, err)
	assert.Zero(t, n, "window elapsed")

	_, _ = s.RecordFailure(ctx, "doc", 15*time.Minute)
	require.NoError(t, s.ClearFailures(ctx, "DOC"))
	n, _ = s.Failures(ctx, "doc")
	assert.Zero(t, n)
}
