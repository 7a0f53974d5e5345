package preview

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_RunsTask(t *testing.T) {
	var runs atomic.Int32
	r, err := NewRefresher(20*time.Millisecond, func(context.Context) { runs.Add(1) })
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, r.Stop())
}

func TestRefresher_RejectsNonPositiveInterval(t *testing.T) {
	_, err := NewRefresher(0, func(context.Context) {})
	require.Error(t, err)
}
