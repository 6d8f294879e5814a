package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/cmd/roster/repository"
	"github.com/lyzr/roster/common/db"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/queue"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) *repository.Stores {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:roster-service-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	sqlite, err := db.OpenSQLite(ctx, dsn, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	require.NoError(t, sqlite.Migrate(ctx))

	stores, err := repository.NewSQLiteStores(sqlite)
	require.NoError(t, err)
	return stores
}

// steppingClock returns a clock that advances one second per call
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

// recordingQueue captures published messages
type recordingQueue struct {
	mu       sync.Mutex
	messages [][]byte
	keys     []string
	err      error
}

func (q *recordingQueue) Publish(_ context.Context, _ string, key string, message []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.keys = append(q.keys, key)
	q.messages = append(q.messages, message)
	return nil
}

func (q *recordingQueue) Subscribe(context.Context, string, queue.MessageHandler) error {
	return nil
}

func (q *recordingQueue) Close() error { return nil }

func payload(personID, name, timestamp string) models.PersonPayload {
	return models.PersonPayload{PersonID: personID, Name: name, Timestamp: timestamp}
}
