package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	mu     sync.Mutex
	events []models.PersonEvent
	fail   bool
}

func (s *stubSink) Forward(ctx context.Context, event models.PersonEvent, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.fail {
		return errors.New("sink down")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func publishEvent(t *testing.T, q queue.Queue, event models.PersonEvent) {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, q.Publish(context.Background(), "person.events", event.PersonID, body))
}

func TestRelay_ForwardsEvents(t *testing.T) {
	q := queue.NewMemoryQueue(logger.Discard())
	sink := &stubSink{}
	relay := NewRelay(q, "person.events", sink, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, relay.Start(ctx))

	publishEvent(t, q, models.PersonEvent{Version: "v1", Type: models.EventPersonAdded, PersonID: "p1", Name: "Alice"})
	publishEvent(t, q, models.PersonEvent{Version: "v2", Type: models.EventPersonRemoved, PersonID: "p2"})

	assert.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "Alice", sink.events[0].Name)
	assert.Equal(t, models.EventPersonRemoved, sink.events[1].Type)
}

func TestRelay_SurvivesBadMessagesAndSinkErrors(t *testing.T) {
	q := queue.NewMemoryQueue(logger.Discard())
	sink := &stubSink{fail: true}
	relay := NewRelay(q, "person.events", sink, logger.Discard())
	require.NoError(t, relay.Start(context.Background()))

	require.NoError(t, q.Publish(context.Background(), "person.events", "bad", []byte("{not json")))
	publishEvent(t, q, models.PersonEvent{Version: "v1", Type: models.EventPersonAdded, PersonID: "p1"})

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()
	publishEvent(t, q, models.PersonEvent{Version: "v1", Type: models.EventPersonAdded, PersonID: "p2"})

	require.NoError(t, q.Close())
	assert.LessOrEqual(t, sink.count(), 2)
	assert.GreaterOrEqual(t, sink.count(), 1)
}

func TestRelay_ForwardsBufferedEventsAfterCancel(t *testing.T) {
	q := queue.NewMemoryQueue(logger.Discard())
	sink := &stubSink{}
	relay := NewRelay(q, "person.events", sink, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, relay.Start(ctx))
	cancel()

	for i := 0; i < 200; i++ {
		publishEvent(t, q, models.PersonEvent{Version: "v1", Type: models.EventPersonAdded, PersonID: fmt.Sprintf("p%d", i)})
	}

	require.NoError(t, q.Close())
	assert.Equal(t, 200, sink.count())
}

func TestRelay_StartOnClosedQueue(t *testing.T) {
	q := queue.NewMemoryQueue(logger.Discard())
	require.NoError(t, q.Close())

	relay := NewRelay(q, "person.events", &stubSink{}, logger.Discard())
	assert.Error(t, relay.Start(context.Background()))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(logger.NewWithWriter(&buf, "debug", "json"))

	err := sink.Forward(context.Background(), models.PersonEvent{
		Version:  "v2",
		Type:     models.EventPersonRenamed,
		PersonID: "p1",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"person_id":"p1"`)
	assert.Contains(t, buf.String(), `"payload_type":"PersonRenamed"`)
}
