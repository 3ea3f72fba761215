package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-dashboard/internal/application/service"
	"github.com/khoahotran/profile-dashboard/internal/config"
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type fetchResult struct {
	msg kafka.Message
	err error
}

// scriptedReader replays fetch results and cancels the run once they are used up.
type scriptedReader struct {
	results   []fetchResult
	cancel    context.CancelFunc
	fetches   int
	committed []int64
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.fetches >= len(r.results) {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	res := r.results[r.fetches]
	r.fetches++
	return res.msg, res.err
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

type flakyProcessor struct {
	failures int
	calls    []service.ProfileEvent
}

func (p *flakyProcessor) Execute(_ context.Context, evt service.ProfileEvent) error {
	p.calls = append(p.calls, evt)
	if p.failures > 0 {
		p.failures--
		return errors.New("store unavailable")
	}
	return nil
}

func eventMessage(t *testing.T, offset int64, email string) fetchResult {
	t.Helper()
	value, err := json.Marshal(service.ProfileEvent{EventType: profile.EventUpdated, Email: email})
	require.NoError(t, err)
	return fetchResult{msg: kafka.Message{Offset: offset, Key: []byte(email), Value: value}}
}

func newTestConsumer(reader *scriptedReader, processor *flakyProcessor) *ProfileEventConsumer {
	return &ProfileEventConsumer{
		reader:      reader,
		processor:   processor,
		logger:      logger.NewNopLogger(),
		backoff:     time.Millisecond,
		maxAttempts: 3,
	}
}

func TestNewProfileEventConsumer_RequiresBrokers(t *testing.T) {
	_, err := NewProfileEventConsumer(config.Config{}, &flakyProcessor{}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestConsumer_CommitsProcessedAndUndecodableMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{cancel: cancel, results: []fetchResult{
		{msg: kafka.Message{Offset: 1, Value: []byte("{not json")}},
		eventMessage(t, 2, "a@example.com"),
	}}
	processor := &flakyProcessor{}

	require.NoError(t, newTestConsumer(reader, processor).Run(ctx))
	assert.Equal(t, []int64{1, 2}, reader.committed)
	require.Len(t, processor.calls, 1)
	assert.Equal(t, "a@example.com", processor.calls[0].Email)
}

func TestConsumer_RetriesFailedEventBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{cancel: cancel, results: []fetchResult{
		eventMessage(t, 1, "a@example.com"),
		eventMessage(t, 2, "b@example.com"),
	}}
	processor := &flakyProcessor{failures: 2}

	require.NoError(t, newTestConsumer(reader, processor).Run(ctx))
	require.Len(t, processor.calls, 4)
	assert.Equal(t, "a@example.com", processor.calls[2].Email)
	assert.Equal(t, "b@example.com", processor.calls[3].Email)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_StopsWithoutCommittingWhenAttemptsRunOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{cancel: cancel, results: []fetchResult{
		eventMessage(t, 7, "a@example.com"),
		eventMessage(t, 8, "b@example.com"),
	}}
	processor := &flakyProcessor{failures: 100}

	err := newTestConsumer(reader, processor).Run(ctx)
	assert.ErrorContains(t, err, "offset 7")
	assert.Len(t, processor.calls, 3)
	assert.Empty(t, reader.committed)
	assert.Equal(t, 1, reader.fetches)
}

func TestConsumer_BacksOffOnFetchErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &scriptedReader{cancel: cancel, results: []fetchResult{
		{err: errors.New("broker unreachable")},
		{err: errors.New("broker unreachable")},
		eventMessage(t, 3, "a@example.com"),
	}}
	consumer := newTestConsumer(reader, &flakyProcessor{})
	consumer.backoff = 20 * time.Millisecond

	start := time.Now()
	require.NoError(t, consumer.Run(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, []int64{3}, reader.committed)
}
