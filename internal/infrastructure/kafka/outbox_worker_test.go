package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/internal/usecase"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

type fakeOutboxRepo struct {
	queue     []*usecase.OutboxEvent
	processed []int64
	reset     []int64
	failed    []int64
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	if limit > len(f.queue) {
		limit = len(f.queue)
	}
	batch := f.queue[:limit]
	f.queue = f.queue[limit:]
	return batch, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	f.processed = append(f.processed, id)
	return nil
}

func (f *fakeOutboxRepo) ResetToPending(_ context.Context, id int64) error {
	f.reset = append(f.reset, id)
	return nil
}

func (f *fakeOutboxRepo) MarkAsFailed(_ context.Context, id int64) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeProducer struct {
	err  error
	sent []int64
}

func (f *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req.ProductID)
	return nil
}

func outboxEvent(id, productID int64) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{ID: id, EventID: "evt", ProductID: productID, Payload: []byte(`{}`), Status: usecase.Processing}
}

func TestProcessBatchDeliversAndMarks(t *testing.T) {
	repo := &fakeOutboxRepo{queue: []*usecase.OutboxEvent{outboxEvent(1, 7), outboxEvent(2, 8)}}
	producer := &fakeProducer{}
	w := NewOutboxWorker(repo, nopLogger{}, producer, "")

	hasMore, err := w.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, hasMore)
	assert.Equal(t, []int64{7, 8}, producer.sent)
	assert.Equal(t, []int64{1, 2}, repo.processed)

	// Очередь опустела
	hasMore, err = w.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, hasMore)
}

func TestProcessBatchReturnsEventsToQueueOnBrokerFailure(t *testing.T) {
	repo := &fakeOutboxRepo{queue: []*usecase.OutboxEvent{outboxEvent(1, 7), outboxEvent(2, 8)}}
	producer := &fakeProducer{err: errors.New("dial tcp 10.0.0.1:9092: connection refused")}
	w := NewOutboxWorker(repo, nopLogger{}, producer, "")

	hasMore, err := w.processBatch(context.Background())
	require.NoError(t, err)

	// Дренаж останавливается, события возвращены в pending для переотправки
	assert.False(t, hasMore)
	assert.Equal(t, []int64{1, 2}, repo.reset)
	assert.Empty(t, repo.processed)
	assert.Empty(t, repo.failed)
}

func TestProcessBatchMarksPermanentFailures(t *testing.T) {
	repo := &fakeOutboxRepo{queue: []*usecase.OutboxEvent{outboxEvent(1, 7)}}
	producer := &fakeProducer{err: errors.New("kafka server: Message was too large")}
	w := NewOutboxWorker(repo, nopLogger{}, producer, "")

	hasMore, err := w.processBatch(context.Background())
	require.NoError(t, err)

	// Неустранимая ошибка не блокирует остальную очередь
	assert.True(t, hasMore)
	assert.Equal(t, []int64{1}, repo.failed)
	assert.Empty(t, repo.reset)
	assert.Empty(t, repo.processed)
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read tcp: i/o timeout"), true},
		{errors.New("Broker Not Available"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("kafka server: Message was too large"), false},
		{errors.New("invalid topic"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.retryable, isRetryableError(tc.err), "%v", tc.err)
	}
}
