package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}

type recordingHandler struct {
	mu    sync.Mutex
	calls []entity.Task
	fails int
}

func (h *recordingHandler) HandleTask(_ context.Context, task entity.Task) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, task)
	if h.fails > 0 {
		h.fails--
		return errors.New("transient")
	}
	return nil
}

func TestProducer_PublishesPersistentJSON(t *testing.T) {
	pub := &fakePublisher{}
	task := entity.Task{ID: "t1", Kind: entity.TaskAssign, LeadID: "lead-1", EnqueuedAt: time.Now().UTC()}

	require.NoError(t, NewProducer(pub).Enqueue(context.Background(), task))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "t1", pub.msg.MessageId)

	var decoded entity.Task
	require.NoError(t, json.Unmarshal(pub.msg.Body, &decoded))
	assert.Equal(t, entity.TaskAssign, decoded.Kind)
	assert.Equal(t, "lead-1", decoded.LeadID)
}

func TestProducer_WrapsPublishError(t *testing.T) {
	pub := &fakePublisher{err: amqp.ErrClosed}
	err := NewProducer(pub).Enqueue(context.Background(), entity.Task{Kind: entity.TaskNotify})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorker_AcksHandledTask(t *testing.T) {
	handler := &recordingHandler{}
	w := &Worker{Handler: handler, Logger: zap.NewNop()}
	ack := &fakeAck{}

	body, _ := json.Marshal(entity.Task{ID: "t1", Kind: entity.TaskNotify, LeadID: "lead-1"})
	w.process(context.Background(), body, ack)

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	require.Len(t, handler.calls, 1)
	assert.Equal(t, "lead-1", handler.calls[0].LeadID)
}

func TestWorker_DeadLettersFailures(t *testing.T) {
	handler := &recordingHandler{fails: 1}
	var failedKinds []string
	w := &Worker{Handler: handler, Logger: zap.NewNop(), OnFailure: func(kind string) { failedKinds = append(failedKinds, kind) }}
	ack := &fakeAck{}

	body, _ := json.Marshal(entity.Task{Kind: entity.TaskSyncBoard})
	w.process(context.Background(), body, ack)

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.Equal(t, []string{entity.TaskSyncBoard}, failedKinds)
}

func TestWorker_DropsMalformedBody(t *testing.T) {
	handler := &recordingHandler{}
	w := &Worker{Handler: handler, Logger: zap.NewNop()}
	ack := &fakeAck{}

	w.process(context.Background(), []byte("{not json"), ack)

	assert.True(t, ack.nacked)
	assert.Empty(t, handler.calls)
}

func TestInlineDispatcher_RunsTaskOnce(t *testing.T) {
	handler := &recordingHandler{}
	d := NewInlineDispatcher(handler, zap.NewNop())

	require.NoError(t, d.Enqueue(context.Background(), entity.Task{Kind: entity.TaskAssign, LeadID: "lead-1"}))
	d.Wait()

	assert.Len(t, handler.calls, 1)
}

func TestInlineDispatcher_FailedUpstreamTaskIsNotRetried(t *testing.T) {
	handler := &recordingHandler{fails: 100}
	d := NewInlineDispatcher(handler, zap.NewNop())
	var mu sync.Mutex
	var failed []string
	d.OnFailure = func(kind string) {
		mu.Lock()
		failed = append(failed, kind)
		mu.Unlock()
	}

	require.NoError(t, d.Enqueue(context.Background(), entity.Task{Kind: entity.TaskSyncBoard, LeadID: "lead-1"}))
	d.Wait()

	assert.Len(t, handler.calls, 1)
	assert.Equal(t, []string{entity.TaskSyncBoard}, failed)
}
