package services

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPublishesMessage(t *testing.T) {
	queue := NewChannelQueue(4)
	dispatcher := NewDurationUpdateDispatcher(queue)

	id := uuid.New()
	require.NoError(t, dispatcher.Dispatch(KindCourse, id, OpUpdate, map[string]string{"formation_id": "f1"}))

	select {
	case msg := <-queue.Messages():
		assert.Equal(t, KindCourse, msg.EntityType)
		assert.Equal(t, id, msg.EntityID)
		assert.Equal(t, OpUpdate, msg.Operation)
		assert.Equal(t, "f1", msg.Context["formation_id"])
	case <-time.After(time.Second):
		t.Fatal("no message published")
	}
}

func TestDispatchSkipsUnsavedEntities(t *testing.T) {
	queue := NewChannelQueue(4)
	dispatcher := NewDurationUpdateDispatcher(queue)

	require.NoError(t, dispatcher.Dispatch(KindExercise, uuid.Nil, OpCreate, nil))

	select {
	case msg := <-queue.Messages():
		t.Fatalf("unexpected message for unsaved entity: %+v", msg)
	default:
	}
}

func TestDispatchBatchFansOut(t *testing.T) {
	queue := NewChannelQueue(8)
	dispatcher := NewDurationUpdateDispatcher(queue)

	refs := []EntityRef{
		{Kind: KindCourse, ID: uuid.New()},
		{Kind: KindModule, ID: uuid.New()},
		{Kind: KindExercise, ID: uuid.Nil}, // skipped
	}
	require.NoError(t, dispatcher.DispatchBatch(refs, OpDelete, nil))

	queue.Close()
	var got []DurationUpdateMessage
	for msg := range queue.Messages() {
		got = append(got, msg)
	}
	require.Len(t, got, 2)
	assert.Equal(t, refs[0].ID, got[0].EntityID)
	assert.Equal(t, refs[1].ID, got[1].EntityID)
}

func TestChannelQueueCloseIsIdempotent(t *testing.T) {
	queue := NewChannelQueue(1)
	queue.Close()
	assert.NotPanics(t, func() { queue.Close() })
}

func TestConsumerReloadsAndNotifies(t *testing.T) {
	f := newFixture()
	propagation, _ := newPropagation(f.store)

	queue := NewChannelQueue(4)
	consumer := NewDurationUpdateConsumer(queue, propagation)

	var mu sync.Mutex
	var notified []DurationUpdateMessage
	consumer.OnPropagated(func(msg DurationUpdateMessage, _ uuid.UUID) {
		mu.Lock()
		notified = append(notified, msg)
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		consumer.Run()
		close(done)
	}()

	// The message carries only the id; the consumer reloads the course and
	// its children from the store.
	f.course.DurationMinutes = 0
	dispatcher := NewDurationUpdateDispatcher(queue)
	require.NoError(t, dispatcher.Dispatch(KindCourse, f.course.ID, OpUpdate, nil))

	queue.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not drain the queue")
	}

	assert.Equal(t, 65, f.course.DurationMinutes)
	require.Len(t, notified, 1)
	assert.Equal(t, f.course.ID, notified[0].EntityID)
}

func TestConsumerReportsFormationRootForLeafUpdates(t *testing.T) {
	f := newFixture()
	propagation, _ := newPropagation(f.store)

	queue := NewChannelQueue(4)
	consumer := NewDurationUpdateConsumer(queue, propagation)

	var mu sync.Mutex
	var roots []uuid.UUID
	consumer.OnPropagated(func(_ DurationUpdateMessage, formationID uuid.UUID) {
		mu.Lock()
		roots = append(roots, formationID)
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		consumer.Run()
		close(done)
	}()

	// An exercise edit carries no routing hints; the formation room is
	// derived from the walk itself.
	dispatcher := NewDurationUpdateDispatcher(queue)
	require.NoError(t, dispatcher.Dispatch(KindExercise, f.exercise.ID, OpUpdate, nil))

	queue.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not drain the queue")
	}

	require.Len(t, roots, 1)
	assert.Equal(t, f.formation.ID, roots[0])
}

func TestConsumerReportsFailuresAndKeepsRunning(t *testing.T) {
	f := newFixture()
	propagation, _ := newPropagation(f.store)

	queue := NewChannelQueue(4)
	consumer := NewDurationUpdateConsumer(queue, propagation)

	var mu sync.Mutex
	var reported []error
	var notified int
	consumer.OnError(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	})
	consumer.OnPropagated(func(DurationUpdateMessage, uuid.UUID) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		consumer.Run()
		close(done)
	}()

	dispatcher := NewDurationUpdateDispatcher(queue)
	require.NoError(t, dispatcher.Dispatch(KindCourse, uuid.New(), OpUpdate, nil)) // unknown id
	require.NoError(t, dispatcher.Dispatch(KindCourse, f.course.ID, OpUpdate, nil))

	queue.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not drain the queue")
	}

	assert.Len(t, reported, 1)
	assert.Equal(t, 1, notified)
}
