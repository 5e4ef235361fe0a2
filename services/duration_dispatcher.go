package services

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Operations carried on duration update messages.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpToggle = "toggle"
)

// DurationUpdateMessage asks the consumer to recompute one entity. The
// consumer reloads the entity from the database at consume time; the message
// never carries entity state.
type DurationUpdateMessage struct {
	EntityType EntityKind        `json:"entity_type"`
	EntityID   uuid.UUID         `json:"entity_id"`
	Operation  string            `json:"operation"`
	Context    map[string]string `json:"context,omitempty"`
}

// MessageQueue is the outbound port the dispatcher publishes on. The default
// transport is an in-process channel; the consumer side only sees Messages().
type MessageQueue interface {
	Publish(msg DurationUpdateMessage) error
	Messages() <-chan DurationUpdateMessage
	Close()
}

// ChannelQueue is a buffered in-process MessageQueue.
type ChannelQueue struct {
	ch   chan DurationUpdateMessage
	once sync.Once
}

func NewChannelQueue(size int) *ChannelQueue {
	if size <= 0 {
		size = 256
	}
	return &ChannelQueue{ch: make(chan DurationUpdateMessage, size)}
}

func (q *ChannelQueue) Publish(msg DurationUpdateMessage) error {
	q.ch <- msg
	return nil
}

func (q *ChannelQueue) Messages() <-chan DurationUpdateMessage {
	return q.ch
}

func (q *ChannelQueue) Close() {
	q.once.Do(func() { close(q.ch) })
}

// DurationUpdateDispatcher lets write-path code request a recompute without
// paying for the full upward walk inside the request.
type DurationUpdateDispatcher struct {
	queue MessageQueue
}

func NewDurationUpdateDispatcher(queue MessageQueue) *DurationUpdateDispatcher {
	return &DurationUpdateDispatcher{queue: queue}
}

// Dispatch enqueues a recompute for the entity. An entity without a persisted
// id has nothing to recompute: the dispatch is skipped with a log line and no
// error.
func (d *DurationUpdateDispatcher) Dispatch(kind EntityKind, id uuid.UUID, operation string, context map[string]string) error {
	if id == uuid.Nil {
		log.Printf("duration: skip dispatch for unsaved %s (op=%s)", kind, operation)
		return nil
	}
	msg := DurationUpdateMessage{
		EntityType: kind,
		EntityID:   id,
		Operation:  operation,
		Context:    context,
	}
	if err := d.queue.Publish(msg); err != nil {
		return err
	}
	log.Printf("duration: dispatched %s=%s op=%s", kind, id, operation)
	return nil
}

// DispatchBatch fans out one message per ref. Each entity's propagation runs
// independently on the consumer side.
func (d *DurationUpdateDispatcher) DispatchBatch(refs []EntityRef, operation string, context map[string]string) error {
	for _, ref := range refs {
		if err := d.Dispatch(ref.Kind, ref.ID, operation, context); err != nil {
			return err
		}
	}
	return nil
}

// DurationUpdateConsumer drains the queue and re-enters the propagation
// engine for each message.
type DurationUpdateConsumer struct {
	queue       MessageQueue
	propagation *DurationPropagationService
	report      func(err error) // optional error sink (e.g. rollbar)
	// optional success hook (e.g. websocket); formationID is the root the
	// propagation walk actually reached, uuid.Nil for orphans
	notify func(msg DurationUpdateMessage, formationID uuid.UUID)
}

func NewDurationUpdateConsumer(queue MessageQueue, propagation *DurationPropagationService) *DurationUpdateConsumer {
	return &DurationUpdateConsumer{queue: queue, propagation: propagation}
}

func (c *DurationUpdateConsumer) OnError(fn func(err error)) {
	c.report = fn
}

func (c *DurationUpdateConsumer) OnPropagated(fn func(msg DurationUpdateMessage, formationID uuid.UUID)) {
	c.notify = fn
}

// Run blocks until the queue closes. Failed messages are logged and reported;
// retry policy belongs to the transport, not here.
func (c *DurationUpdateConsumer) Run() {
	for msg := range c.queue.Messages() {
		formationID, err := c.propagation.Propagate(msg.EntityType, msg.EntityID)
		if err != nil {
			log.Printf("duration: propagation failed %s=%s op=%s: %v", msg.EntityType, msg.EntityID, msg.Operation, err)
			if c.report != nil {
				c.report(err)
			}
			continue
		}
		if c.notify != nil {
			c.notify(msg, formationID)
		}
	}
}
