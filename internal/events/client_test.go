package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	subject  string
	payload  []byte
	deadline time.Time
	opts     int
	ack      *jetstream.PubAck
	err      error
}

func (f *fakeStream) Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.subject = subject
	f.payload = payload
	f.deadline, _ = ctx.Deadline()
	f.opts = len(opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.ack, nil
}

func testPublisher(stream *fakeStream) *NATSPublisher {
	return newPublisher(nil, stream, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNATSPublisher_PublishWaitsForAck(t *testing.T) {
	stream := &fakeStream{ack: &jetstream.PubAck{Stream: StreamName, Sequence: 7}}
	p := testPublisher(stream)

	start := time.Now()
	err := p.Publish(context.Background(), SubjectMatchCompleted("run-1"), MatchCompletedEvent{RunID: "run-1", Returned: 3})
	require.NoError(t, err)

	assert.Equal(t, "northstar.match.run-1.completed", stream.subject)
	assert.Equal(t, 1, stream.opts, "message id option")
	assert.False(t, stream.deadline.IsZero(), "publish must carry an ack deadline")
	assert.WithinDuration(t, start.Add(DefaultAckTimeout), stream.deadline, time.Second)

	var evt MatchCompletedEvent
	require.NoError(t, json.Unmarshal(stream.payload, &evt))
	assert.Equal(t, 3, evt.Returned)
}

func TestNATSPublisher_DuplicateIsNotAnError(t *testing.T) {
	stream := &fakeStream{ack: &jetstream.PubAck{Stream: StreamName, Sequence: 7, Duplicate: true}}
	assert.NoError(t, testPublisher(stream).Publish(context.Background(), SubjectEssayGenerated("e1"), EssayGeneratedEvent{EssayID: "e1"}))
}

func TestNATSPublisher_PublishError(t *testing.T) {
	noResponders := errors.New("nats: no responders available for request")
	stream := &fakeStream{err: noResponders}
	err := testPublisher(stream).Publish(context.Background(), SubjectMatchFailed("r"), MatchFailedEvent{RunID: "r"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, noResponders))
	assert.Contains(t, err.Error(), "northstar.match.r.failed")
}

func TestNATSPublisher_EncodeError(t *testing.T) {
	stream := &fakeStream{}
	err := testPublisher(stream).Publish(context.Background(), "northstar.x", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, stream.subject, "nothing sent when encoding fails")
}
