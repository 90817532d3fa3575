package refresh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReloader is a mock implementation of Reloader
type MockReloader struct {
	mock.Mock
}

func (m *MockReloader) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReloader) Reload(ctx context.Context, artifact string) error {
	return m.Called(ctx, artifact).Error(0)
}

// fakeMessage implements mqtt.Message
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return qos }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("single artifact", func(t *testing.T) {
		r := new(MockReloader)
		r.On("Reload", ctx, "distance_table").Return(nil)

		assert.NoError(t, Handle(ctx, r, []byte(`{"artifact":"distance_table"}`)))
		r.AssertExpectations(t)
	})

	t.Run("all", func(t *testing.T) {
		r := new(MockReloader)
		r.On("Load", ctx).Return(nil)

		assert.NoError(t, Handle(ctx, r, []byte(`{"artifact":"all"}`)))
		r.AssertExpectations(t)
		r.AssertNotCalled(t, "Reload", mock.Anything, mock.Anything)
	})

	t.Run("reload error", func(t *testing.T) {
		r := new(MockReloader)
		r.On("Reload", ctx, "pipeline").Return(errors.New("broken file"))

		assert.Error(t, Handle(ctx, r, []byte(`{"artifact":"pipeline"}`)))
	})

	t.Run("unknown artifact", func(t *testing.T) {
		r := new(MockReloader)
		err := Handle(ctx, r, []byte(`{"artifact":"users"}`))
		assert.ErrorIs(t, err, ErrUnknownArtifact)
		r.AssertNotCalled(t, "Reload", mock.Anything, mock.Anything)
	})

	t.Run("malformed payload", func(t *testing.T) {
		r := new(MockReloader)
		assert.Error(t, Handle(ctx, r, []byte(`reload please`)))
	})
}

func TestSubscriber_OnMessage(t *testing.T) {
	r := new(MockReloader)
	r.On("Reload", mock.Anything, "properties").Return(nil)
	s := NewSubscriber("tcp://localhost:1883", "test", "insightsphere/artifacts/refresh", r)

	s.onMessage(nil, fakeMessage{topic: s.topic, payload: []byte(`{"artifact":"properties"}`)})
	// unknown payloads are logged and ignored
	s.onMessage(nil, fakeMessage{topic: s.topic, payload: []byte(`{}`)})

	r.AssertNumberOfCalls(t, "Reload", 1)
}

func TestSubscriber_StopWhenNotConnected(t *testing.T) {
	s := NewSubscriber("tcp://localhost:1883", "test", "topic", new(MockReloader))
	assert.NotPanics(t, s.Stop)
}
