// Package refresh reloads artifacts when a message arrives on an MQTT topic.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/dataset"
)

// ArtifactAll reloads every configured artifact.
const ArtifactAll = "all"

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	reloadTimeout  = 2 * time.Minute
)

var ErrUnknownArtifact = errors.New("unknown artifact")

// Reloader is the part of dataset.Store a refresh message drives.
type Reloader interface {
	Load(ctx context.Context) error
	Reload(ctx context.Context, artifact string) error
}

// Message is the refresh payload, e.g. {"artifact":"distance_table"}.
type Message struct {
	Artifact string `json:"artifact"`
}

// Handle decodes payload and reloads the artifact it names.
func Handle(ctx context.Context, r Reloader, payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode refresh message: %w", err)
	}
	switch msg.Artifact {
	case ArtifactAll:
		return r.Load(ctx)
	case dataset.ArtifactDistanceTable, dataset.ArtifactProperties, dataset.ArtifactPipeline:
		return r.Reload(ctx, msg.Artifact)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownArtifact, msg.Artifact)
	}
}

// Subscriber listens on a topic and reloads artifacts on request.
type Subscriber struct {
	client   mqtt.Client
	topic    string
	reloader Reloader
}

// NewSubscriber creates a subscriber for broker. Start connects it.
func NewSubscriber(broker, clientID, topic string, reloader Reloader) *Subscriber {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	s := &Subscriber{topic: topic, reloader: reloader}
	// resubscribe after every (re)connect, the broker drops non-persistent sessions
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		if token := c.Subscribe(s.topic, qos, s.onMessage); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", s.topic).Error("MQTT subscribe failed")
			return
		}
		log.WithField("topic", s.topic).Info("Subscribed to artifact refresh topic")
	})
	s.client = mqtt.NewClient(opts)
	return s
}

// Start connects to the broker.
func (s *Subscriber) Start() error {
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect: timed out after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Stop unsubscribes and disconnects.
func (s *Subscriber) Stop() {
	if !s.client.IsConnected() {
		return
	}
	s.client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	s.client.Disconnect(250)
}

func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	entry := log.WithFields(log.Fields{
		"topic":   msg.Topic(),
		"payload": string(msg.Payload()),
	})
	if err := Handle(ctx, s.reloader, msg.Payload()); err != nil {
		entry.WithError(err).Warn("Artifact refresh failed")
		return
	}
	entry.Info("Artifacts refreshed")
}
