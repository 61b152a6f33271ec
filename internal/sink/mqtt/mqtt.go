// Package mqtt publishes game snapshots and results to an MQTT broker as JSON.
//
// Topics, under the configured prefix:
//
//	<prefix>/snapshot  periodic snapshots (not retained)
//	<prefix>/level     level results (not retained)
//	<prefix>/result    session results (retained)
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/game"
	"github.com/vovakirdan/bombmaster/internal/registry"
)

const (
	queueSize      = 64
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

func init() {
	registry.Register("mqtt", "MQTT broker", func(cfg config.Config, logger *log.Logger) (registry.Sink, error) {
		p, err := Dial(cfg.MQTT, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Client is the part of the paho client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type message struct {
	topic    string
	retained bool
	payload  any
}

// Publisher forwards snapshots and results to MQTT from its own goroutine.
// Publish never blocks: when the queue is full the message is dropped.
type Publisher struct {
	client Client
	prefix string
	logger *log.Logger

	queue   chan message
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
	dropped atomic.Int64
}

// Dial connects to the broker and starts a publisher.
func Dial(cfg config.MQTTConfig, logger *log.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: no broker configured")
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Broker, err)
	}
	logger.Info("connected to MQTT", "broker", cfg.Broker, "topic", cfg.Topic)
	return New(client, cfg.Topic, logger), nil
}

// New starts a publisher on an existing client.
func New(client Client, prefix string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	if prefix == "" {
		prefix = "bombmaster"
	}
	p := &Publisher{
		client: client,
		prefix: prefix,
		logger: logger,
		queue:  make(chan message, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues a snapshot.
func (p *Publisher) Publish(snap game.Snapshot) {
	p.enqueue(message{topic: p.prefix + "/snapshot", payload: snap})
}

// LevelFinished queues a level result.
func (p *Publisher) LevelFinished(res game.LevelResult) {
	p.enqueue(message{topic: p.prefix + "/level", payload: res})
}

// SessionFinished queues a session result.
func (p *Publisher) SessionFinished(res game.SessionResult) {
	p.enqueue(message{topic: p.prefix + "/result", retained: true, payload: res})
}

// Dropped returns the number of messages dropped because the queue was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close flushes the queue and disconnects.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	p.client.Disconnect(250)
	return nil
}

func (p *Publisher) enqueue(m message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- m:
	default:
		p.dropped.Add(1)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for m := range p.queue {
		payload, err := json.Marshal(m.payload)
		if err != nil {
			p.logger.Warn("mqtt marshal error", "topic", m.topic, "err", err)
			continue
		}
		token := p.client.Publish(m.topic, 0, m.retained, payload)
		if !token.WaitTimeout(publishTimeout) {
			p.logger.Warn("mqtt publish timed out", "topic", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			p.logger.Warn("mqtt publish error", "topic", m.topic, "err", err)
		}
	}
}

var (
	_ registry.Sink   = (*Publisher)(nil)
	_ game.ResultSink = (*Publisher)(nil)
)
