package mqtt

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/game"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (t doneToken) Error() error                   { return t.err }

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu           sync.Mutex
	messages     []published
	block        chan struct{}
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic, retained, payload.([]byte)})
	return doneToken{}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}

func TestPublisherTopics(t *testing.T) {
	client := &fakeClient{}
	p := New(client, "bomb", log.New(io.Discard))

	p.Publish(game.Snapshot{Target: core.TargetShake, Score: 40})
	p.LevelFinished(game.LevelResult{Index: 0, Success: true, Score: 60})
	p.SessionFinished(game.SessionResult{TotalScore: 60})
	if err := p.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if len(client.messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(client.messages))
	}
	want := []string{"bomb/snapshot", "bomb/level", "bomb/result"}
	for i, topic := range want {
		if client.messages[i].topic != topic {
			t.Errorf("Message %d: expected topic %s, got %s", i, topic, client.messages[i].topic)
		}
	}
	if !client.messages[2].retained {
		t.Error("Expected session result to be retained")
	}
	if !client.disconnected {
		t.Error("Expected client to be disconnected")
	}

	var snap map[string]any
	if err := json.Unmarshal(client.messages[0].payload, &snap); err != nil {
		t.Fatalf("Snapshot payload is not JSON: %v", err)
	}
	if snap["target"] != "SHAKE" {
		t.Errorf("Expected target SHAKE, got %v", snap["target"])
	}
}

func TestPublisherDropsWhenBehind(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	p := New(client, "bomb", log.New(io.Discard))

	start := time.Now()
	for i := 0; i < queueSize*3; i++ {
		p.Publish(game.Snapshot{Score: i})
	}
	if time.Since(start) > time.Second {
		t.Error("Publish blocked on a stalled broker")
	}
	if p.Dropped() == 0 {
		t.Error("Expected dropped messages")
	}

	close(client.block)
	p.Close()
}

func TestPublisherIgnoresAfterClose(t *testing.T) {
	client := &fakeClient{}
	p := New(client, "", log.New(io.Discard))
	p.Close()
	p.Publish(game.Snapshot{})
	if err := p.Close(); err != nil {
		t.Errorf("Expected second Close to be a no-op, got %v", err)
	}
	if len(client.messages) != 0 {
		t.Errorf("Expected no messages after close, got %d", len(client.messages))
	}
}
