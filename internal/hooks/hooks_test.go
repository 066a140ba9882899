package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/basicagent/internal/config"
	"github.com/soyeahso/basicagent/internal/logging"
)

func testManager() *Manager {
	return NewManager(logging.New(nil, "silent"))
}

func TestManager_On_And_Emit(t *testing.T) {
	m := testManager()

	var called bool
	m.On(EventBeforeAsk, "test", func(_ context.Context, p Payload) error {
		called = true
		assert.Equal(t, EventBeforeAsk, p.Event)
		return nil
	})

	m.Emit(context.Background(), EventBeforeAsk, nil)
	assert.True(t, called)
}

func TestManager_Emit_Order(t *testing.T) {
	m := testManager()

	var order []string
	m.On(EventAfterAsk, "first", func(_ context.Context, _ Payload) error {
		order = append(order, "first")
		return nil
	})
	m.On(EventAfterAsk, "second", func(_ context.Context, _ Payload) error {
		order = append(order, "second")
		return nil
	})

	m.Emit(context.Background(), EventAfterAsk, nil)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestManager_Emit_WithData(t *testing.T) {
	m := testManager()

	var gotData map[string]any
	m.On(EventBeforeAsk, "test", func(_ context.Context, p Payload) error {
		gotData = p.Data
		return nil
	})

	m.Emit(context.Background(), EventBeforeAsk, map[string]any{
		"agent":    "basic_agent",
		"question": "why?",
	})

	assert.Equal(t, "basic_agent", gotData["agent"])
	assert.Equal(t, "why?", gotData["question"])
}

func TestManager_Emit_HandlerError(t *testing.T) {
	m := testManager()

	var secondCalled bool
	m.On(EventAfterAsk, "failing", func(_ context.Context, _ Payload) error {
		return errors.New("handler broke")
	})
	m.On(EventAfterAsk, "second", func(_ context.Context, _ Payload) error {
		secondCalled = true
		return nil
	})

	m.Emit(context.Background(), EventAfterAsk, nil)
	assert.True(t, secondCalled)
}

func TestManager_NilEmit(t *testing.T) {
	var m *Manager
	m.Emit(context.Background(), EventBeforeAsk, nil)
}

func TestManager_CountAndEvents(t *testing.T) {
	m := testManager()
	assert.Equal(t, 0, m.Count(EventBeforeAsk))

	m.On(EventBeforeAsk, "h1", func(_ context.Context, _ Payload) error { return nil })
	m.On(EventAfterAsk, "h2", func(_ context.Context, _ Payload) error { return nil })
	m.On(EventAfterAsk, "h3", func(_ context.Context, _ Payload) error { return nil })

	assert.Equal(t, 2, m.Count(EventAfterAsk))
	assert.Equal(t, []string{EventAfterAsk, EventBeforeAsk}, m.Events())
}

func TestCommandHandler_WritesPayload(t *testing.T) {
	out := filepath.Join(t.TempDir(), "payload.json")
	h := CommandHandler(config.HookEntry{Command: "cat > " + out})

	err := h(context.Background(), Payload{Event: EventAfterAsk, Data: map[string]any{"answer": "42"}})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"after_ask","data":{"answer":"42"}}`, string(data))
}

func TestCommandHandler_Failure(t *testing.T) {
	h := CommandHandler(config.HookEntry{Command: "echo nope >&2; exit 3"})

	err := h(context.Background(), Payload{Event: EventBeforeAsk})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestCommandHandler_Timeout(t *testing.T) {
	// the trailing "true" keeps sh from exec'ing sleep, so sleep is a child
	h := CommandHandler(config.HookEntry{Command: "sleep 5; true", Timeout: 50})

	start := time.Now()
	err := h(context.Background(), Payload{Event: EventBeforeAsk})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRegisterConfig(t *testing.T) {
	m := testManager()
	RegisterConfig(m, config.HooksConfig{
		BeforeAsk: []config.HookEntry{{Command: "true"}},
		AfterAsk:  []config.HookEntry{{Command: "true"}, {Command: "true"}},
		AskFailed: []config.HookEntry{{Command: "true"}},
	})

	assert.Equal(t, 1, m.Count(EventBeforeAsk))
	assert.Equal(t, 2, m.Count(EventAfterAsk))
	assert.Equal(t, 1, m.Count(EventAskFailed))
}
