package reply

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jredh-dev/velquity/internal/completion"
	"github.com/jredh-dev/velquity/internal/conversation"
)

// fakeCompleter records requests and answers with a scripted function.
type fakeCompleter struct {
	mu       sync.Mutex
	requests []completion.Request
	answer   func(ctx context.Context, req completion.Request) (completion.Response, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, req completion.Request) (completion.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.answer(ctx, req)
}

func (f *fakeCompleter) last() completion.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func answerWith(content string) func(context.Context, completion.Request) (completion.Response, error) {
	return func(context.Context, completion.Request) (completion.Response, error) {
		return completion.Response{Content: content}, nil
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SystemPrompt = "You are a test assistant."
	cfg.FallbackReply = "fallback: call us"
	cfg.AckReply = "ack"
	return cfg
}

func TestReplyHappyPath(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	fc := &fakeCompleter{answer: answerWith("Hello! Want to book a visit?")}
	o := New(testConfig(), store, fc)

	res := o.Reply(context.Background(), "+15550001", "Hi")
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if res.Text != "Hello! Want to book a visit?" {
		t.Errorf("text = %q", res.Text)
	}

	got := store.Get("+15550001")
	want := conversation.Conversation{
		{Role: conversation.User, Content: "Hi"},
		{Role: conversation.Assistant, Content: "Hello! Want to book a visit?"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d stored turns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReplyRequestShape(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	store.Set("a", conversation.Conversation{
		{Role: conversation.User, Content: "earlier question"},
		{Role: conversation.Assistant, Content: "earlier answer"},
	})
	fc := &fakeCompleter{answer: answerWith("ok")}
	o := New(testConfig(), store, fc)

	o.Reply(context.Background(), "a", "new question")

	req := fc.last()
	if req.Model != DefaultModel || req.Temperature != DefaultTemperature || req.MaxTokens != DefaultMaxTokens {
		t.Errorf("params = model %q temp %v max %d", req.Model, req.Temperature, req.MaxTokens)
	}
	want := []completion.Message{
		{Role: "system", Content: "You are a test assistant."},
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
		{Role: "user", Content: "new question"},
	}
	if len(req.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(req.Messages), req.Messages)
	}
	for i := range want {
		if req.Messages[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, req.Messages[i], want[i])
		}
	}
}

func TestReplyFailureLeavesStoreUnchanged(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	before := conversation.Conversation{
		{Role: conversation.User, Content: "q"},
		{Role: conversation.Assistant, Content: "a"},
	}
	store.Set("a", before)

	fc := &fakeCompleter{answer: func(context.Context, completion.Request) (completion.Response, error) {
		return completion.Response{}, errors.New("quota exceeded")
	}}
	o := New(testConfig(), store, fc)

	res := o.Reply(context.Background(), "a", "hello?")
	if !res.Fallback {
		t.Error("expected fallback")
	}
	if res.Text != "fallback: call us" {
		t.Errorf("text = %q", res.Text)
	}

	got := store.Get("a")
	if len(got) != len(before) {
		t.Fatalf("store changed: %+v", got)
	}
	for i := range before {
		if got[i] != before[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], before[i])
		}
	}
}

func TestReplyFailureForNewSenderStoresNothing(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	fc := &fakeCompleter{answer: func(context.Context, completion.Request) (completion.Response, error) {
		return completion.Response{}, completion.ErrMissingAPIKey
	}}
	o := New(testConfig(), store, fc)

	o.Reply(context.Background(), "new", "hi")
	if store.Len() != 0 {
		t.Errorf("expected no stored senders, got %d", store.Len())
	}
}

func TestReplyEmptyContentUsesAck(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	fc := &fakeCompleter{answer: answerWith("")}
	o := New(testConfig(), store, fc)

	res := o.Reply(context.Background(), "a", "hi")
	if res.Fallback {
		t.Error("empty content is not a failure")
	}
	if res.Text != "ack" {
		t.Errorf("text = %q, want ack", res.Text)
	}
	got := store.Get("a")
	if len(got) != 2 || got[1].Content != "ack" {
		t.Errorf("expected ack stored as assistant turn, got %+v", got)
	}
}

func TestReplyTimeoutFallsBack(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	fc := &fakeCompleter{answer: func(ctx context.Context, _ completion.Request) (completion.Response, error) {
		<-ctx.Done()
		return completion.Response{}, ctx.Err()
	}}
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	o := New(cfg, store, fc)

	start := time.Now()
	res := o.Reply(context.Background(), "a", "hi")
	if !res.Fallback {
		t.Error("expected fallback on timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not applied, took %v", elapsed)
	}
	if store.Len() != 0 {
		t.Error("store should be untouched after timeout")
	}
}

func TestReplyHistoryCap(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	fc := &fakeCompleter{answer: func(_ context.Context, req completion.Request) (completion.Response, error) {
		user := req.Messages[len(req.Messages)-1].Content
		return completion.Response{Content: "re: " + user}, nil
	}}
	o := New(testConfig(), store, fc)

	for i := 0; i < 10; i++ {
		o.Reply(context.Background(), "a", fmt.Sprintf("m%d", i))
	}

	got := store.Get("a")
	if len(got) != 8 {
		t.Fatalf("expected 8 turns, got %d", len(got))
	}
	for i := 0; i < 4; i++ {
		n := i + 6
		if got[2*i].Content != fmt.Sprintf("m%d", n) || got[2*i].Role != conversation.User {
			t.Errorf("turn %d = %+v, want user m%d", 2*i, got[2*i], n)
		}
		if got[2*i+1].Content != fmt.Sprintf("re: m%d", n) || got[2*i+1].Role != conversation.Assistant {
			t.Errorf("turn %d = %+v, want assistant re: m%d", 2*i+1, got[2*i+1], n)
		}
	}

	// The last prompt carried system + 8 history turns + the new message.
	if n := len(fc.last().Messages); n != 10 {
		t.Errorf("expected 10 messages in final request, got %d", n)
	}
}

func TestReplySameSenderNoLostUpdates(t *testing.T) {
	store := conversation.NewMemoryStore(100)
	fc := &fakeCompleter{answer: func(context.Context, completion.Request) (completion.Response, error) {
		time.Sleep(2 * time.Millisecond)
		return completion.Response{Content: "ok"}, nil
	}}
	o := New(testConfig(), store, fc)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o.Reply(context.Background(), "same", fmt.Sprintf("m%d", i))
		}(i)
	}
	wg.Wait()

	if got := len(store.Get("same")); got != 2*n {
		t.Errorf("expected %d turns, got %d: a concurrent write was lost", 2*n, got)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	o := New(Config{Temperature: 0.1}, conversation.NewMemoryStore(0), &fakeCompleter{answer: answerWith("x")})
	cfg := o.Config()
	if cfg.Model != DefaultModel || cfg.MaxTokens != DefaultMaxTokens || cfg.Timeout != DefaultTimeout {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.FallbackReply != DefaultFallbackReply || cfg.AckReply != DefaultAckReply {
		t.Errorf("canned replies not defaulted: %+v", cfg)
	}
	if cfg.SystemPrompt == "" {
		t.Error("expected built-in system prompt")
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("temperature overwritten: %v", cfg.Temperature)
	}
}

func TestReplyQueuedSenderFallsBackWhenContextEnds(t *testing.T) {
	store := conversation.NewMemoryStore(conversation.DefaultLimit)
	fc := &fakeCompleter{answer: answerWith("ok")}
	o := New(testConfig(), store, fc)

	// Another request for the same sender is stuck in its completion call.
	unlock := o.locks.Lock("a")
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan Result, 1)
	go func() { done <- o.Reply(ctx, "a", "hello?") }()

	select {
	case res := <-done:
		if !res.Fallback || res.Text != "fallback: call us" {
			t.Errorf("expected fallback, got %+v", res)
		}
	case <-time.After(time.Second):
		t.Fatal("Reply kept waiting after its context ended")
	}

	fc.mu.Lock()
	calls := len(fc.requests)
	fc.mu.Unlock()
	if calls != 0 {
		t.Errorf("completion should not be called, got %d calls", calls)
	}
	if store.Len() != 0 {
		t.Error("store should be untouched")
	}
}
