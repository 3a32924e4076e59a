package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

type audioCall struct {
	url     string
	ctx     context.Context
	release chan error
}

type fakeAudio struct {
	calls  chan *audioCall
	active atomic.Int32
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{calls: make(chan *audioCall, 64)}
}

func (f *fakeAudio) Play(ctx context.Context, url string) error {
	f.active.Add(1)
	defer f.active.Add(-1)

	call := &audioCall{url: url, ctx: ctx, release: make(chan error, 1)}
	f.calls <- call
	select {
	case err := <-call.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAudio) next(t *testing.T) *audioCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatalf("audio was not started")
		return nil
	}
}

type fakeSpeech struct {
	mu        sync.Mutex
	spoken    []string
	langs     []string
	callbacks []func(error)
	active    int
	cancels   int
}

func newFakeSpeech() *fakeSpeech {
	return &fakeSpeech{active: -1}
}

func (f *fakeSpeech) Speak(text, tag string, onDone func(error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	f.langs = append(f.langs, tag)
	f.callbacks = append(f.callbacks, onDone)
	f.active = len(f.callbacks) - 1
}

func (f *fakeSpeech) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = -1
	f.cancels++
}

// finish completes the active utterance the way the engine would.
func (f *fakeSpeech) finish(err error) bool {
	f.mu.Lock()
	if f.active < 0 {
		f.mu.Unlock()
		return false
	}
	cb := f.callbacks[f.active]
	f.active = -1
	f.mu.Unlock()
	cb(err)
	return true
}

func (f *fakeSpeech) isActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active >= 0
}

func (f *fakeSpeech) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...), append([]string(nil), f.langs...)
}

type urls struct{}

func (urls) AudioURL(n int) string { return fmt.Sprintf("https://audio.test/%d.mp3", n) }

type harness struct {
	orch   *Orchestrator
	audio  *fakeAudio
	speech *fakeSpeech
	events chan StateChange
	stop   func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		audio:  newFakeAudio(),
		speech: newFakeSpeech(),
		events: make(chan StateChange, 128),
	}
	h.orch = NewOrchestrator(Config{Audio: h.audio, Speech: h.speech, URLs: urls{}}, logging.Discard())
	h.orch.AddListener(ListenerFunc(func(ev StateChange) { h.events <- ev }))

	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		_ = h.orch.Run(ctx)
	}()
	h.stop = func() {
		cancel()
		<-exited
	}
	t.Cleanup(h.stop)
	return h
}

// waitFor drains events until one lands in want.
func (h *harness) waitFor(t *testing.T, want State) StateChange {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-h.events:
			if ev.To == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("state %s was never reached", want)
			return StateChange{}
		}
	}
}

func (h *harness) session(t *testing.T, mode Mode) string {
	t.Helper()
	id, err := h.orch.OpenSession(context.Background(), mode)
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	return id
}

func TestSpeechPreemptsRecitation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	state, err := h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 42})
	if err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	if state != (State{Kind: KindRecitation, VerseID: 42, Mode: ModeStandalone}) {
		t.Fatalf("unexpected state %+v", state)
	}
	call := h.audio.next(t)
	if call.url != "https://audio.test/42.mp3" {
		t.Fatalf("unexpected audio url %s", call.url)
	}

	state, err = h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 42, Text: "text", Kind: KindTranslation})
	if err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}
	if state.Kind != KindTranslation || state.VerseID != 42 {
		t.Fatalf("expected translation(42), got %s", state)
	}
	if call.ctx.Err() == nil {
		t.Fatalf("recitation audio should be stopped")
	}
	if h.audio.active.Load() != 0 {
		t.Fatalf("expected no audio in flight")
	}
	spoken, langs := h.speech.snapshot()
	if len(spoken) != 1 || spoken[0] != "text" || langs[0] != "hi-IN" {
		t.Fatalf("unexpected speech %v %v", spoken, langs)
	}
}

func TestToggle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 7}); err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	call := h.audio.next(t)

	state, err := h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 7})
	if err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	if state != Idle {
		t.Fatalf("second request for the same verse should stop it, got %s", state)
	}
	if call.ctx.Err() == nil {
		t.Fatalf("audio should be cancelled on toggle")
	}

	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 7, Text: "r", Kind: KindReflection}); err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}
	// Same verse but a different kind is a new request, not a toggle.
	state, _ = h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 7, Text: "t", Kind: KindTranslation})
	if state.Kind != KindTranslation {
		t.Fatalf("expected translation, got %s", state)
	}
	state, _ = h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 7, Text: "t", Kind: KindTranslation})
	if state != Idle || h.speech.isActive() {
		t.Fatalf("expected speech toggled off, got %s", state)
	}
}

func TestUnboundSpeechTogglesOnlyOnSameText(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{Text: "first reflection", Kind: KindReflection}); err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}
	state, err := h.orch.RequestSpeech(ctx, SpeechRequest{Text: "a different reflection", Kind: KindReflection})
	if err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}
	if state.Kind != KindReflection || !h.speech.isActive() {
		t.Fatalf("a new text should be spoken, got %s", state)
	}
	spoken, _ := h.speech.snapshot()
	if len(spoken) != 2 || spoken[1] != "a different reflection" {
		t.Fatalf("unexpected speech %v", spoken)
	}

	state, _ = h.orch.RequestSpeech(ctx, SpeechRequest{Text: "a different reflection", Kind: KindReflection})
	if state != Idle || h.speech.isActive() {
		t.Fatalf("repeating the same text should toggle it off, got %s", state)
	}
}

func TestMutualExclusion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	steps := []func() (State, error){
		func() (State, error) { return h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 1}) },
		func() (State, error) { return h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 2}) },
		func() (State, error) {
			return h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 2, Text: "a", Kind: KindTranslation})
		},
		func() (State, error) { return h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 3}) },
		func() (State, error) {
			return h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 3, Text: "b", Kind: KindReflection})
		},
		func() (State, error) {
			return h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 4, Text: "c", Kind: KindTranslation})
		},
		func() (State, error) { return h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: 4}) },
		func() (State, error) { return h.orch.Stop(ctx) },
	}

	for i, step := range steps {
		state, err := step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		speaking := h.speech.isActive()
		auditory := h.audio.active.Load()
		if auditory > 1 || (speaking && auditory > 0) {
			t.Fatalf("step %d: more than one playback active (audio=%d speech=%v)", i, auditory, speaking)
		}
		switch state.Kind {
		case KindRecitation:
			if speaking {
				t.Fatalf("step %d: speech active during recitation", i)
			}
		case KindTranslation, KindReflection:
			if !speaking {
				t.Fatalf("step %d: expected speech for %s", i, state)
			}
		case KindIdle:
			if speaking {
				t.Fatalf("step %d: speech active while idle", i)
			}
		}
	}
}

func TestRecitationChainsToTranslation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.session(t, ModeReader)

	if _, err := h.orch.RequestRecitation(ctx, RecitationRequest{SessionID: session, VerseID: 42, Translation: "अनुवाद"}); err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	h.audio.next(t).release <- nil

	ev := h.waitFor(t, State{Kind: KindTranslation, VerseID: 42, SessionID: session, Mode: ModeReader})
	if ev.Reason != "recitation ended" || ev.From.Kind != KindRecitation {
		t.Fatalf("unexpected chain event %+v", ev)
	}
	spoken, _ := h.speech.snapshot()
	if len(spoken) != 1 || spoken[0] != "अनुवाद" {
		t.Fatalf("expected translation to be spoken, got %v", spoken)
	}

	if !h.speech.finish(nil) {
		t.Fatalf("no active utterance")
	}
	ev = h.waitFor(t, Idle)
	if ev.Reason != "speech ended" {
		t.Fatalf("unexpected reason %q", ev.Reason)
	}
}

func TestStandaloneDoesNotChain(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.session(t, ModeStandalone)

	if _, err := h.orch.RequestRecitation(ctx, RecitationRequest{SessionID: session, VerseID: 5, Translation: "t"}); err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	h.audio.next(t).release <- nil

	ev := h.waitFor(t, Idle)
	if ev.Reason != "recitation ended" {
		t.Fatalf("unexpected reason %q", ev.Reason)
	}
	if spoken, _ := h.speech.snapshot(); len(spoken) != 0 {
		t.Fatalf("standalone mode must not chain, spoke %v", spoken)
	}
}

func TestChainSkipsEmptyTranslation(t *testing.T) {
	h := newHarness(t)
	session := h.session(t, ModeGuidance)

	if _, err := h.orch.RequestRecitation(context.Background(), RecitationRequest{SessionID: session, VerseID: 9, Translation: "  "}); err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	h.audio.next(t).release <- nil

	h.waitFor(t, Idle)
	if spoken, _ := h.speech.snapshot(); len(spoken) != 0 {
		t.Fatalf("nothing should be spoken, got %v", spoken)
	}
}

func TestRecitationFailureReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	session := h.session(t, ModeReader)

	if _, err := h.orch.RequestRecitation(context.Background(), RecitationRequest{SessionID: session, VerseID: 3, Translation: "t"}); err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	h.audio.next(t).release <- errors.New("404")

	ev := h.waitFor(t, Idle)
	if ev.Reason != "recitation failed" {
		t.Fatalf("unexpected reason %q", ev.Reason)
	}
	if spoken, _ := h.speech.snapshot(); len(spoken) != 0 {
		t.Fatalf("failure must not chain, spoke %v", spoken)
	}
}

func TestStaleSpeechCompletionIgnored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 1, Text: "one", Kind: KindTranslation}); err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}
	h.speech.mu.Lock()
	stale := h.speech.callbacks[0]
	h.speech.mu.Unlock()

	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{VerseID: 2, Text: "two", Kind: KindReflection}); err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}

	stale(nil)
	// Let the posted event reach the loop.
	time.Sleep(20 * time.Millisecond)
	state, err := h.orch.State(ctx)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if state.Kind != KindReflection || state.VerseID != 2 {
		t.Fatalf("stale completion changed state to %s", state)
	}
}

func TestCloseSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	session := h.session(t, ModeGuidance)

	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{SessionID: session, Text: "reflection", Kind: KindReflection}); err != nil {
		t.Fatalf("RequestSpeech() error = %v", err)
	}

	state, err := h.orch.CloseSession(ctx, session)
	if err != nil {
		t.Fatalf("CloseSession() error = %v", err)
	}
	if state != Idle || h.speech.isActive() {
		t.Fatalf("closing a session should stop playback, got %s", state)
	}

	_, err = h.orch.RequestRecitation(ctx, RecitationRequest{SessionID: session, VerseID: 1})
	if !errors.Is(err, ErrUnknownSession) || !errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
		t.Fatalf("expected unknown session, got %v", err)
	}
}

func TestRequestValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, id := range []int{0, -1, 6237} {
		if _, err := h.orch.RequestRecitation(ctx, RecitationRequest{VerseID: id}); !errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
			t.Fatalf("verse %d: expected invalid_input, got %v", id, err)
		}
	}
	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{Text: "x", Kind: KindRecitation}); !errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
		t.Fatalf("expected invalid kind to be rejected, got %v", err)
	}
	if _, err := h.orch.RequestSpeech(ctx, SpeechRequest{Text: " ", Kind: KindTranslation}); !errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
		t.Fatalf("expected empty text to be rejected, got %v", err)
	}
}

func TestShutdownStopsPlayback(t *testing.T) {
	h := newHarness(t)

	if _, err := h.orch.RequestRecitation(context.Background(), RecitationRequest{VerseID: 11}); err != nil {
		t.Fatalf("RequestRecitation() error = %v", err)
	}
	call := h.audio.next(t)

	h.stop()
	if call.ctx.Err() == nil {
		t.Fatalf("shutdown should cancel audio")
	}
	if _, err := h.orch.Stop(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after shutdown, got %v", err)
	}
}
