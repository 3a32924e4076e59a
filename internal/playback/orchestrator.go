package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taiwoajasa245/quran-sukoon-api/internal/quran"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

var (
	ErrPlayback       = errors.New("recitation playback failed")
	ErrNotRunning     = errors.New("playback orchestrator is not running")
	ErrUnknownSession = errors.New("unknown playback session")
)

// AudioPlayer plays a recitation resource, blocking until it ends.
type AudioPlayer interface {
	Play(ctx context.Context, url string) error
}

// SpeechOutput speaks text without blocking; Cancel stops it synchronously.
type SpeechOutput interface {
	Speak(text, tag string, onDone func(error))
	Cancel()
}

type URLResolver interface {
	AudioURL(verseNumber int) string
}

type Config struct {
	Audio    AudioPlayer
	Speech   SpeechOutput
	URLs     URLResolver
	Language string
	Now      func() time.Time
}

type message interface{}

type request struct {
	apply func() (State, error)
	reply chan reply
}

type reply struct {
	state State
	err   error
}

type recitationEnded struct {
	gen uint64
	err error
}

type speechEnded struct {
	gen uint64
	err error
}

// Orchestrator owns the playback state. Only the goroutine running Run reads
// or writes the fields below the inbox; everything else sends it messages.
type Orchestrator struct {
	audio    AudioPlayer
	speech   SpeechOutput
	urls     URLResolver
	language string
	now      func() time.Time
	logger   *slog.Logger

	inbox   chan message
	done    chan struct{}
	runOnce sync.Once

	listenersMu sync.RWMutex
	listeners   []StateListener

	state       State
	gen         uint64
	sessions    map[string]Mode
	translation string
	speaking    string
	audioCancel context.CancelFunc
	audioDone   chan struct{}
}

func NewOrchestrator(cfg Config, logger *slog.Logger) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	language := cfg.Language
	if language == "" {
		language = "hi-IN"
	}
	return &Orchestrator{
		audio:    cfg.Audio,
		speech:   cfg.Speech,
		urls:     cfg.URLs,
		language: language,
		now:      now,
		logger:   logging.NewComponentLogger(logger, "playback"),
		inbox:    make(chan message),
		done:     make(chan struct{}),
		state:    Idle,
		sessions: make(map[string]Mode),
	}
}

// AddListener registers a listener for state change events.
func (o *Orchestrator) AddListener(listener StateListener) {
	o.listenersMu.Lock()
	defer o.listenersMu.Unlock()
	o.listeners = append(o.listeners, listener)
}

// Run processes requests and completion events until ctx is cancelled. On
// exit all playback is cancelled. Run may only be called once.
func (o *Orchestrator) Run(ctx context.Context) error {
	started := false
	o.runOnce.Do(func() { started = true })
	if !started {
		return errors.New("playback orchestrator already ran")
	}
	defer close(o.done)

	o.logger.Info("playback orchestrator started")
	for {
		select {
		case <-ctx.Done():
			o.cancelAll()
			o.transition(Idle, "shutdown")
			o.logger.Info("playback orchestrator stopped")
			return nil
		case msg := <-o.inbox:
			o.handle(msg)
		}
	}
}

func (o *Orchestrator) handle(msg message) {
	switch m := msg.(type) {
	case request:
		state, err := m.apply()
		m.reply <- reply{state: state, err: err}
	case recitationEnded:
		o.onRecitationEnded(m)
	case speechEnded:
		o.onSpeechEnded(m)
	}
}

// do runs apply on the loop and waits until it has settled.
func (o *Orchestrator) do(ctx context.Context, apply func() (State, error)) (State, error) {
	req := request{apply: apply, reply: make(chan reply, 1)}
	select {
	case o.inbox <- req:
	case <-o.done:
		return State{}, errorsx.Wrap(ErrNotRunning, errorsx.ReasonPlayback)
	case <-ctx.Done():
		return State{}, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.state, r.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// post delivers a completion event without blocking the caller.
func (o *Orchestrator) post(msg message) {
	go func() {
		select {
		case o.inbox <- msg:
		case <-o.done:
		}
	}()
}

func (o *Orchestrator) State(ctx context.Context) (State, error) {
	return o.do(ctx, func() (State, error) { return o.state, nil })
}

// OpenSession registers a reading context and returns its id.
func (o *Orchestrator) OpenSession(ctx context.Context, mode Mode) (string, error) {
	id := uuid.NewString()
	_, err := o.do(ctx, func() (State, error) {
		o.sessions[id] = mode
		return o.state, nil
	})
	if err != nil {
		return "", err
	}
	o.logger.Debug("session opened", slog.String("session", id), slog.String("mode", string(mode)))
	return id, nil
}

// CloseSession is view teardown: it cancels whatever is playing and forgets the session.
func (o *Orchestrator) CloseSession(ctx context.Context, id string) (State, error) {
	return o.do(ctx, func() (State, error) {
		if _, ok := o.sessions[id]; !ok {
			return o.state, unknownSession(id)
		}
		delete(o.sessions, id)
		o.cancelAll()
		o.transition(Idle, "session closed")
		return o.state, nil
	})
}

// Stop cancels audio and speech unconditionally.
func (o *Orchestrator) Stop(ctx context.Context) (State, error) {
	return o.do(ctx, func() (State, error) {
		o.cancelAll()
		o.transition(Idle, "stopped")
		return o.state, nil
	})
}

// RequestRecitation starts the recitation of a verse. Requesting the verse
// that is already being recited stops it instead.
func (o *Orchestrator) RequestRecitation(ctx context.Context, req RecitationRequest) (State, error) {
	if req.VerseID < 1 || req.VerseID > quran.TotalVerses {
		return State{}, invalid("verse id %d is outside 1..%d", req.VerseID, quran.TotalVerses)
	}
	return o.do(ctx, func() (State, error) {
		mode, err := o.modeOf(req.SessionID)
		if err != nil {
			return o.state, err
		}

		if o.state.Kind == KindRecitation && o.state.VerseID == req.VerseID {
			o.cancelAll()
			o.transition(Idle, "toggled")
			return o.state, nil
		}

		o.cancelAll()
		o.startRecitation(req, mode)
		return o.state, nil
	})
}

// RequestSpeech speaks a translation or reflection. Requesting the same verse
// and kind that is already being spoken stops it instead. Speech not bound to
// a verse (VerseID 0) only toggles when the text is the same.
func (o *Orchestrator) RequestSpeech(ctx context.Context, req SpeechRequest) (State, error) {
	if req.Kind != KindTranslation && req.Kind != KindReflection {
		return State{}, invalid("speech kind must be %s or %s", KindTranslation, KindReflection)
	}
	if strings.TrimSpace(req.Text) == "" {
		return State{}, invalid("speech text is empty")
	}
	return o.do(ctx, func() (State, error) {
		mode, err := o.modeOf(req.SessionID)
		if err != nil {
			return o.state, err
		}

		if o.state.Kind == req.Kind && o.state.VerseID == req.VerseID &&
			(req.VerseID != 0 || o.speaking == req.Text) {
			o.cancelAll()
			o.transition(Idle, "toggled")
			return o.state, nil
		}

		o.cancelAll()
		o.startSpeech(req, mode, "speech requested")
		return o.state, nil
	})
}

func (o *Orchestrator) startRecitation(req RecitationRequest, mode Mode) {
	url := o.urls.AudioURL(req.VerseID)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	gen := o.gen

	o.audioCancel = cancel
	o.audioDone = done
	o.translation = req.Translation

	go func() {
		err := o.audio.Play(ctx, url)
		close(done)
		if ctx.Err() != nil {
			return
		}
		o.post(recitationEnded{gen: gen, err: err})
	}()

	o.transition(State{Kind: KindRecitation, VerseID: req.VerseID, SessionID: req.SessionID, Mode: mode}, "recitation requested")
}

func (o *Orchestrator) startSpeech(req SpeechRequest, mode Mode, reason string) {
	gen := o.gen
	o.speaking = req.Text
	o.speech.Speak(req.Text, o.language, func(err error) {
		o.post(speechEnded{gen: gen, err: err})
	})
	o.transition(State{Kind: req.Kind, VerseID: req.VerseID, SessionID: req.SessionID, Mode: mode}, reason)
}

func (o *Orchestrator) onRecitationEnded(ev recitationEnded) {
	if ev.gen != o.gen || o.state.Kind != KindRecitation {
		o.logger.Debug("stale recitation event ignored", slog.Uint64("gen", ev.gen))
		return
	}
	o.releaseAudio()

	if ev.err != nil {
		err := errorsx.Wrap(fmt.Errorf("%w: verse %d: %v", ErrPlayback, o.state.VerseID, ev.err), errorsx.ReasonPlayback)
		o.logger.Warn("recitation failed", slog.Int("verse", o.state.VerseID), slog.Any("error", err))
		o.gen++
		o.transition(Idle, "recitation failed")
		return
	}

	translation := o.translation
	o.translation = ""
	if o.state.Mode.Chains() && strings.TrimSpace(translation) != "" {
		o.gen++
		o.startSpeech(SpeechRequest{
			SessionID: o.state.SessionID,
			VerseID:   o.state.VerseID,
			Text:      translation,
			Kind:      KindTranslation,
		}, o.state.Mode, "recitation ended")
		return
	}

	o.gen++
	o.transition(Idle, "recitation ended")
}

func (o *Orchestrator) onSpeechEnded(ev speechEnded) {
	if ev.gen != o.gen || (o.state.Kind != KindTranslation && o.state.Kind != KindReflection) {
		o.logger.Debug("stale speech event ignored", slog.Uint64("gen", ev.gen))
		return
	}
	o.gen++
	if ev.err != nil {
		o.transition(Idle, "speech failed")
		return
	}
	o.transition(Idle, "speech ended")
}

// cancelAll stops audio and speech and invalidates their pending events.
func (o *Orchestrator) cancelAll() {
	o.gen++
	if o.audioCancel != nil {
		o.audioCancel()
		<-o.audioDone
		o.releaseAudio()
	}
	o.translation = ""
	o.speaking = ""
	o.speech.Cancel()
}

func (o *Orchestrator) releaseAudio() {
	if o.audioCancel != nil {
		o.audioCancel()
	}
	o.audioCancel = nil
	o.audioDone = nil
}

func (o *Orchestrator) transition(to State, reason string) {
	from := o.state
	o.state = to
	if from == to {
		return
	}

	o.logger.Debug("playback state changed", slog.String("from", from.String()), slog.String("to", to.String()), slog.String("reason", reason))
	event := StateChange{From: from, To: to, Reason: reason, At: o.now()}

	o.listenersMu.RLock()
	listeners := make([]StateListener, len(o.listeners))
	copy(listeners, o.listeners)
	o.listenersMu.RUnlock()

	for _, listener := range listeners {
		listener.OnStateChange(event)
	}
}

func (o *Orchestrator) modeOf(sessionID string) (Mode, error) {
	if sessionID == "" {
		return ModeStandalone, nil
	}
	mode, ok := o.sessions[sessionID]
	if !ok {
		return "", unknownSession(sessionID)
	}
	return mode, nil
}

func unknownSession(id string) error {
	return errorsx.Wrap(fmt.Errorf("%w: %s", ErrUnknownSession, id), errorsx.ReasonInvalidInput)
}

func invalid(format string, args ...any) error {
	return errorsx.Wrap(fmt.Errorf(format, args...), errorsx.ReasonInvalidInput)
}
