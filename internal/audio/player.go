package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/exec"
	"time"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

var ErrLoad = errors.New("recitation audio could not be loaded")

// Sink renders an audio stream. Play returns when the stream is exhausted,
// rendering fails, or ctx is cancelled.
type Sink interface {
	Play(ctx context.Context, r io.Reader) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r io.Reader) error

func (f SinkFunc) Play(ctx context.Context, r io.Reader) error { return f(ctx, r) }

// Discard reads the stream to the end without rendering it.
var Discard Sink = SinkFunc(func(ctx context.Context, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
})

// CommandSink pipes the stream into an external player reading stdin,
// for example `mpg123 -q -`.
type CommandSink struct {
	Binary string
	Args   []string
}

func NewCommandSink(binary string) CommandSink {
	if binary == "" {
		binary = "mpg123"
	}
	return CommandSink{Binary: binary, Args: []string{"-q", "-"}}
}

func (s CommandSink) Play(ctx context.Context, r io.Reader) error {
	cmd := exec.CommandContext(ctx, s.Binary, s.Args...)
	cmd.Stdin = r
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", s.Binary, err)
	}
	return nil
}

// Player fetches a recitation resource and streams it into a Sink.
type Player struct {
	httpClient *http.Client
	sink       Sink
	logger     *slog.Logger
}

func NewPlayer(httpClient *http.Client, sink Sink, timeout time.Duration, logger *slog.Logger) *Player {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if sink == nil {
		sink = NewCommandSink("")
	}
	return &Player{
		httpClient: httpClient,
		sink:       sink,
		logger:     logging.NewComponentLogger(logger, "audio"),
	}
}

// Play blocks until url has played to its natural end. It returns ctx.Err()
// when cancelled and an ErrLoad-wrapped error when the resource is unavailable.
func (p *Player) Play(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d", ErrLoad, url, resp.StatusCode)
	}

	p.logger.Debug("recitation started", slog.String("url", url))
	if err := p.sink.Play(ctx, resp.Body); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("play %s: %w", url, err)
	}
	return nil
}
