package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

const (
	baseWordsPerMinute = 175
	basePitch          = 50
)

// ExecEngine drives an espeak-ng compatible command line synthesizer.
type ExecEngine struct {
	binary string
	logger *slog.Logger
}

var _ Engine = (*ExecEngine)(nil)

func NewExecEngine(binary string, logger *slog.Logger) *ExecEngine {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &ExecEngine{binary: binary, logger: logging.NewComponentLogger(logger, "speech-exec")}
}

func (e *ExecEngine) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices with %s: %w", e.binary, err)
	}
	return parseVoices(out), nil
}

func (e *ExecEngine) Speak(ctx context.Context, u Utterance) error {
	args := []string{}
	if u.Voice != "" {
		args = append(args, "-v", u.Voice)
	}
	if u.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(int(math.Round(baseWordsPerMinute*u.Rate))))
	}
	if u.Pitch > 0 {
		pitch := int(math.Round(basePitch * u.Pitch))
		args = append(args, "-p", strconv.Itoa(min(max(pitch, 0), 99)))
	}
	args = append(args, "--stdin")

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = strings.NewReader(u.Text)

	e.logger.Debug("speaking", slog.String("voice", u.Voice), slog.Int("chars", len(u.Text)))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", e.binary, err)
	}
	return nil
}

// parseVoices reads the `--voices` table:
//
//	Pty Language  Age/Gender VoiceName  File    Other Languages
//	 5  hi        --/M       Hindi      inc/hi
func parseVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		lang := fields[1]
		voices = append(voices, Voice{
			ID:   lang,
			Name: fields[3],
			Lang: lang,
			// espeak-ng falls back to English when no voice is given.
			Default: lang == "en",
		})
	}
	return voices
}
