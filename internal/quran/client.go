package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

var (
	ErrNetwork    = errors.New("content api request failed")
	ErrMisaligned = errors.New("source and translation verses are not aligned")
)

// Gateway is the read side of the content API used by handlers and services.
type Gateway interface {
	ListChapters(ctx context.Context) ([]Chapter, error)
	GetChapterDetail(ctx context.Context, chapter int) (*ChapterDetail, error)
	GetVerseByReference(ctx context.Context, ref string) (*Verse, error)
	GetRandomVerse(ctx context.Context) (*RandomVerse, error)
	AudioURL(verseNumber int) string
}

type Config struct {
	BaseURL          string
	Edition          string
	AudioURLTemplate string
	// Timeout bounds each outbound request. Zero leaves requests unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
	// IntN draws the random verse; defaults to math/rand/v2.IntN.
	IntN func(n int) int
}

type Client struct {
	baseURL       string
	edition       string
	audioTemplate string
	httpClient    *http.Client
	intN          func(n int) int
	logger        *slog.Logger
}

var _ Gateway = (*Client)(nil)

func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.alquran.cloud/v1"
	}
	edition := strings.TrimSpace(cfg.Edition)
	if edition == "" {
		edition = "hi.hindi"
	}
	tpl := strings.TrimSpace(cfg.AudioURLTemplate)
	if tpl == "" {
		tpl = "https://cdn.islamic.network/quran/audio/128/ar.alafasy/{number}.mp3"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	intN := cfg.IntN
	if intN == nil {
		intN = rand.IntN
	}
	return &Client{
		baseURL:       baseURL,
		edition:       edition,
		audioTemplate: tpl,
		httpClient:    httpClient,
		intN:          intN,
		logger:        logging.NewComponentLogger(logger, "quran"),
	}
}

func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	var chapters []Chapter
	if err := c.get(ctx, "/surah", &chapters); err != nil {
		return nil, err
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})
	return chapters, nil
}

// GetChapterDetail fetches the source text and the translation edition of a
// chapter together. Either failure fails the call.
func (c *Client) GetChapterDetail(ctx context.Context, chapter int) (*ChapterDetail, error) {
	var source, translation chapterPayload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, fmt.Sprintf("/surah/%d", chapter), &source)
	})
	g.Go(func() error {
		return c.get(gctx, fmt.Sprintf("/surah/%d/%s", chapter, c.edition), &translation)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkAligned(source.Ayahs, translation.Ayahs); err != nil {
		return nil, errorsx.Wrap(fmt.Errorf("chapter %d: %w", chapter, err), errorsx.ReasonNetwork)
	}

	return &ChapterDetail{
		Chapter:      source.Chapter,
		Verses:       source.Ayahs,
		Translations: translation.Ayahs,
	}, nil
}

func checkAligned(source, translation []Verse) error {
	if len(source) != len(translation) {
		return fmt.Errorf("%w: %d source verses, %d translated", ErrMisaligned, len(source), len(translation))
	}
	for i := range source {
		if source[i].NumberInSurah != translation[i].NumberInSurah {
			return fmt.Errorf("%w: position %d holds verse %d and %d", ErrMisaligned, i,
				source[i].NumberInSurah, translation[i].NumberInSurah)
		}
	}
	return nil
}

// GetVerseByReference resolves a "chapter:verse" locator or a global index.
func (c *Client) GetVerseByReference(ctx context.Context, ref string) (*Verse, error) {
	var verse Verse
	if err := c.get(ctx, "/ayah/"+url.PathEscape(strings.TrimSpace(ref)), &verse); err != nil {
		return nil, err
	}
	return &verse, nil
}

func (c *Client) GetRandomVerse(ctx context.Context) (*RandomVerse, error) {
	number := c.drawVerseNumber()

	var source, translation Verse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, fmt.Sprintf("/ayah/%d", number), &source)
	})
	g.Go(func() error {
		return c.get(gctx, fmt.Sprintf("/ayah/%d/%s", number, c.edition), &translation)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RandomVerse{
		Arabic:      source.Text,
		Translation: translation.Text,
		Number:      source.Number,
	}
	if source.Chapter != nil {
		out.Reference = fmt.Sprintf("%s (%d:%d)", source.Chapter.EnglishName, source.Chapter.Number, source.NumberInSurah)
	}
	c.logger.Debug("random verse drawn", slog.Int("number", number), slog.String("reference", out.Reference))
	return out, nil
}

// drawVerseNumber returns a uniform global verse number in [1, TotalVerses].
func (c *Client) drawVerseNumber() int {
	return c.intN(TotalVerses) + 1
}

// AudioURL builds the recitation resource locator for a global verse number.
// It performs no I/O.
func (c *Client) AudioURL(verseNumber int) string {
	return strings.ReplaceAll(c.audioTemplate, "{number}", strconv.Itoa(verseNumber))
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return c.networkErr(path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.networkErr(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.networkErr(path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return c.networkErr(path, fmt.Errorf("status %d", resp.StatusCode))
		}
		return c.networkErr(path, fmt.Errorf("decode envelope: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Code != http.StatusOK {
		return c.networkErr(path, fmt.Errorf("status %d (%s): %s", env.Code, env.Status, upstreamMessage(env.Data)))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return c.networkErr(path, fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func (c *Client) networkErr(path string, err error) error {
	c.logger.Warn("content api request failed", slog.String("path", path), slog.Any("error", err))
	return errorsx.Wrap(fmt.Errorf("%w: GET %s: %v", ErrNetwork, path, err), errorsx.ReasonNetwork)
}

// upstreamMessage surfaces the API's own error text, which it sends as a bare string in data.
func upstreamMessage(data json.RawMessage) string {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		return msg
	}
	return strings.TrimSpace(string(data))
}
