package guidance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
	"github.com/taiwoajasa245/quran-sukoon-api/pkg/logging"
)

var (
	ErrConfig  = errors.New("guidance api credential is not configured")
	ErrService = errors.New("guidance api returned no usable answer")
)

// User-facing messages for the failure kinds.
const (
	MessageConfig     = "मार्गदर्शन सेवा अभी उपलब्ध नहीं है। कृपया बाद में प्रयास करें।"
	MessageService    = "माफ़ कीजिए, अभी मार्गदर्शन प्राप्त नहीं हो सका। कृपया दोबारा प्रयास करें।"
	ReflectionApology = "माफ़ कीजिए, इस आयत पर चिंतन अभी उपलब्ध नहीं है। कृपया थोड़ी देर बाद प्रयास करें।"
)

// Result is one generated guidance: a verse, its translation and a reflection.
type Result struct {
	AyahArabic string `json:"ayahArabic"`
	AyahHindi  string `json:"ayahHindi"`
	Reflection string `json:"reflection"`
	Reference  string `json:"reference"`
}

func (r Result) complete() bool {
	return strings.TrimSpace(r.AyahArabic) != "" &&
		strings.TrimSpace(r.AyahHindi) != "" &&
		strings.TrimSpace(r.Reflection) != "" &&
		strings.TrimSpace(r.Reference) != ""
}

// Generator produces guidance for an emotion and reflections for a verse.
type Generator interface {
	GetGuidanceForEmotion(ctx context.Context, emotion Emotion) (*Result, error)
	GetReflectionForVerse(ctx context.Context, arabic, translation, chapterName string, verseNumber int) string
}

type Config struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client generates guidance through the Gemini API.
type Client struct {
	models  *genai.Models
	initErr error
	model   string
	logger  *slog.Logger
}

var _ Generator = (*Client)(nil)

// NewClient builds the Gemini client. A missing key is not an error here:
// every call then fails with ErrConfig so the rest of the app keeps working.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		model:  strings.TrimSpace(cfg.Model),
		logger: logging.NewComponentLogger(logger, "guidance"),
	}
	if c.model == "" {
		c.model = "gemini-3-flash-preview"
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		c.initErr = ErrConfig
		return c
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	opts := genai.HTTPOptions{
		BaseURL:    strings.TrimSpace(cfg.BaseURL),
		APIVersion: strings.TrimSpace(cfg.APIVersion),
	}
	if opts.APIVersion == "" {
		opts.APIVersion = "v1beta"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: opts,
	})
	if err != nil {
		c.logger.Error("gemini client init failed", slog.Any("error", err))
		c.initErr = fmt.Errorf("%w: %v", ErrConfig, err)
		return c
	}
	c.models = client.Models
	return c
}

func (c *Client) configErr() error {
	return errorsx.WrapMessage(c.initErr, errorsx.ReasonConfig, MessageConfig)
}

func textField(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

var guidanceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ayahArabic": textField("The original Arabic text of the Ayah."),
		"ayahHindi":  textField("The Hindi translation of the Ayah."),
		"reflection": textField("A short, 2-3 sentence reflection/explanation in Hindi relating the Ayah to the emotion."),
		"reference":  textField("The Surah name and Ayah number (e.g., Al-Baqarah 2:153)."),
	},
	Required: []string{"ayahArabic", "ayahHindi", "reflection", "reference"},
}

// GetGuidanceForEmotion returns a fully populated Result or an error carrying
// the config or service reason. It never returns a partial result.
func (c *Client) GetGuidanceForEmotion(ctx context.Context, emotion Emotion) (*Result, error) {
	if c.models == nil {
		return nil, c.configErr()
	}

	prompt := fmt.Sprintf(`Provide a relevant Quranic Ayah and a short reflection for someone experiencing %s.
The response must be in Hindi for the reflection and translation.
The Ayah must be authentic from the Quran.`, emotion)

	text, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   guidanceSchema,
	})
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &result); err != nil {
		c.logger.Warn("guidance response is not valid json", slog.Any("error", err))
		return nil, c.serviceErr(fmt.Errorf("decode: %w", err))
	}
	if !result.complete() {
		c.logger.Warn("guidance response has empty fields", slog.String("emotion", string(emotion)))
		return nil, c.serviceErr(errors.New("missing fields"))
	}

	result.AyahArabic = strings.TrimSpace(result.AyahArabic)
	result.AyahHindi = strings.TrimSpace(result.AyahHindi)
	result.Reflection = strings.TrimSpace(result.Reflection)
	result.Reference = strings.TrimSpace(result.Reference)
	return &result, nil
}

// GetReflectionForVerse generates a short free-text reflection. Failures are
// logged and replaced by ReflectionApology.
func (c *Client) GetReflectionForVerse(ctx context.Context, arabic, translation, chapterName string, verseNumber int) string {
	if c.models == nil {
		c.logger.Warn("reflection skipped", slog.Any("error", c.configErr()))
		return ReflectionApology
	}

	prompt := fmt.Sprintf(`Write a short reflection (3-4 sentences) in simple Hindi on this verse of the Quran.
Surah: %s, Ayah: %d
Arabic: %s
Hindi translation: %s
Relate it gently to everyday life. Do not add headings or lists.`, chapterName, verseNumber, arabic, translation)

	text, err := c.generate(ctx, prompt, nil)
	if err != nil {
		c.logger.Warn("reflection failed", slog.String("surah", chapterName), slog.Int("ayah", verseNumber), slog.Any("error", err))
		return ReflectionApology
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ReflectionApology
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string, genCfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", c.serviceErr(err)
	}
	if len(resp.Candidates) == 0 {
		return "", c.serviceErr(errors.New("no candidates"))
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", c.serviceErr(fmt.Errorf("empty text (finish reason %s)", resp.Candidates[0].FinishReason))
	}
	return text, nil
}

func (c *Client) serviceErr(err error) error {
	return errorsx.WrapMessage(fmt.Errorf("%w: %v", ErrService, err), errorsx.ReasonService, MessageService)
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
