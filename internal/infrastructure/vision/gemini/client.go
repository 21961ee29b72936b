package gemini

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/infrastructure/resilience"
)

// Config carries the connection settings for the hosted vision backend.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	OCRTimeout     time.Duration
	AugmentTimeout time.Duration
}

// Client talks to the hosted Gemini-backed OCR/extraction service over
// plain HTTP JSON. All outbound calls run through the resilience executor.
type Client struct {
	baseURL        string
	apiKey         string
	model          string
	ocrTimeout     time.Duration
	augmentTimeout time.Duration
	httpClient     *http.Client
	executor       *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 60 * time.Second
	}
	if cfg.AugmentTimeout <= 0 {
		cfg.AugmentTimeout = 30 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		ocrTimeout:     cfg.OCRTimeout,
		augmentTimeout: cfg.AugmentTimeout,
		httpClient:     &http.Client{Timeout: 120 * time.Second},
		executor:       executor,
	}
}

// OCR implements ports.RemoteOCR against the backend's transcription
// endpoint.
type OCR struct {
	client *Client
}

func NewOCR(client *Client) *OCR {
	return &OCR{client: client}
}

func (o *OCR) ExtractText(ctx context.Context, content []byte, filename, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.client.ocrTimeout)
	defer cancel()

	request := map[string]any{
		"model":     o.client.model,
		"filename":  filename,
		"mime_type": mimeType,
		"content":   base64.StdEncoding.EncodeToString(content),
	}

	var response struct {
		Text string `json:"text"`
	}
	err := o.client.executor.Execute(ctx, "vision_ocr", func(ctx context.Context) error {
		return o.client.postJSON(ctx, "/v1/ocr", request, &response, "ocr")
	}, classifyVisionError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("remote ocr", err)
	}
	return strings.TrimSpace(response.Text), nil
}

// Augmenter implements ports.FieldAugmenter against the backend's
// structured-extraction endpoint. Callers treat its output as advisory.
type Augmenter struct {
	client *Client
}

func NewAugmenter(client *Client) *Augmenter {
	return &Augmenter{client: client}
}

func (a *Augmenter) Augment(ctx context.Context, text string, hint domain.Category) (domain.Augmentation, error) {
	ctx, cancel := context.WithTimeout(ctx, a.client.augmentTimeout)
	defer cancel()

	request := map[string]any{
		"model":         a.client.model,
		"text":          text,
		"category_hint": string(hint),
	}

	var response struct {
		Category         string             `json:"category"`
		Confidence       float64            `json:"confidence"`
		Fields           map[string]string  `json:"fields"`
		FieldConfidences map[string]float64 `json:"field_confidences"`
	}
	err := a.client.executor.Execute(ctx, "vision_augment", func(ctx context.Context) error {
		return a.client.postJSON(ctx, "/v1/extract", request, &response, "augment")
	}, classifyVisionError)
	if err != nil {
		return domain.Augmentation{}, wrapTemporaryIfNeeded("field augment", err)
	}

	aug := domain.Augmentation{
		FieldConfidences: response.FieldConfidences,
	}
	// Labels outside the known vocabulary are dropped entirely, confidence
	// included, so a hallucinated type never turns into an unrelated verdict.
	if domain.KnownCategory(response.Category) {
		aug.DetectedCategory = domain.NormalizeCategory(response.Category)
		aug.DetectedConfidence = response.Confidence
	}
	if len(response.Fields) > 0 {
		aug.Fields = domain.Fields{}
		for key, value := range response.Fields {
			if strings.TrimSpace(value) != "" {
				aug.Fields[key] = strings.TrimSpace(value)
			}
		}
	}
	return aug, nil
}

// NoopAugmenter is the stand-in when no vision backend is configured.
type NoopAugmenter struct{}

func (NoopAugmenter) Augment(context.Context, string, domain.Category) (domain.Augmentation, error) {
	return domain.Augmentation{}, nil
}
