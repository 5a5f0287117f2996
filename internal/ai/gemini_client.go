package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/chronos/internal/logger"
	"github.com/bilgisen/chronos/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// DefaultBaseURL is the public Gemini REST endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient asks Gemini for the latest headline of a topic
type GeminiClient struct {
	client       *resty.Client
	apiKey       string
	model        string
	baseURL      string
	grounding    bool
	imageBaseURL string
}

// GeminiOptions configures a GeminiClient
type GeminiOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Timeout      time.Duration
	Grounding    bool
	ImageBaseURL string
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *geminiError `json:"error"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &GeminiClient{
		client:       resty.New().SetTimeout(opts.Timeout),
		apiKey:       opts.APIKey,
		model:        opts.Model,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		grounding:    opts.Grounding,
		imageBaseURL: opts.ImageBaseURL,
	}
}

// Generate produces a news item for the topic. A nil location leaves the search global.
func (g *GeminiClient) Generate(ctx context.Context, topic string, loc *models.Coordinates) (*models.NewsItem, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	log := logger.Component("gemini")
	prompt := BuildHeadlinePrompt(topic, loc)

	log.Debug().
		Str("model", g.model).
		Str("topic", topic).
		Bool("local", loc != nil).
		Bool("grounding", g.grounding).
		Msg("Requesting headline")

	start := time.Now()
	text, sources, err := g.callGeminiAPI(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("error calling Gemini API: %w", err)
	}

	h := ParseHeadline(text, sources)

	log.Info().
		Str("topic", topic).
		Str("title", h.Title).
		Int("sources", len(h.Sources)).
		Dur("duration", time.Since(start)).
		Msg("Headline generated")

	return &models.NewsItem{
		ID:        uuid.NewString(),
		Title:     h.Title,
		Summary:   h.Summary,
		Timestamp: time.Now(),
		Sources:   h.Sources,
		Topic:     topic,
		ImageURL:  g.imageURL(),
		Sentiment: h.Sentiment,
		Location:  h.Location,
	}, nil
}

func (g *GeminiClient) callGeminiAPI(ctx context.Context, prompt string) (string, []models.Source, error) {
	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}
	if g.grounding {
		req.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	var resp geminiResponse
	var errResp geminiResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&errResp).
		Post(url)

	if err != nil {
		return "", nil, fmt.Errorf("API request failed: %w", err)
	}

	if httpResp.IsError() {
		if errResp.Error != nil {
			return "", nil, fmt.Errorf("API error (status %d): %s", httpResp.StatusCode(), errResp.Error.Message)
		}
		return "", nil, fmt.Errorf("API error (status %d)", httpResp.StatusCode())
	}

	if resp.Error != nil {
		return "", nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 {
		return "", nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}

	var sources []models.Source
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = fallbackSourceName
			}
			sources = append(sources, models.Source{Title: title, URL: chunk.Web.URI})
		}
	}

	return b.String(), sources, nil
}

func (g *GeminiClient) imageURL() string {
	if g.imageBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s?auto=format&fit=crop&q=80&w=800&h=400&sig=%s", g.imageBaseURL, uuid.NewString())
}
