package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/postbatch/internal/models"
	"google.golang.org/genai"
)

var ErrMissingAPIKey = errors.New("generative api key is not configured")

const DefaultModel = "gemini-2.5-flash"

// Text-with-background posts are rendered over a coloured card and must stay short.
const backgroundTextLimit = 130

// DraftRequest describes a single draft to generate.
type DraftRequest struct {
	Topic    string
	Tone     models.Tone
	Audience string
	PostType models.PostType
	Media    []models.MediaFile
}

// GenerativeService drafts and rewrites post content. Every call may fail;
// callers decide what to fall back to.
type GenerativeService interface {
	GenerateDraft(ctx context.Context, req DraftRequest, apiKey string) (string, error)
	GenerateVariations(ctx context.Context, baseContent string, count int, tone models.Tone, apiKey string) ([]string, error)
}

type generativeService struct {
	model      string
	defaultKey string
}

func NewGenerativeService(model, defaultKey string) GenerativeService {
	if model == "" {
		model = DefaultModel
	}
	return &generativeService{model: model, defaultKey: defaultKey}
}

var toneInstructions = map[models.Tone]string{
	models.ToneProfessional:  "Professional and polished, focused on service quality and amenities.",
	models.ToneViral:         "Short, punchy and trend-aware, with a curiosity-driven hook.",
	models.ToneFunny:         "Light-hearted and witty to encourage interaction.",
	models.ToneCasual:        "Relaxed and friendly, like an invitation to get away for a while.",
	models.ToneInspirational: "Inspiring and dreamy, focused on natural beauty and feeling renewed.",
}

func toneInstruction(t models.Tone) string {
	if s, ok := toneInstructions[t]; ok {
		return s
	}
	return string(t)
}

func (s *generativeService) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	key := apiKey
	if key == "" {
		key = s.defaultKey
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
}

func (s *generativeService) GenerateDraft(ctx context.Context, req DraftRequest, apiKey string) (string, error) {
	client, err := s.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	var parts []*genai.Part
	for _, f := range req.Media {
		if f.IsImage() {
			parts = append(parts, genai.NewPartFromBytes(f.Data, f.MimeType))
		}
	}
	parts = append(parts, genai.NewPartFromText(draftPrompt(req, len(parts) > 0)))

	resp, err := client.Models.GenerateContent(ctx, s.model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		slog.Error("generate draft failed", "error", err)
		return "", fmt.Errorf("generate draft: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("generate draft: empty response")
	}
	return text, nil
}

func draftPrompt(req DraftRequest, hasImages bool) string {
	var b strings.Builder
	b.WriteString("Write a complete Facebook post in plain text. No markdown, no bold or italics.\n")
	if hasImages {
		fmt.Fprintf(&b, "Describe what the attached photos show and tie it to this idea: %q.\n", req.Topic)
	} else {
		fmt.Fprintf(&b, "Main idea: %q.\n", req.Topic)
	}
	if req.Audience != "" {
		fmt.Fprintf(&b, "Target audience: %s.\n", req.Audience)
	}
	fmt.Fprintf(&b, "Tone: %s\n", toneInstruction(req.Tone))
	if req.PostType == models.PostTypeTextWithBackground {
		fmt.Fprintf(&b, "This is a text-on-background post: keep it under %d characters.\n", backgroundTextLimit)
	}
	b.WriteString("Open with a strong hook, use line breaks between paragraphs, use dashes or emoji for lists.")
	return b.String()
}

func (s *generativeService) GenerateVariations(ctx context.Context, baseContent string, count int, tone models.Tone, apiKey string) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	client, err := s.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Rewrite the following post into %d distinct versions so they do not look like duplicates.\n"+
			"Keep the core message, prices and facts. Vary the opening hook, sentence structure, call to action and emoji.\n"+
			"Plain text only, no markdown.\nTone: %s\nPost: %q\nReturn a JSON array of strings.",
		count, toneInstruction(tone), baseContent)

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate variations: %w", err)
	}

	var variants []string
	if err := json.Unmarshal([]byte(resp.Text()), &variants); err != nil {
		return nil, fmt.Errorf("generate variations: decode: %w", err)
	}
	return variants, nil
}
