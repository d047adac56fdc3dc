package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shenikar/disaster_response_system/internal/config"
	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Фиксированный ответ на случай любого сбоя классификатора.
// Поток подачи отчета никогда не видит саму ошибку.
var fallbackAnalysis = models.AnalysisResult{
	Severity: models.SeverityMedium,
	Category: models.DisasterOther,
	Summary:  "Analysis failed. Manual review required.",
	Advice:   "Stay safe and wait for responders.",
}

const fallbackResourceText = "Could not fetch nearby resources at this time."

// Analyzer определяет контракт адаптера анализа отчетов
type Analyzer interface {
	AnalyzeReport(ctx context.Context, description, imageBase64 string) *models.AnalysisResult
	FindNearbyResources(ctx context.Context, lat, lon float64, facilityType string) *models.ResourceLookup
}

// Client - клиент REST API Gemini (generateContent)
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
	apiKey     string
	model      string
	baseURL    string
}

func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.GeminiTimeout,
		},
		logger:  logger,
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: defaultBaseURL,
	}
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// Схема структурированного ответа классификатора: замкнутые перечни
// запрашиваются у модели, но самим адаптером не навязываются.
var analysisSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"severity": {"type": "STRING", "enum": ["Low", "Medium", "High", "Critical"]},
		"category": {"type": "STRING", "enum": ["Flood", "Fire", "Road Accident", "Earthquake", "Other"]},
		"summary": {"type": "STRING"},
		"advice": {"type": "STRING"}
	},
	"required": ["severity", "category", "summary", "advice"]
}`)

// AnalyzeReport классифицирует описание инцидента (и опциональный снимок).
// Любой сбой - сеть, таймаут, кривой ответ - поглощается и заменяется
// фиксированным fallback-значением.
func (c *Client) AnalyzeReport(ctx context.Context, description, imageBase64 string) *models.AnalysisResult {
	log := c.logger.WithFields(logrus.Fields{
		"adapter": "analysis",
		"method":  "AnalyzeReport",
	})

	prompt := fmt.Sprintf(`You are a disaster management AI assistant. Analyze the following incident report.
Determine the severity level (Low, Medium, High, Critical), the category of disaster,
provide a short professional summary (max 20 words), and give 1 sentence of immediate safety advice.

Report Description: %q`, description)

	parts := []generatePart{{Text: prompt}}
	if imageBase64 != "" {
		parts = append(parts, generatePart{
			InlineData: &inlineData{
				MimeType: "image/jpeg",
				Data:     imageBase64,
			},
		})
	}

	reqBody := generateRequest{
		Contents: []generateContent{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}

	text, _, err := c.generate(ctx, reqBody)
	if err != nil {
		log.WithError(err).Error("AI analysis failed, using fallback")
		result := fallbackAnalysis
		return &result
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		log.WithError(err).Error("Failed to parse AI analysis response, using fallback")
		fallback := fallbackAnalysis
		return &fallback
	}

	log.WithField("severity", result.Severity).Info("Report analyzed")
	return &result
}

// FindNearbyResources запрашивает у модели ближайшие объекты (больницы, убежища и т.п.).
// Политика поглощения сбоев та же: fallback-текст и пустой список мест.
func (c *Client) FindNearbyResources(ctx context.Context, lat, lon float64, facilityType string) *models.ResourceLookup {
	log := c.logger.WithFields(logrus.Fields{
		"adapter": "analysis",
		"method":  "FindNearbyResources",
	})

	prompt := fmt.Sprintf("Find %s near latitude %f, longitude %f.", facilityType, lat, lon)
	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}

	text, places, err := c.generate(ctx, reqBody)
	if err != nil {
		log.WithError(err).Error("Resource lookup failed, using fallback")
		return &models.ResourceLookup{
			Text:   fallbackResourceText,
			Places: []models.ResourcePlace{},
		}
	}

	log.WithField("places", len(places)).Info("Nearby resources fetched")
	return &models.ResourceLookup{
		Text:   text,
		Places: places,
	}
}

// generate выполняет один вызов generateContent и возвращает текст первого
// кандидата вместе с привязанными местами
func (c *Client) generate(ctx context.Context, reqBody generateRequest) (string, []models.ResourcePlace, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read classifier response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal classifier response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("classifier returned no candidates")
	}

	places := make([]models.ResourcePlace, 0)
	for _, chunk := range genResp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web.Title == "" && chunk.Web.URI == "" {
			continue
		}
		places = append(places, models.ResourcePlace{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}

	return genResp.Candidates[0].Content.Parts[0].Text, places, nil
}
