package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

var ErrParse = errors.New("could not parse input")

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint. Empty means the SDK default.
	BaseURL string
	Timeout time.Duration
}

type GeminiClient struct {
	client *genai.Client
	model  string
	logger logger.ZapLogger
}

// NewGeminiClient returns a client whose Parse always fails with ErrParse
// when no API key is configured.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log logger.ZapLogger) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	c := &GeminiClient{model: cfg.Model, logger: log}
	if cfg.APIKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

const promptTemplate = `You are the operations assistant for a streetwear retail brand.
Parse this operator input into one structured business action: %q

Rules:
- Product actions always carry a SIZE (S, M, L, XL, XXL). Use M when the product is clear but the size is not.
- Fabric, stitching and factory payments are manufacturing expenses.

Action types:
1. sale: selling a product. Extract customerName, customerPhone, customerAddress, itemName, size,
   channel (website, store a, store b; website when vague), quantity, and amount when it differs from list price.
2. expense: spending money. category is one of marketing, manufacturing, delivery, travel, samples, production, other.
3. transfer: moving stock. from/to are hub, store a or store b. Extract itemName, size, quantity.
4. product_drop: launching a new item. Extract itemName, sku, costPrice, salePrice, sizes in size, opening stock in quantity.`

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func num() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber}
}

var actionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"type": str("One of 'sale', 'expense', 'transfer', 'product_drop'"),
		"data": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"amount":          num(),
				"itemName":        str(""),
				"size":            str("Size of the item (e.g. M, L, XL)"),
				"customerName":    str(""),
				"customerPhone":   str(""),
				"customerAddress": str(""),
				"customerType":    str("customer, influencer or talent"),
				"category":        str("Category for expense"),
				"description":     str(""),
				"from":            str("Source location"),
				"to":              str("Destination location"),
				"quantity":        num(),
				"channel":         str("Sales channel"),
				"sku":             str(""),
				"costPrice":       num(),
				"salePrice":       num(),
			},
		},
	},
	Required: []string{"type", "data"},
}

func (c *GeminiClient) Parse(ctx context.Context, text string) (*Action, error) {
	if c.client == nil {
		return nil, fmt.Errorf("%w: assistant api key not configured", ErrParse)
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(fmt.Sprintf(promptTemplate, text)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   actionSchema,
	})
	if err != nil {
		c.logger.Warn("assistant request failed", zap.String("model", c.model), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	raw := res.Text()
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParse)
	}
	var action Action
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		return nil, fmt.Errorf("%w: decode action: %v", ErrParse, err)
	}
	action.Type = strings.ToLower(strings.TrimSpace(action.Type))
	if action.Type == "" {
		return nil, fmt.Errorf("%w: missing action type", ErrParse)
	}
	return &action, nil
}

var _ Parser = (*GeminiClient)(nil)
