package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/construbase/invoicepipe/internal/utils"
)

const extractionPrompt = `Extract data from this Costa Rican invoice PDF.

Column "Código / Cód. CABYS" stacks SKU (e.g. 'GCP') and CABYS ('2413...'). Separate them.

Return JSON:
{
    "header": {
        "doConsecutive": "string",
        "doDate": "YYYY-MM-DD",
        "doIssuerID": "string",
        "doIssuerName": "string",
        "doType": "FE or NC",
        "doReceptorID": "string",
        "doIssuerAddress": "string",
        "doReceptorAddress": "string"
    },
    "lines": [
        {
            "sku_candidate": "string",
            "cabys_candidate": "string",
            "description": "string",
            "quantity": 0.0,
            "unit_price": 0.0,
            "discount_amount": 0.0,
            "tax_amount": 0.0
        }
    ]
}`

// Extractor turns raw invoice bytes into a structured payload via Gemini
type Extractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewExtractor creates a Gemini-backed invoice extractor
func NewExtractor(ctx context.Context, apiKey, modelName string) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.1)

	return &Extractor{
		client: client,
		model:  model,
	}, nil
}

// Close closes the underlying client connection
func (e *Extractor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// ExtractInvoice sends the document to Gemini and parses the structured
// response. Token usage is appended to the payload for the audit note.
func (e *Extractor) ExtractInvoice(ctx context.Context, data []byte, mimeType string) (*InvoicePayload, error) {
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	resp, err := e.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	// Gemini occasionally wraps the JSON in markdown fences despite the
	// response MIME type
	fullText = strings.TrimSpace(fullText)
	fullText = strings.TrimPrefix(fullText, "```json")
	fullText = strings.TrimPrefix(fullText, "```")
	fullText = strings.TrimSuffix(fullText, "```")

	var payload InvoicePayload
	if err := json.Unmarshal([]byte(fullText), &payload); err != nil {
		preview := utils.TruncateRunes(fullText, 500)
		if preview != fullText {
			preview += "... (truncated)"
		}
		log.Printf("⚠️  Failed to parse Gemini JSON. Preview: %s", preview)
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	if resp.UsageMetadata != nil {
		payload.Usage = TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CandidatesTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
		log.Printf("📊 Gemini usage: prompt=%d candidates=%d total=%d",
			payload.Usage.PromptTokens, payload.Usage.CandidatesTokens, payload.Usage.TotalTokens)
	}

	return &payload, nil
}
