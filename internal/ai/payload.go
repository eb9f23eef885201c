package ai

// InvoiceHeader is the document-level block of an extraction result
type InvoiceHeader struct {
	DoConsecutive     string `json:"doConsecutive"`
	DoDate            string `json:"doDate"` // YYYY-MM-DD
	DoIssuerID        string `json:"doIssuerID"`
	DoIssuerName      string `json:"doIssuerName"`
	DoType            string `json:"doType"` // FE or NC
	DoReceptorID      string `json:"doReceptorID,omitempty"`
	DoReceptorAddress string `json:"doReceptorAddress,omitempty"`
	DoIssuerAddress   string `json:"doIssuerAddress,omitempty"`
	DoAccount         string `json:"doAccount,omitempty"`
	CurrencyID        string `json:"CurrencyID,omitempty"`
}

// InvoiceLine is one extracted line item. The "Código / Cód. CABYS" source
// column stacks SKU and CABYS; the model separates them into the two
// candidate fields.
type InvoiceLine struct {
	SkuCandidate   string  `json:"sku_candidate"`
	CabysCandidate string  `json:"cabys_candidate"`
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
}

// TokenUsage records the Gemini token accounting for one extraction
type TokenUsage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CandidatesTokens int32 `json:"candidates_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

// InvoicePayload is the structured result of one AI extraction
type InvoicePayload struct {
	Header InvoiceHeader `json:"header"`
	Lines  []InvoiceLine `json:"lines"`
	Usage  TokenUsage    `json:"usage"`
}
