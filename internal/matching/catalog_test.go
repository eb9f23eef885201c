package matching

import (
	"strings"
	"testing"
)

func testCatalogIndex() *CatalogIndex {
	return &CatalogIndex{
		skuIndex: map[string]string{
			"GCP":    "ITEM001",
			"VAR12":  "ITEM002",
			"ARENA1": "ITEM003",
		},
		titleChoices: map[string]string{
			"Generic Cement Product": "ITEM001",
			"Varilla Deformada 12mm": "ITEM002",
			"Arena Fina de Rio":      "ITEM003",
		},
	}
}

func TestMatchLineExactSKU(t *testing.T) {
	idx := testCatalogIndex()

	id, method := idx.MatchLine("GCP", "Cement")
	if id != "ITEM001" || method != "Exact SKU" {
		t.Errorf("got (%s, %s), want (ITEM001, Exact SKU)", id, method)
	}
}

func TestMatchLineExactSKUNormalization(t *testing.T) {
	idx := testCatalogIndex()

	// Case and surrounding whitespace must not matter
	for _, sku := range []string{"gcp", " GCP ", "  gCp"} {
		id, method := idx.MatchLine(sku, "")
		if id != "ITEM001" || method != "Exact SKU" {
			t.Errorf("sku %q: got (%s, %s), want (ITEM001, Exact SKU)", sku, id, method)
		}
	}
}

func TestMatchLineExactBeatsFuzzy(t *testing.T) {
	idx := testCatalogIndex()

	// Description fuzzy-matches ITEM002 perfectly, but the SKU is
	// authoritative and resolves first.
	id, method := idx.MatchLine("gcp", "Varilla Deformada 12mm")
	if id != "ITEM001" {
		t.Errorf("exact SKU must win over fuzzy: got %s via %s", id, method)
	}
	if method != "Exact SKU" {
		t.Errorf("method: got %s, want Exact SKU", method)
	}
}

func TestMatchLineFuzzyFallback(t *testing.T) {
	idx := testCatalogIndex()

	// Token order must not matter for description matching
	id, method := idx.MatchLine("", "Deformada Varilla 12mm")
	if id != "ITEM002" {
		t.Errorf("fuzzy match: got %s via %s, want ITEM002", id, method)
	}
	if !strings.HasPrefix(method, "Fuzzy ") || !strings.HasSuffix(method, "%") {
		t.Errorf("fuzzy method label: got %q", method)
	}
}

func TestMatchLineBelowThresholdReturnsSentinel(t *testing.T) {
	idx := testCatalogIndex()

	id, method := idx.MatchLine("", "Servicio de transporte de maquinaria pesada")
	if id != UnknownSupplyID {
		t.Errorf("low-confidence match must not guess: got %s via %s", id, method)
	}
	if method != "Raw SKU" {
		t.Errorf("method: got %s, want Raw SKU", method)
	}
}

func TestMatchLineUnmatchedSKUReturnsRaw(t *testing.T) {
	idx := testCatalogIndex()

	// A SKU that is not in the catalog and a description that matches
	// nothing falls through to the raw SKU, never to null.
	id, method := idx.MatchLine("ZZZ99", "No such thing")
	if id != "ZZZ99" || method != "Raw SKU" {
		t.Errorf("got (%s, %s), want (ZZZ99, Raw SKU)", id, method)
	}
}

func TestMatchLineEmptyEverything(t *testing.T) {
	idx := &CatalogIndex{
		skuIndex:     map[string]string{},
		titleChoices: map[string]string{},
	}

	id, method := idx.MatchLine("", "")
	if id != UnknownSupplyID || method != "Raw SKU" {
		t.Errorf("got (%s, %s), want (%s, Raw SKU)", id, method, UnknownSupplyID)
	}
}
