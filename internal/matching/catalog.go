package matching

import (
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"gorm.io/gorm"

	"github.com/construbase/invoicepipe/internal/models"
)

// UnknownSupplyID is the explicit unresolved sentinel. Downstream code
// branches on string equality, never on nil.
const UnknownSupplyID = "UNKNOWN"

// fuzzyLineThreshold is the minimum token-sort score (0-100) for a
// description match to be trusted over the raw SKU.
const fuzzyLineThreshold = 80

// CatalogIndex holds the in-memory lookup structures for one tenant's
// product catalog. Loaded fresh per pipeline run, never cached across runs.
type CatalogIndex struct {
	skuIndex     map[string]string // normalized itCode -> ItemID
	titleChoices map[string]string // itTitle -> ItemID
}

// NormalizeSKU applies the catalog's SKU comparison rules: trimmed and
// upper-cased.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// BuildCatalogIndex loads the product catalog for a tenant once per request.
// SKU collisions within a tenant resolve last-write-wins, same for titles.
func BuildCatalogIndex(db *gorm.DB, tenant string) (*CatalogIndex, error) {
	var items []models.BcItem
	if err := db.Where(`"DatabaseID" = ?`, tenant).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog for tenant %s: %w", tenant, err)
	}

	idx := &CatalogIndex{
		skuIndex:     make(map[string]string, len(items)),
		titleChoices: make(map[string]string, len(items)),
	}
	for _, item := range items {
		if item.ItCode != "" {
			idx.skuIndex[NormalizeSKU(item.ItCode)] = item.ItemID
		}
		if item.ItTitle != "" {
			idx.titleChoices[item.ItTitle] = item.ItemID
		}
	}
	return idx, nil
}

// Size returns how many SKU and title entries the index holds
func (idx *CatalogIndex) Size() (int, int) {
	return len(idx.skuIndex), len(idx.titleChoices)
}

// MatchLine resolves one extracted line to a catalog item id plus a method
// label, using two tiers:
//
//  1. Exact SKU lookup (in memory, O(1)) - authoritative and cheap, always
//     tried first.
//  2. Fuzzy match on the description (token-order-insensitive, threshold 80)
//     as the expensive fallback.
//
// CABYS codes are carried through on the line but never used for lookup.
func (idx *CatalogIndex) MatchLine(sku, description string) (string, string) {
	if sku != "" {
		if itemID, ok := idx.skuIndex[NormalizeSKU(sku)]; ok {
			return itemID, "Exact SKU"
		}
	}

	if len(idx.titleChoices) > 0 && description != "" {
		bestScore := -1
		bestTitle := ""
		for title := range idx.titleChoices {
			score := fuzzy.TokenSortRatio(description, title)
			if score > bestScore {
				bestScore = score
				bestTitle = title
			}
		}
		if bestScore >= fuzzyLineThreshold {
			return idx.titleChoices[bestTitle], fmt.Sprintf("Fuzzy %d%%", bestScore)
		}
	}

	if sku != "" {
		return sku, "Raw SKU"
	}
	return UnknownSupplyID, "Raw SKU"
}
