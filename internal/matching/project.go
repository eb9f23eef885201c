package matching

import (
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"gorm.io/gorm"

	"github.com/construbase/invoicepipe/internal/models"
)

// fuzzyProjectThreshold is lower than the line matcher's: address text is
// noisier than product descriptions.
const fuzzyProjectThreshold = 75

// ProjectIndex holds the fuzzy lookup structure for one tenant's projects.
// The matching key is "{title} {address}".
type ProjectIndex struct {
	choices map[string]string // "title address" -> ProjectID
}

// BuildProjectIndex loads the projects of a tenant, skipping entries whose
// combined title+address key is empty.
func BuildProjectIndex(db *gorm.DB, tenant string) (*ProjectIndex, error) {
	var projects []models.PjProject
	if err := db.Where(`"DatabaseID" = ?`, tenant).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load projects for tenant %s: %w", tenant, err)
	}

	idx := &ProjectIndex{choices: make(map[string]string, len(projects))}
	for _, p := range projects {
		key := strings.TrimSpace(p.PjTitle + " " + p.PjAddress)
		if key == "" {
			continue
		}
		idx.choices[key] = p.ProjectID
	}
	return idx, nil
}

// Size returns how many project keys the index holds
func (idx *ProjectIndex) Size() int {
	return len(idx.choices)
}

// MatchProject resolves free-text address fields to a project id, or ""
// when nothing clears the threshold. Addresses are long and the target is
// often a substring of the candidate, so scoring is substring-tolerant
// (partial ratio) rather than token-sort.
func (idx *ProjectIndex) MatchProject(addressText string) string {
	addressText = strings.TrimSpace(addressText)
	if addressText == "" || len(idx.choices) == 0 {
		return ""
	}

	bestScore := -1
	bestKey := ""
	for key := range idx.choices {
		score := fuzzy.PartialRatio(addressText, key)
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}
	if bestScore >= fuzzyProjectThreshold {
		return idx.choices[bestKey]
	}
	return ""
}
