package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/construbase/invoicepipe/internal/ai"
	"github.com/construbase/invoicepipe/internal/matching"
	"github.com/construbase/invoicepipe/internal/models"
	"github.com/construbase/invoicepipe/internal/utils"
)

const (
	docStatusReady  = "READY_FOR_BOT"
	docCreatedBy    = "AI_MICROSERVICE"
	ledgerCreatedBy = "AI_BOT"
	movementAction  = "IN"
	movementStatus  = "Applied"
	defaultCurrency = "CRC"
)

// Upsert modes
const (
	ModeCreated = "created"
	ModeUpdated = "updated"
)

// Engine persists one extracted invoice as a document with derived
// inventory effects. One invocation handles one document; everything it
// writes commits as a single unit.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a document upsert engine
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// UpsertResult summarizes one committed upsert
type UpsertResult struct {
	DocumentID     string   `json:"document_id"`
	Mode           string   `json:"mode"`
	LinesCount     int      `json:"lines_count"`
	MatchedProject string   `json:"matched_project,omitempty"`
	Logs           []string `json:"logs"`
}

// parseHeaderDate parses the extracted document date. An unparseable date
// degrades to the current processing date instead of failing the run; the
// fallback is business policy, not an error path.
func parseHeaderDate(raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Now(), true
	}
	return t, false
}

// Upsert resolves or creates the document header for the tenant, replaces
// its lines with the extracted ones, derives movement and price records for
// every resolved line, and commits it all atomically.
func (e *Engine) Upsert(ctx context.Context, payload *ai.InvoicePayload, fileRef, externalDocID, tenant string) (*UpsertResult, error) {
	db := e.db.WithContext(ctx)

	// The tenant id is narrowed once so the header, lines, ledger rows and
	// every lookup all carry the same width-10 value.
	tenant = utils.TruncateID(tenant, models.ShortIDWidth)

	// Indexes are loaded fresh per call so a catalog edit between requests
	// is always visible.
	catalogIdx, err := matching.BuildCatalogIndex(db, tenant)
	if err != nil {
		return nil, err
	}
	projectIdx, err := matching.BuildProjectIndex(db, tenant)
	if err != nil {
		return nil, err
	}
	skuCount, titleCount := catalogIdx.Size()
	log.Printf("📚 Tenant %s: %d SKUs, %d titles, %d projects indexed", tenant, skuCount, titleCount, projectIdx.Size())

	header := payload.Header

	var doc models.FnDocument
	mode := ModeCreated
	if externalDocID != "" {
		err := db.Where(`"DocumentID" = ? AND "DatabaseID" = ?`, externalDocID, tenant).First(&doc).Error
		switch {
		case err == nil:
			mode = ModeUpdated
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc.DocumentID = externalDocID
		default:
			return nil, fmt.Errorf("failed to load document %s: %w", externalDocID, err)
		}
	} else {
		doc.DocumentID = utils.NewShortID()
	}

	docDate, degraded := parseHeaderDate(header.DoDate)
	if degraded {
		log.Printf("⚠️  Document %s: unparseable date %q, using processing date", doc.DocumentID, header.DoDate)
	}

	currency := header.CurrencyID
	if currency == "" {
		currency = defaultCurrency
	}

	doc.DatabaseID = tenant
	doc.DoFile = fileRef
	doc.DriveID = fileRef
	doc.DoDate = docDate
	doc.DoType = header.DoType
	doc.DoConsecutive = header.DoConsecutive
	doc.DoIssuer = header.DoIssuerID
	doc.DoReceptor = header.DoReceptorID
	doc.DoAccount = header.DoAccount
	doc.CurrencyID = currency
	doc.DoStatus = docStatusReady
	doc.DoCreatedBy = docCreatedBy
	doc.Bot = fmt.Sprintf("Processed by invoicepipe. AI usage: prompt=%d candidates=%d total=%d",
		payload.Usage.PromptTokens, payload.Usage.CandidatesTokens, payload.Usage.TotalTokens)

	// Project resolution is document-scoped: one lookup over the combined
	// issuer/receptor address text, stamped onto every derived record.
	addressText := strings.TrimSpace(strings.TrimSpace(header.DoIssuerAddress) + " " + strings.TrimSpace(header.DoReceptorAddress))
	projectID := utils.TruncateID(projectIdx.MatchProject(addressText), models.ShortIDWidth)
	if projectID != "" {
		log.Printf("🏗️  Document %s matched project %s", doc.DocumentID, projectID)
	}

	shortDocID := utils.TruncateID(doc.DocumentID, models.ShortIDWidth)

	var (
		lines     []models.FnDocumentLn
		movements []models.IcMovement
		prices    []models.IcPrice
		logs      []string
	)

	totalSubtotal := decimal.Zero
	totalTaxes := decimal.Zero
	totalDoc := decimal.Zero

	for i, line := range payload.Lines {
		supplyID, method := catalogIdx.MatchLine(line.SkuCandidate, line.Description)

		qty := decimal.NewFromFloat(line.Quantity)
		price := decimal.NewFromFloat(line.UnitPrice)
		discount := decimal.NewFromFloat(line.DiscountAmount)
		taxes := decimal.NewFromFloat(line.TaxAmount)

		subtotal := qty.Mul(price).Sub(discount)
		lineTotal := subtotal.Add(taxes)

		lineID := utils.NewLineID()
		lineNumber := i + 1

		lines = append(lines, models.FnDocumentLn{
			DocumentLnID:   lineID,
			DocumentID:     doc.DocumentID,
			DatabaseID:     tenant,
			DlNumber:       lineNumber,
			SupplyID:       supplyID,
			CabysID:        line.CabysCandidate,
			DlDescription:  line.Description,
			DlQuantity:     qty,
			DlUnitPrice:    price,
			DlDiscount:     discount,
			DlSubtotal:     subtotal,
			DlTaxes:        taxes,
			DlTotal:        lineTotal,
			DlObservations: fmt.Sprintf("Match: %s", method),
		})

		// Inventory effects exist only for lines that resolved to
		// something; the UNKNOWN sentinel stays a bare document line.
		if supplyID != matching.UnknownSupplyID {
			movementID := utils.NewShortID()
			movements = append(movements, models.IcMovement{
				MovementID:   movementID,
				DatabaseID:   tenant,
				OriginID:     shortDocID,
				ProjectID:    projectID,
				ItemID:       utils.TruncateID(supplyID, models.ShortIDWidth),
				DocumentLnID: utils.TruncateID(lineID, models.ShortIDWidth),
				MvDate:       docDate,
				MvAction:     movementAction,
				MvQuantity:   qty,
				MvStatus:     movementStatus,
				MvNotes:      fmt.Sprintf("Invoice %s line %d (%s)", header.DoConsecutive, lineNumber, method),
				MvCreatedBy:  ledgerCreatedBy,
			})

			title := utils.TruncateRunes(line.Description, 150)
			prices = append(prices, models.IcPrice{
				PriceID:       utils.NewShortID(),
				DatabaseID:    tenant,
				ItemID:        utils.TruncateID(supplyID, models.ShortIDWidth),
				ProjectID:     projectID,
				MovementID:    movementID,
				PrTitle:       title,
				PrDescription: line.Description,
				PrQuantity:    qty,
				PrPrice:       price,
				PrTax:         taxes,
				PrTotal:       lineTotal,
				PrCreatedBy:   ledgerCreatedBy,
			})
		}

		totalSubtotal = totalSubtotal.Add(subtotal)
		totalTaxes = totalTaxes.Add(taxes)
		totalDoc = totalDoc.Add(lineTotal)
		logs = append(logs, fmt.Sprintf("Line %d: %s (%s)", lineNumber, supplyID, method))
	}

	// Aggregates are written once, after the loop
	doc.DoSubtotal = totalSubtotal
	doc.DoTaxes = totalTaxes
	doc.DoTotal = totalDoc

	err = db.Transaction(func(tx *gorm.DB) error {
		if mode == ModeUpdated {
			// Full replace: prior lines and their derived ledger rows go
			// away before the new set is written.
			var oldMovements []models.IcMovement
			if err := tx.Where(`"OriginID" = ? AND "DatabaseID" = ?`, shortDocID, tenant).Find(&oldMovements).Error; err != nil {
				return fmt.Errorf("failed to load prior movements: %w", err)
			}
			if len(oldMovements) > 0 {
				movementIDs := make([]string, 0, len(oldMovements))
				for _, m := range oldMovements {
					movementIDs = append(movementIDs, m.MovementID)
				}
				if err := tx.Where(`"MovementID" IN ?`, movementIDs).Delete(&models.IcPrice{}).Error; err != nil {
					return fmt.Errorf("failed to delete prior prices: %w", err)
				}
				if err := tx.Where(`"OriginID" = ? AND "DatabaseID" = ?`, shortDocID, tenant).Delete(&models.IcMovement{}).Error; err != nil {
					return fmt.Errorf("failed to delete prior movements: %w", err)
				}
			}
			if err := tx.Where(`"DocumentID" = ?`, doc.DocumentID).Delete(&models.FnDocumentLn{}).Error; err != nil {
				return fmt.Errorf("failed to delete prior lines: %w", err)
			}
			if err := tx.Save(&doc).Error; err != nil {
				return fmt.Errorf("failed to update document: %w", err)
			}
		} else {
			if err := tx.Create(&doc).Error; err != nil {
				return fmt.Errorf("failed to create document: %w", err)
			}
		}

		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("failed to create lines: %w", err)
			}
		}
		if len(movements) > 0 {
			if err := tx.Create(&movements).Error; err != nil {
				return fmt.Errorf("failed to create movements: %w", err)
			}
		}
		if len(prices) > 0 {
			if err := tx.Create(&prices).Error; err != nil {
				return fmt.Errorf("failed to create prices: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💾 Document %s %s: %d lines, %d movements, total %s %s",
		doc.DocumentID, mode, len(lines), len(movements), totalDoc.StringFixed(2), currency)

	return &UpsertResult{
		DocumentID:     doc.DocumentID,
		Mode:           mode,
		LinesCount:     len(lines),
		MatchedProject: projectID,
		Logs:           logs,
	}, nil
}
