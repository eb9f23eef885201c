package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/construbase/invoicepipe/internal/ai"
	"github.com/construbase/invoicepipe/internal/drive"
	"github.com/construbase/invoicepipe/internal/models"
	"gorm.io/gorm"
)

type stubFetcher struct {
	data []byte
	meta *drive.FileMeta
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, fileID string) ([]byte, *drive.FileMeta, error) {
	return s.data, s.meta, s.err
}

type stubExtractor struct {
	payload *ai.InvoicePayload
	err     error
	calls   int
}

func (s *stubExtractor) ExtractInvoice(ctx context.Context, data []byte, mimeType string) (*ai.InvoicePayload, error) {
	s.calls++
	return s.payload, s.err
}

func newTestOrchestrator(db *gorm.DB, fetcher Fetcher, extractor Extractor) *Orchestrator {
	return NewOrchestrator(NewDuplicateGuard(db), NewEngine(db), fetcher, extractor, testTenant, 30*time.Second)
}

func TestProcessCreatesThenSkipsDuplicate(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	fetcher := &stubFetcher{data: []byte("%PDF-1.4"), meta: &drive.FileMeta{Name: "factura.pdf", MimeType: "application/pdf"}}
	extractor := &stubExtractor{payload: cementPayload()}
	orch := newTestOrchestrator(db, fetcher, extractor)

	first, err := orch.Process(context.Background(), Request{FileID: "drive-123", FileName: "factura.pdf"})
	if err != nil {
		t.Fatalf("First process failed: %v", err)
	}
	if first.Status != "success" {
		t.Errorf("First status: got %s, want success", first.Status)
	}
	if first.Result == nil || first.Result.LinesCount != 1 {
		t.Errorf("First result: %+v", first.Result)
	}

	second, err := orch.Process(context.Background(), Request{FileID: "drive-123", FileName: "factura.pdf"})
	if err != nil {
		t.Fatalf("Second process failed: %v", err)
	}
	if second.Status != "skipped" {
		t.Errorf("Second status: got %s, want skipped", second.Status)
	}
	if second.DocumentID != first.DocumentID {
		t.Errorf("Skip must name the existing document: got %s, want %s", second.DocumentID, first.DocumentID)
	}
	if extractor.calls != 1 {
		t.Errorf("AI calls: got %d, want 1 (skip happens before extraction)", extractor.calls)
	}

	var docCount int64
	db.Model(&models.FnDocument{}).Count(&docCount)
	if docCount != 1 {
		t.Errorf("Documents after duplicate request: got %d, want 1", docCount)
	}
}

func TestProcessConcurrentSameFileCreatesOneDocument(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	fetcher := &stubFetcher{data: []byte("%PDF-1.4"), meta: &drive.FileMeta{Name: "factura.pdf", MimeType: "application/pdf"}}
	extractor := &stubExtractor{payload: cementPayload()}
	orch := newTestOrchestrator(db, fetcher, extractor)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses []string
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := orch.Process(context.Background(), Request{FileID: "drive-race"})
			if err != nil {
				t.Errorf("Process failed: %v", err)
				return
			}
			mu.Lock()
			statuses = append(statuses, outcome.Status)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(statuses) != 2 {
		t.Fatalf("Outcomes: got %d, want 2", len(statuses))
	}
	successes, skips := 0, 0
	for _, s := range statuses {
		switch s {
		case "success":
			successes++
		case "skipped":
			skips++
		}
	}
	if successes != 1 || skips != 1 {
		t.Errorf("Statuses: got %v, want exactly one success and one skipped", statuses)
	}

	var docCount int64
	db.Model(&models.FnDocument{}).Count(&docCount)
	if docCount != 1 {
		t.Errorf("Documents after concurrent identical requests: got %d, want 1", docCount)
	}
	if extractor.calls != 1 {
		t.Errorf("AI calls: got %d, want 1", extractor.calls)
	}

	// The per-file lock entry is evicted once the last holder releases it
	orch.mu.Lock()
	held := len(orch.locks)
	orch.mu.Unlock()
	if held != 0 {
		t.Errorf("Lock map entries after completion: got %d, want 0", held)
	}
}

func TestProcessFileNotFound(t *testing.T) {
	db := newTestDB(t)

	fetcher := &stubFetcher{err: errors.New("googleapi: Error 404")}
	extractor := &stubExtractor{payload: cementPayload()}
	orch := newTestOrchestrator(db, fetcher, extractor)

	_, err := orch.Process(context.Background(), Request{FileID: "gone-456"})
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Expected ErrFileNotFound, got %v", err)
	}
	if extractor.calls != 0 {
		t.Errorf("AI must not run when the file is unavailable, got %d calls", extractor.calls)
	}

	var docCount int64
	db.Model(&models.FnDocument{}).Count(&docCount)
	if docCount != 0 {
		t.Errorf("No document may exist after a failed fetch, got %d", docCount)
	}
}

func TestProcessExtractionFailureWritesNothing(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	fetcher := &stubFetcher{data: []byte("%PDF-1.4"), meta: &drive.FileMeta{Name: "factura.pdf", MimeType: "application/pdf"}}
	extractor := &stubExtractor{err: errors.New("model returned malformed json")}
	orch := newTestOrchestrator(db, fetcher, extractor)

	_, err := orch.Process(context.Background(), Request{FileID: "drive-789"})
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("Expected ErrExtraction, got %v", err)
	}

	var docCount, lineCount int64
	db.Model(&models.FnDocument{}).Count(&docCount)
	db.Model(&models.FnDocumentLn{}).Count(&lineCount)
	if docCount != 0 || lineCount != 0 {
		t.Errorf("Aborted extraction left rows behind: docs=%d lines=%d", docCount, lineCount)
	}
}

func TestProcessTenantOverridePerRequest(t *testing.T) {
	db := newTestDB(t)
	item := models.BcItem{ItemID: "ITEM900", DatabaseID: "T2", ItCode: "GCP", ItTitle: "Generic Cement Product"}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}

	fetcher := &stubFetcher{data: []byte("%PDF-1.4"), meta: &drive.FileMeta{Name: "factura.pdf", MimeType: "application/pdf"}}
	extractor := &stubExtractor{payload: cementPayload()}
	orch := newTestOrchestrator(db, fetcher, extractor)

	outcome, err := orch.Process(context.Background(), Request{FileID: "drive-t2", TenantID: "T2"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	var doc models.FnDocument
	if err := db.First(&doc, `"DocumentID" = ?`, outcome.DocumentID).Error; err != nil {
		t.Fatalf("Document not persisted: %v", err)
	}
	if doc.DatabaseID != "T2" {
		t.Errorf("Tenant: got %s, want request override T2", doc.DatabaseID)
	}

	var line models.FnDocumentLn
	if err := db.First(&line, `"DocumentID" = ?`, outcome.DocumentID).Error; err != nil {
		t.Fatalf("Line not persisted: %v", err)
	}
	if line.SupplyID != "ITEM900" {
		t.Errorf("Matching must use the request tenant's catalog: got %s", line.SupplyID)
	}
}
