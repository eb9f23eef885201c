package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/construbase/invoicepipe/internal/ai"
	"github.com/construbase/invoicepipe/internal/drive"
)

// Errors that cross the pipeline boundary. Everything else degrades
// gracefully inside the run.
var (
	// ErrFileNotFound means the file store could not produce the bytes;
	// causes are indistinguishable at this boundary.
	ErrFileNotFound = errors.New("file not accessible in store")
	// ErrExtraction means the AI call failed or returned unparseable output
	ErrExtraction = errors.New("ai extraction failed")
)

// Fetcher retrieves raw file bytes plus metadata by opaque file id
type Fetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, *drive.FileMeta, error)
}

// Extractor turns raw document bytes into a structured invoice payload
type Extractor interface {
	ExtractInvoice(ctx context.Context, data []byte, mimeType string) (*ai.InvoicePayload, error)
}

// Request describes one file to process
type Request struct {
	FileID     string `json:"file_id"`
	FileName   string `json:"file_name,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
}

// Outcome is the terminal result of one request
type Outcome struct {
	Status            string        `json:"status"` // skipped | success
	Reason            string        `json:"reason,omitempty"`
	DocumentID        string        `json:"document_id,omitempty"`
	Result            *UpsertResult `json:"data,omitempty"`
	ProcessingSeconds float64       `json:"processing_time_seconds"`
}

// Orchestrator sequences one request: duplicate check and file fetch fan
// out concurrently, then AI extraction and the upsert engine run in order.
// The duplicate result is authoritative and consulted before any AI or
// write cost is incurred.
type Orchestrator struct {
	guard         *DuplicateGuard
	engine        *Engine
	fetcher       Fetcher
	extractor     Extractor
	defaultTenant string
	aiTimeout     time.Duration

	mu    sync.Mutex
	locks map[string]*fileLock
}

// fileLock is reference-counted so the map entry can be evicted once the
// last holder releases it.
type fileLock struct {
	mu   sync.Mutex
	refs int
}

// NewOrchestrator wires the pipeline stages together
func NewOrchestrator(guard *DuplicateGuard, engine *Engine, fetcher Fetcher, extractor Extractor, defaultTenant string, aiTimeout time.Duration) *Orchestrator {
	if aiTimeout <= 0 {
		aiTimeout = 120 * time.Second
	}
	return &Orchestrator{
		guard:         guard,
		engine:        engine,
		fetcher:       fetcher,
		extractor:     extractor,
		defaultTenant: defaultTenant,
		aiTimeout:     aiTimeout,
		locks:         make(map[string]*fileLock),
	}
}

// lockFile serializes check-then-write per file reference so two identical
// concurrent requests cannot both pass the duplicate check. The returned
// release func drops the map entry when no other request holds it.
func (o *Orchestrator) lockFile(fileID string) func() {
	o.mu.Lock()
	l, ok := o.locks[fileID]
	if !ok {
		l = &fileLock{}
		o.locks[fileID] = l
	}
	l.refs++
	o.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		o.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, fileID)
		}
		o.mu.Unlock()
	}
}

// Process runs the full pipeline for one file
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	log.Printf("⏱️  Processing file ID: %s (%s)", req.FileID, req.FileName)

	unlock := o.lockFile(req.FileID)
	defer unlock()

	tenant := req.TenantID
	if tenant == "" {
		tenant = o.defaultTenant
	}

	// Stage 1+2: duplicate check and file fetch in parallel. The fetch
	// failure is held back until the duplicate result has been consulted.
	t0 := time.Now()
	var (
		existingID string
		content    []byte
		meta       *drive.FileMeta
		fetchErr   error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := o.guard.FindByFileRef(gctx, req.FileID)
		if err != nil {
			return err
		}
		if doc != nil {
			existingID = doc.DocumentID
		}
		return nil
	})
	g.Go(func() error {
		content, meta, fetchErr = o.fetcher.Fetch(gctx, req.FileID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("⏱️  Step 1+2 - Duplicate + fetch (parallel): %.2fs", time.Since(t0).Seconds())

	if existingID != "" {
		log.Printf("⏭️  File %s already processed as document %s", req.FileID, existingID)
		return &Outcome{
			Status:            "skipped",
			Reason:            "Already processed",
			DocumentID:        existingID,
			ProcessingSeconds: roundSeconds(time.Since(start)),
		}, nil
	}

	if fetchErr != nil || content == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, req.FileID)
	}

	// Stage 3: AI extraction, bounded by a timeout. The upstream service
	// has variable latency; a timeout fails this request only.
	t2 := time.Now()
	aiCtx, cancel := context.WithTimeout(ctx, o.aiTimeout)
	defer cancel()
	payload, err := o.extractor.ExtractInvoice(aiCtx, content, meta.MimeType)
	log.Printf("⏱️  Step 3 - AI extraction: %.2fs", time.Since(t2).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	// Stage 4: reconcile and persist
	t3 := time.Now()
	result, err := o.engine.Upsert(ctx, payload, req.FileID, req.DocumentID, tenant)
	if err != nil {
		return nil, err
	}
	log.Printf("⏱️  Step 4 - DB upsert: %.2fs", time.Since(t3).Seconds())

	total := time.Since(start)
	log.Printf("✅ TOTAL: %.2fs for file %s", total.Seconds(), req.FileID)

	return &Outcome{
		Status:            "success",
		DocumentID:        result.DocumentID,
		Result:            result,
		ProcessingSeconds: roundSeconds(total),
	}, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
