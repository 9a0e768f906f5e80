package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/pkg/assessment"
)

// Distribution counts records per category on each axis and per grid cell.
// Grid keys are "<performance>/<potential>".
type Distribution struct {
	Performance map[string]int `json:"performance"`
	Potential   map[string]int `json:"potential"`
	Grid        map[string]int `json:"grid"`
}

func newDistribution() Distribution {
	return Distribution{
		Performance: make(map[string]int),
		Potential:   make(map[string]int),
		Grid:        make(map[string]int),
	}
}

func (d Distribution) add(rec *assessment.Record) {
	perf := strconv.Itoa(rec.Result.PerformanceCategory)
	pot := strconv.Itoa(rec.Result.PotentialCategory)
	d.Performance[perf]++
	d.Potential[pot]++
	d.Grid[perf+"/"+pot]++
}

// ExportDocument is the JSON payload written to blob storage.
type ExportDocument struct {
	ID           string               `json:"id"`
	Period       string               `json:"period"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Count        int                  `json:"count"`
	Submitted    int                  `json:"submitted"`
	Distribution Distribution         `json:"distribution"`
	Records      []*assessment.Record `json:"records"`
}

// ExportReceipt describes a stored export.
type ExportReceipt struct {
	ID          string    `json:"id"`
	Period      string    `json:"period"`
	Count       int       `json:"count"`
	StorageRef  string    `json:"storage_ref"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Export writes every record of period, with a category distribution summary,
// to blob storage.
func (s *Service) Export(ctx context.Context, period string) (*ExportReceipt, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return nil, fmt.Errorf("%w: missing period", ErrMissingScope)
	}

	recs, err := s.repo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", period, err)
	}

	doc := ExportDocument{
		ID:           uuid.NewString(),
		Period:       period,
		GeneratedAt:  s.now(),
		Count:        len(recs),
		Distribution: newDistribution(),
		Records:      recs,
	}
	if doc.Records == nil {
		doc.Records = []*assessment.Record{}
	}
	for _, rec := range recs {
		doc.Distribution.add(rec)
		if rec.Submitted() {
			doc.Submitted++
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	ref, err := s.storage.PutExport(ctx, period, doc.ID, data)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	s.log.Info("period exported", logger.Fields{"period": period, "export_id": doc.ID, "count": doc.Count})
	return &ExportReceipt{
		ID:          doc.ID,
		Period:      period,
		Count:       doc.Count,
		StorageRef:  ref,
		GeneratedAt: doc.GeneratedAt,
	}, nil
}

// GetExport returns the raw JSON of a stored export.
func (s *Service) GetExport(ctx context.Context, period, exportID string) ([]byte, error) {
	return s.storage.GetExport(ctx, period, exportID)
}
