package statistics

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/healthd/healthd/internal/domain/engine"
)

// Service holds the current reference dataset. It starts with the
// synthetic population and can be replaced wholesale by a CSV upload;
// a RWMutex lets reads proceed concurrently.
type Service struct {
	log zerolog.Logger

	mu      sync.RWMutex
	dataset Dataset
	source  string
}

// NewService creates the statistics service seeded with the synthetic
// reference population.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log:     log,
		dataset: SyntheticDataset(DefaultSeed, DefaultSamples),
		source:  "synthetic",
	}
}

// SummaryReport is the full statistics response.
type SummaryReport struct {
	Source    string                `json:"source"`
	Groups    map[string]GroupStats `json:"groups"`
	Histogram []HistogramBin        `json:"histogram"`
}

// Summary reports group statistics and the BMI histogram for the current
// dataset.
func (s *Service) Summary() *SummaryReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &SummaryReport{
		Source:    s.source,
		Groups:    Summary(s.dataset),
		Histogram: Histogram(s.dataset, DefaultHistogramBins),
	}
}

// Compare places a single person within the current dataset.
func (s *Service) Compare(bmi float64, age int, gender engine.Gender) (*Comparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CompareUser(s.dataset, bmi, age, gender)
}

// ReplaceDataset swaps in a dataset parsed from CSV. The previous dataset
// stays in place when parsing fails.
func (s *Service) ReplaceDataset(r io.Reader) (int, error) {
	ds, err := LoadCSV(r)
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}
	s.mu.Lock()
	s.dataset = ds
	s.source = "upload"
	s.mu.Unlock()
	s.log.Info().Int("samples", len(ds)).Msg("reference dataset replaced")
	return len(ds), nil
}
