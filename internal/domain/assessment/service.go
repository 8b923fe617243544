package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthd/healthd/internal/domain/engine"
)

// ErrInvalidMeasurement marks structural input errors so the handler can
// distinguish caller mistakes from storage faults.
var ErrInvalidMeasurement = errors.New("invalid measurement")

// EventPublisher notifies interested parties of a completed assessment.
// Publishing is best effort: failures are logged, never surfaced to the
// caller, and never roll back the persisted record.
type EventPublisher interface {
	PublishAssessmentCompleted(ctx context.Context, rec *Record) error
}

// Service runs assessments and serves history. The engine stays pure;
// the service owns identity, timestamps and persistence.
type Service struct {
	history HistoryRepository
	events  EventPublisher
	log     zerolog.Logger
	now     func() time.Time
}

// NewService creates the assessment service. events may be nil when no
// message broker is configured.
func NewService(history HistoryRepository, events EventPublisher, log zerolog.Logger) *Service {
	return &Service{
		history: history,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// Run evaluates one measurement for the given user, appends the derived
// record to their history and returns the full assessment. Structural
// input errors (an unknown gender token, non-positive dimensions) are
// rejected here; implausible-but-wellformed values only produce warnings.
func (s *Service) Run(ctx context.Context, userID uuid.UUID, m engine.Measurement) (*Assessment, error) {
	if !m.Gender.Valid() {
		return nil, fmt.Errorf("%w: gender must be %q or %q", ErrInvalidMeasurement, engine.Male, engine.Female)
	}
	if m.Height <= 0 {
		return nil, fmt.Errorf("%w: height must be positive", ErrInvalidMeasurement)
	}
	if m.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidMeasurement)
	}
	if m.Age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive", ErrInvalidMeasurement)
	}

	res := engine.Evaluate(m)
	now := s.now()
	rec := &Record{
		ID:        uuid.New(),
		UserID:    userID,
		Datetime:  now.Format(DatetimeLayout),
		Gender:    m.Gender,
		Age:       m.Age,
		Height:    m.Height,
		Weight:    m.Weight,
		BMI:       res.BMI,
		Status:    res.Classification.Category,
		Color:     res.Classification.Icon,
		BGColor:   res.Classification.BGColor,
		Advice:    res.Classification.Advice,
		CreatedAt: now,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).
			Msg("failed to append assessment record")
		return nil, fmt.Errorf("append assessment record: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishAssessmentCompleted(ctx, rec); err != nil {
			s.log.Warn().Err(err).Str("record_id", rec.ID.String()).
				Msg("failed to publish assessment event")
		}
	}

	return &Assessment{
		Record:         rec,
		StandardWeight: res.StandardWeight,
		Warnings:       res.Warnings,
		Risks:          res.Risks,
		RiskLevels:     engine.RiskLevels(res.Risks),
		Advice:         res.Advice,
	}, nil
}

// History returns a page of the user's records, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.history.List(ctx, userID, limit, offset)
}

// Get returns one of the user's records by ID.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Record, error) {
	return s.history.GetByID(ctx, userID, id)
}

// InitHistory creates an empty history for a new user.
func (s *Service) InitHistory(ctx context.Context, userID uuid.UUID) error {
	return s.history.Init(ctx, userID)
}
