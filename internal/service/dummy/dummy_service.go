package dummy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/dummydata/internal/apperror"
	"github.com/Domenick1991/dummydata/internal/domain"
	"github.com/Domenick1991/dummydata/internal/generator"
	"github.com/Domenick1991/dummydata/internal/kafka"
	"github.com/Domenick1991/dummydata/internal/logger"
	"github.com/Domenick1991/dummydata/internal/repository"
	"go.uber.org/zap"
)

type DummyUseCase interface {
	Tables() []string
	Generate(ctx context.Context, table string, n int, mode domain.Mode) (domain.GenerationResult, error)
	GenerateAll(ctx context.Context, n int, mode domain.Mode) ([]domain.GenerationResult, error)
	Show(ctx context.Context, table string) (domain.RowSet, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type DummyService struct {
	registry *generator.Registry
	records  repository.RecordRepository
	producer Producer
	topic    string
	maxBatch int
	log      *zap.Logger
}

type DummyServiceOption func(*DummyService)

// WithEvents publishes a kafka.GenerationEvent to topic after every insert.
func WithEvents(producer Producer, topic string) DummyServiceOption {
	return func(s *DummyService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(log *zap.Logger) DummyServiceOption {
	return func(s *DummyService) {
		s.log = log
	}
}

// WithMaxBatch limits how many records one call may generate. Zero means no limit.
func WithMaxBatch(n int) DummyServiceOption {
	return func(s *DummyService) {
		s.maxBatch = n
	}
}

func NewDummyService(registry *generator.Registry, records repository.RecordRepository, opts ...DummyServiceOption) *DummyService {
	s := &DummyService{
		registry: registry,
		records:  records,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DummyService) Tables() []string {
	return s.registry.Names()
}

func (s *DummyService) Generate(ctx context.Context, table string, n int, mode domain.Mode) (domain.GenerationResult, error) {
	t, ok := s.registry.Lookup(table)
	if !ok {
		return domain.GenerationResult{}, apperror.Validation(fmt.Sprintf("unknown table: %s", table))
	}
	if n < 0 {
		return domain.GenerationResult{}, apperror.Validation("count must not be negative")
	}
	if s.maxBatch > 0 && n > s.maxBatch {
		return domain.GenerationResult{}, apperror.Validation(fmt.Sprintf("count must not exceed %d", s.maxBatch))
	}

	rows, err := t.Rows(n)
	if err != nil {
		if errors.Is(err, generator.ErrRangeTooSmall) || errors.Is(err, generator.ErrNegativeCount) {
			return domain.GenerationResult{}, &apperror.Error{Kind: apperror.KindValidation, Err: err}
		}
		return domain.GenerationResult{}, err
	}

	inserted, err := s.records.Insert(ctx, t.Name, t.Columns, rows, mode)
	if err != nil {
		return domain.GenerationResult{}, apperror.DataStore(err)
	}

	result := domain.GenerationResult{Table: t.Name, Inserted: inserted, Mode: mode}
	s.log.Info("dummy data generated",
		zap.String("table", t.Name),
		zap.Int("inserted", inserted),
		zap.String("mode", string(mode)),
		zap.String("request_id", logger.RequestID(ctx)),
	)
	s.publish(ctx, result)
	return result, nil
}

// GenerateAll fills every known table in name order and stops at the first failure.
func (s *DummyService) GenerateAll(ctx context.Context, n int, mode domain.Mode) ([]domain.GenerationResult, error) {
	results := make([]domain.GenerationResult, 0, len(s.registry.Names()))
	for _, name := range s.registry.Names() {
		res, err := s.Generate(ctx, name, n, mode)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *DummyService) Show(ctx context.Context, table string) (domain.RowSet, error) {
	if _, ok := s.registry.Lookup(table); !ok {
		return domain.RowSet{}, apperror.Validation(fmt.Sprintf("unknown table: %s", table))
	}
	rows, err := s.records.Rows(ctx, table)
	if err != nil {
		return domain.RowSet{}, apperror.DataStore(err)
	}
	return rows, nil
}

// publish never fails the generate call; the rows are already committed.
func (s *DummyService) publish(ctx context.Context, res domain.GenerationResult) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.GenerationEvent{
		Type:      kafka.EventTypeGenerated,
		Table:     res.Table,
		Count:     res.Inserted,
		Mode:      string(res.Mode),
		RequestID: logger.RequestID(ctx),
		At:        time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, res.Table, event); err != nil {
		s.log.Warn("failed to publish generation event", zap.String("table", res.Table), zap.Error(err))
	}
}

var _ DummyUseCase = (*DummyService)(nil)
