package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/dummydata/internal/apperror"
	"github.com/Domenick1991/dummydata/internal/catalog"
	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/domain"
	"go.uber.org/zap"
)

var ErrTableNotFound = errors.New("table not found")

type SchemaUseCase interface {
	Schemas(ctx context.Context) ([]string, error)
	Tables(ctx context.Context) ([]string, error)
	Views(ctx context.Context) ([]string, error)
	TableColumns(ctx context.Context) ([]domain.Relation, error)
	ViewColumns(ctx context.Context) ([]domain.Relation, error)
	Columns(ctx context.Context, table string) ([]domain.Column, error)
	DDL(ctx context.Context, table string) (string, error)
	ConnectionInfo() string
}

type SchemaService struct {
	inspector   catalog.Inspector
	dialect     database.Dialect
	schema      string
	viewSources map[string]string
	connInfo    string
	log         *zap.Logger
}

type SchemaServiceOption func(*SchemaService)

// WithViewSources names the source table of views whose definition cannot be
// resolved by parsing.
func WithViewSources(sources map[string]string) SchemaServiceOption {
	return func(s *SchemaService) {
		s.viewSources = sources
	}
}

func WithConnectionInfo(info string) SchemaServiceOption {
	return func(s *SchemaService) {
		s.connInfo = info
	}
}

func WithLogger(log *zap.Logger) SchemaServiceOption {
	return func(s *SchemaService) {
		s.log = log
	}
}

func NewSchemaService(inspector catalog.Inspector, dialect database.Dialect, schema string, opts ...SchemaServiceOption) *SchemaService {
	s := &SchemaService{
		inspector: inspector,
		dialect:   dialect,
		schema:    schema,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SchemaService) Schemas(ctx context.Context) ([]string, error) {
	names, err := s.inspector.SchemaNames(ctx)
	if err != nil {
		return nil, apperror.DataStore(err)
	}
	return names, nil
}

func (s *SchemaService) Tables(ctx context.Context) ([]string, error) {
	names, err := s.inspector.TableNames(ctx, s.schema)
	if err != nil {
		return nil, apperror.DataStore(err)
	}
	return names, nil
}

func (s *SchemaService) Views(ctx context.Context) ([]string, error) {
	names, err := s.inspector.ViewNames(ctx, s.schema)
	if err != nil {
		return nil, apperror.DataStore(err)
	}
	return names, nil
}

func (s *SchemaService) TableColumns(ctx context.Context) ([]domain.Relation, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}

	relations := make([]domain.Relation, 0, len(tables))
	for _, table := range tables {
		cols, err := s.inspector.Columns(ctx, s.schema, table)
		if err != nil {
			return nil, apperror.DataStore(err)
		}
		relations = append(relations, domain.Relation{Name: table, Columns: cols})
	}
	return relations, nil
}

// ViewColumns lists, for every view, the columns of its source table that the
// view selects. Views that are not a plain single-table select use the
// configured source mapping, and otherwise report their own columns.
func (s *SchemaService) ViewColumns(ctx context.Context) ([]domain.Relation, error) {
	views, err := s.Views(ctx)
	if err != nil {
		return nil, err
	}

	relations := make([]domain.Relation, 0, len(views))
	for _, view := range views {
		rel, err := s.viewRelation(ctx, view)
		if err != nil {
			return nil, apperror.DataStore(err)
		}
		relations = append(relations, rel)
	}
	return relations, nil
}

func (s *SchemaService) viewRelation(ctx context.Context, view string) (domain.Relation, error) {
	def, err := s.inspector.ViewDefinition(ctx, s.schema, view)
	if err != nil {
		return domain.Relation{}, err
	}

	src, perr := catalog.ParseViewSource(def)
	if perr == nil {
		cols, err := s.inspector.Columns(ctx, s.schema, src.Table)
		if err != nil {
			return domain.Relation{}, err
		}
		selected := make([]domain.Column, 0, len(cols))
		for _, c := range cols {
			if src.Selects(c.Name) {
				selected = append(selected, c)
			}
		}
		if len(selected) > 0 {
			return domain.Relation{Name: view, Source: src.Table, Columns: selected}, nil
		}
		perr = fmt.Errorf("%w: no columns of %s in schema %s", catalog.ErrUnresolvedView, src.Table, s.schema)
	}

	if table, ok := s.viewSources[view]; ok {
		cols, err := s.inspector.Columns(ctx, s.schema, table)
		if err != nil {
			return domain.Relation{}, err
		}
		return domain.Relation{Name: view, Source: table, Columns: cols}, nil
	}

	s.log.Debug("view source unresolved, using view columns", zap.String("view", view), zap.Error(perr))
	cols, err := s.inspector.Columns(ctx, s.schema, view)
	if err != nil {
		return domain.Relation{}, err
	}
	return domain.Relation{Name: view, Columns: cols}, nil
}

func (s *SchemaService) Columns(ctx context.Context, table string) ([]domain.Column, error) {
	cols, err := s.inspector.Columns(ctx, s.schema, table)
	if err != nil {
		return nil, apperror.DataStore(err)
	}
	if len(cols) == 0 {
		return nil, &apperror.Error{Kind: apperror.KindValidation, Err: fmt.Errorf("%w: %s", ErrTableNotFound, table)}
	}
	return cols, nil
}

// DDL reflects the schema's tables and compiles a CREATE TABLE statement for
// the named one.
func (s *SchemaService) DDL(ctx context.Context, table string) (string, error) {
	relations, err := s.TableColumns(ctx)
	if err != nil {
		return "", err
	}
	for _, rel := range relations {
		if rel.Name == table {
			return catalog.CompileCreateTable(s.dialect, rel.Name, rel.Columns), nil
		}
	}
	return "", &apperror.Error{Kind: apperror.KindValidation, Err: fmt.Errorf("%w: %s", ErrTableNotFound, table)}
}

func (s *SchemaService) ConnectionInfo() string {
	return s.connInfo
}

var _ SchemaUseCase = (*SchemaService)(nil)
