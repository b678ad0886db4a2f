package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/baseline"
	"github.com/ludo-technologies/linthell/internal/parser"
)

// BaselineServiceImpl implements domain.BaselineService
type BaselineServiceImpl struct {
	store      *baseline.Store
	parserOpts parser.Options
	logger     hclog.Logger
}

// NewBaselineService creates a baseline service writing through store
func NewBaselineService(store *baseline.Store, opts parser.Options, logger hclog.Logger) *BaselineServiceImpl {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &BaselineServiceImpl{
		store:      store,
		parserOpts: opts,
		logger:     logger,
	}
}

// Generate parses req.LinterOutput and replaces the baseline file with the
// identities of every finding
func (s *BaselineServiceImpl) Generate(ctx context.Context, req domain.BaselineRequest) (*domain.BaselineResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := parser.Select(req.Parser, s.parserOpts)
	if err != nil {
		return nil, err
	}

	findings, err := p.Parse(req.LinterOutput)
	if err != nil {
		return nil, err
	}

	identities := baseline.Generate(findings)
	if err := s.store.Save(req.BaselineFile, identities); err != nil {
		return nil, err
	}

	s.logger.Info("baseline written", "file", req.BaselineFile, "parser", req.Parser.Name(), "detail", parser.Label(p),
		"findings", len(findings), "entries", len(identities))

	return &domain.BaselineResponse{
		BaselineFile: req.BaselineFile,
		Findings:     len(findings),
		Entries:      len(identities),
	}, nil
}
