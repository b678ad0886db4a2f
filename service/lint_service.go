package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/baseline"
	"github.com/ludo-technologies/linthell/internal/parser"
	"github.com/ludo-technologies/linthell/internal/report"
)

// LintServiceImpl implements domain.LintService
type LintServiceImpl struct {
	store      *baseline.Store
	parserOpts parser.Options
	logger     hclog.Logger
}

// NewLintService creates a lint service reading baselines through store
func NewLintService(store *baseline.Store, opts parser.Options, logger hclog.Logger) *LintServiceImpl {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LintServiceImpl{
		store:      store,
		parserOpts: opts,
		logger:     logger,
	}
}

// Check parses req.LinterOutput and partitions the findings against the baseline
func (s *LintServiceImpl) Check(ctx context.Context, req domain.LintRequest) (*domain.LintReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// parser configuration errors are reported before any file is read
	p, err := parser.Select(req.Parser, s.parserOpts)
	if err != nil {
		return nil, err
	}

	digests, err := s.store.LoadDigests(req.BaselineFile)
	if err != nil {
		return nil, err
	}

	findings, err := p.Parse(req.LinterOutput)
	if err != nil {
		return nil, err
	}

	r := report.Build(digests, findings, req.CheckOutdated)
	s.logger.Debug("lint finished", "baseline", req.BaselineFile, "parser", req.Parser.Name(), "detail", parser.Label(p),
		"findings", r.TotalFindings, "new", len(r.NewFindings), "outdated", len(r.OutdatedEntries))
	return r, nil
}
