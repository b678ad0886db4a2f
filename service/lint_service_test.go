package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/baseline"
	"github.com/ludo-technologies/linthell/internal/parser"
	"github.com/ludo-technologies/linthell/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flake8Output = "pkg/a.py:1:1: F401 'os' imported but unused\n" +
	"pkg/a.py:4:2: E225 missing whitespace around operator\n"

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	return testutil.NewMemFs(t, map[string]string{"pkg/a.py": "import os\n\n\nx=1\n"})
}

func TestBaselineThenLint(t *testing.T) {
	fs := newTestFs(t)
	store := baseline.NewStore(fs)
	opts := parser.Options{Fs: fs}
	ctx := context.Background()

	bs := NewBaselineService(store, opts, nil)
	resp, err := bs.Generate(ctx, domain.BaselineRequest{
		BaselineFile: ".linthell/flake8.txt",
		Parser:       domain.ParserSelection{Plugin: "flake8"},
		LinterOutput: flake8Output,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Findings)
	assert.Equal(t, 2, resp.Entries)

	data, err := afero.ReadFile(fs, ".linthell/flake8.txt")
	require.NoError(t, err)
	assert.Equal(t, baseline.Header+"\n"+
		"pkg/a.py:import os:F401 'os' imported but unused\n"+
		"pkg/a.py:x=1:E225 missing whitespace around operator\n", string(data))

	ls := NewLintService(store, opts, nil)
	report, err := ls.Check(ctx, domain.LintRequest{
		BaselineFile: ".linthell/flake8.txt",
		Parser:       domain.ParserSelection{Plugin: "flake8"},
		LinterOutput: flake8Output + "pkg/a.py:4:3: E999 new problem\n",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/a.py:4:3: E999 new problem"}, report.NewFindings)
	assert.Empty(t, report.OutdatedEntries)
	assert.Equal(t, 3, report.TotalFindings)
	assert.Equal(t, 2, report.MatchedFindings)
	assert.True(t, report.Failed())
}

func TestLintService_Outdated(t *testing.T) {
	fs := newTestFs(t)
	store := baseline.NewStore(fs)
	require.NoError(t, store.Save("base.txt", []string{
		"pkg/a.py:import os:F401 'os' imported but unused",
		"pkg/gone.py::E501 line too long",
	}))

	ls := NewLintService(store, parser.Options{Fs: fs}, nil)
	req := domain.LintRequest{
		BaselineFile: "base.txt",
		Parser:       domain.ParserSelection{Plugin: "flake8"},
		LinterOutput: "pkg/a.py:1:1: F401 'os' imported but unused\n",
	}

	report, err := ls.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, report.NewFindings)
	assert.Equal(t, []string{"pkg/gone.py::E501 line too long"}, report.OutdatedEntries)
	assert.False(t, report.Failed())

	req.CheckOutdated = true
	report, err = ls.Check(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, report.Failed())
}

func TestLintService_Errors(t *testing.T) {
	fs := newTestFs(t)
	ls := NewLintService(baseline.NewStore(fs), parser.Options{Fs: fs}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.LintRequest
		code string
	}{
		{
			name: "missing baseline",
			req:  domain.LintRequest{BaselineFile: "missing.txt", Parser: domain.ParserSelection{Plugin: "flake8"}},
			code: domain.ErrCodeFileNotFound,
		},
		{
			name: "no parser",
			req:  domain.LintRequest{BaselineFile: "missing.txt"},
			code: domain.ErrCodeConfigError,
		},
		{
			name: "both parsers",
			req:  domain.LintRequest{BaselineFile: "missing.txt", Parser: domain.ParserSelection{Plugin: "flake8", Format: "(?P<path>.+)"}},
			code: domain.ErrCodeConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ls.Check(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLintService_DiffErrorPropagates(t *testing.T) {
	fs := newTestFs(t)
	store := baseline.NewStore(fs)
	require.NoError(t, store.Save("base.txt", nil))

	ls := NewLintService(store, parser.Options{Fs: fs}, nil)
	_, err := ls.Check(context.Background(), domain.LintRequest{
		BaselineFile: "base.txt",
		Parser:       domain.ParserSelection{Plugin: "black-diff"},
		LinterOutput: "--- a.py\n+++ a.py\n+x = 1\n",
	})

	var diffErr *parser.DiffError
	require.ErrorAs(t, err, &diffErr)
	assert.ErrorIs(t, err, parser.ErrInvalidLineOrder)
}

func TestBaselineService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bs := NewBaselineService(baseline.NewStore(afero.NewMemMapFs()), parser.Options{}, nil)
	_, err := bs.Generate(ctx, domain.BaselineRequest{BaselineFile: "b.txt", Parser: domain.ParserSelection{Plugin: "flake8"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaselineService_LogsParser(t *testing.T) {
	fs := newTestFs(t)
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info})

	bs := NewBaselineService(baseline.NewStore(fs), parser.Options{Fs: fs}, logger)
	_, err := bs.Generate(context.Background(), domain.BaselineRequest{
		BaselineFile: "base.txt",
		Parser:       domain.ParserSelection{Plugin: "isort-diff"},
		LinterOutput: "",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "baseline written")
	assert.Contains(t, buf.String(), "detail=isort-diff")
}
