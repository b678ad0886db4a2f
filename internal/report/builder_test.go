package report

import (
	"testing"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/baseline"
	"github.com/stretchr/testify/assert"
)

func TestBuild_Partition(t *testing.T) {
	digests := baseline.Digests([]string{"a.py:x:E1", "b.py:y:E2"})
	findings := []domain.Finding{
		domain.NewFinding("a.py:x:E1", "a.py:1: E1"),
		domain.NewFinding("c.py:z:E3", "c.py:5: E3"),
		domain.NewFinding("c.py:z:E3", "c.py:9: E3"),
	}

	report := Build(digests, findings, false)

	assert.Equal(t, []string{"c.py:5: E3", "c.py:9: E3"}, report.NewFindings)
	assert.Equal(t, []string{"b.py:y:E2"}, report.OutdatedEntries)
	assert.Equal(t, 3, report.TotalFindings)
	assert.Equal(t, 1, report.MatchedFindings)
	assert.Equal(t, 1, report.MatchedDigests)
	assert.Equal(t, 2, report.BaselineEntries)
	assert.True(t, report.Failed())
}

func TestBuild_Outdated(t *testing.T) {
	digests := baseline.Digests([]string{"a.py:x:E1", "z.py:q:E9", "b.py:y:E2"})
	findings := []domain.Finding{
		domain.NewFinding("a.py:x:E1", "a.py:1: E1"),
		domain.NewFinding("a.py:x:E1", "a.py:4: E1"),
	}

	t.Run("ignored without check", func(t *testing.T) {
		report := Build(digests, findings, false)
		assert.Empty(t, report.NewFindings)
		assert.Equal(t, []string{"b.py:y:E2", "z.py:q:E9"}, report.OutdatedEntries)
		assert.True(t, report.HasOutdated())
		assert.False(t, report.Failed())
		assert.Equal(t, 2, report.MatchedFindings)
		assert.Equal(t, 1, report.MatchedDigests)
	})

	t.Run("fails with check", func(t *testing.T) {
		report := Build(digests, findings, true)
		assert.True(t, report.Failed())
	})
}

func TestBuild_Clean(t *testing.T) {
	digests := baseline.Digests([]string{"a.py:x:E1"})
	report := Build(digests, []domain.Finding{domain.NewFinding("a.py:x:E1", "a.py:1: E1")}, true)

	assert.NotNil(t, report.NewFindings)
	assert.NotNil(t, report.OutdatedEntries)
	assert.False(t, report.HasNewFindings())
	assert.False(t, report.HasOutdated())
	assert.False(t, report.Failed())
}

func TestBuild_EmptyBaseline(t *testing.T) {
	report := Build(domain.DigestSet{}, []domain.Finding{
		domain.NewFinding("a.py:x:E1", "a.py:1: E1"),
	}, false)

	assert.Equal(t, []string{"a.py:1: E1"}, report.NewFindings)
	assert.Empty(t, report.OutdatedEntries)
}
