// Package report partitions findings into new ones and ones suppressed by
// a baseline.
package report

import (
	"sort"

	"github.com/ludo-technologies/linthell/domain"
	"github.com/ludo-technologies/linthell/internal/fingerprint"
)

// Build compares findings with the baseline digests. New findings keep
// their input order. Baseline entries no finding matched are returned as
// outdated, sorted; they only fail the report when checkOutdated is set.
func Build(digests domain.DigestSet, findings []domain.Finding, checkOutdated bool) *domain.LintReport {
	report := &domain.LintReport{
		NewFindings:     make([]string, 0),
		OutdatedEntries: make([]string, 0),
		CheckOutdated:   checkOutdated,
		TotalFindings:   len(findings),
		BaselineEntries: digests.Len(),
	}

	matched := make(map[domain.Digest]struct{})
	for _, f := range findings {
		d := fingerprint.DigestOf(f.Identity)
		if !digests.Contains(d) {
			report.NewFindings = append(report.NewFindings, f.Display)
			continue
		}
		matched[d] = struct{}{}
		report.MatchedFindings++
	}
	report.MatchedDigests = len(matched)

	for d, identity := range digests {
		if _, ok := matched[d]; !ok {
			report.OutdatedEntries = append(report.OutdatedEntries, identity)
		}
	}
	sort.Strings(report.OutdatedEntries)

	return report
}
