// Package sprint infers the latest program increment (PI) and sprint from
// Jira sprint labels such as "Team Kiwi PI23.1 Sprint 5".
//
// The inference is purely textual. The PI is the largest "NN.N" substring,
// the sprint is the largest final character among labels of that PI, and
// the label to filter on is rebuilt from the first non-empty label. Labels that
// do not share the first label's shape can therefore produce a query that
// matches nothing; callers get an empty selection rather than an error.
package sprint

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	periodPattern    = regexp.MustCompile(`[0-9]{2}\.[0-9]{1}`)
	subPeriodPattern = regexp.MustCompile(`[0-9]{1}$`)
)

// Period returns the first PI id found in label.
func Period(label string) (string, bool) {
	m := periodPattern.FindString(label)
	return m, m != ""
}

// CurrentPeriod returns the largest PI id across labels. Labels without one
// are skipped; ok is false when none carries a PI id.
func CurrentPeriod(labels []string) (period string, ok bool) {
	for _, label := range labels {
		p, found := Period(label)
		if !found {
			continue
		}
		if !ok || p > period {
			period, ok = p, true
		}
	}
	return period, ok
}

// LatestSubPeriod returns the largest final character among labels that
// contain period.
func LatestSubPeriod(labels []string, period string) (sub string, ok bool) {
	for _, label := range labels {
		if label == "" || !strings.Contains(label, period) {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(label)
		last := string(r)
		if !ok || last > sub {
			sub, ok = last, true
		}
	}
	return sub, ok
}

// ComposeQuery rebuilds the latest sprint label from the first non-empty
// label: every PI id is replaced with period and a trailing digit with sub.
func ComposeQuery(labels []string, period, sub string) string {
	for _, template := range labels {
		if template == "" {
			continue
		}
		query := periodPattern.ReplaceAllLiteralString(template, period)
		return subPeriodPattern.ReplaceAllLiteralString(query, sub)
	}
	return ""
}

// Latest runs the full inference and returns the composed label along with
// the PI and sprint it was built from.
func Latest(labels []string) (query, period, sub string, ok bool) {
	period, ok = CurrentPeriod(labels)
	if !ok {
		return "", "", "", false
	}
	sub, _ = LatestSubPeriod(labels, period)
	return ComposeQuery(labels, period, sub), period, sub, true
}
