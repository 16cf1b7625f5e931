package review

import "sync"

// CategoryGroup is the findings of one category in the order they were added
type CategoryGroup struct {
	Category Category  `json:"category"`
	Findings []Finding `json:"findings"`
}

// SeverityCounts counts findings per severity
type SeverityCounts map[Severity]int

// Total returns the number of findings counted
func (c SeverityCounts) Total() int {
	n := 0
	for _, count := range c {
		n += count
	}
	return n
}

// FindingSet accumulates findings across a run. It is safe for concurrent
// use. Adding is purely additive: order is preserved and identical findings
// are kept.
type FindingSet struct {
	mu       sync.RWMutex
	findings []Finding
}

// NewFindingSet creates an empty set
func NewFindingSet() *FindingSet {
	return &FindingSet{}
}

// Add appends findings in the given order
func (s *FindingSet) Add(findings ...Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findings = append(s.findings, findings...)
}

// Len returns the number of findings
func (s *FindingSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.findings)
}

// Findings returns a copy of every finding in insertion order
func (s *FindingSet) Findings() []Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

// CountBySeverity returns the count of findings for every severity,
// including zero counts
func (s *FindingSet) CountBySeverity() SeverityCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(SeverityCounts, len(Severities()))
	for _, severity := range Severities() {
		counts[severity] = 0
	}
	for _, f := range s.findings {
		counts[f.Severity]++
	}
	return counts
}

// BySeverity groups findings per severity, preserving insertion order in each group
func (s *FindingSet) BySeverity() map[Severity][]Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[Severity][]Finding)
	for _, f := range s.findings {
		groups[f.Severity] = append(groups[f.Severity], f)
	}
	return groups
}

// ByCategory groups findings per category. Groups appear in the order their
// first finding was added and findings keep insertion order within a group.
func (s *FindingSet) ByCategory() []CategoryGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []CategoryGroup
	index := make(map[Category]int)
	for _, f := range s.findings {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, CategoryGroup{Category: f.Category})
		}
		groups[i].Findings = append(groups[i].Findings, f)
	}
	return groups
}

// HasBlocking reports whether any finding is Critical or High
func (s *FindingSet) HasBlocking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.findings {
		if f.Severity.Blocking() {
			return true
		}
	}
	return false
}

// HasAtLeast reports whether any finding is at or above min
func (s *FindingSet) HasAtLeast(min Severity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.findings {
		if f.Severity.Rank() >= min.Rank() && f.Severity.Valid() {
			return true
		}
	}
	return false
}
