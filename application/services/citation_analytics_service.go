package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"revshare/application/reports"
	"revshare/domain/ingestion"
)

const (
	defaultTopN      = 10
	maxExampleChains = 3
)

// CitationAnalyticsService summarizes the citation structure of a
// dataset: coverage, most-cited tasks, busiest executors, and the
// deepest citation chains. It works on parsed records rather than the
// graph because chains follow titles the way the source file spells
// them, including parents that never resolved to a record.
type CitationAnalyticsService struct {
	dataset     *ingestion.Dataset
	fingerprint string
	unassigned  string
	logger      *zap.Logger
}

// NewCitationAnalyticsService creates a new citation analytics service.
// An empty unassigned name falls back to the ingestion default.
func NewCitationAnalyticsService(dataset *ingestion.Dataset, fingerprint, unassigned string, logger *zap.Logger) *CitationAnalyticsService {
	if unassigned == "" {
		unassigned = ingestion.DefaultUnassignedUser
	}
	return &CitationAnalyticsService{
		dataset:     dataset,
		fingerprint: fingerprint,
		unassigned:  unassigned,
		logger:      logger,
	}
}

// Stats computes the citation statistics report. topN bounds the
// most-cited and top-executor rankings; values below one fall back to
// the default of ten.
func (s *CitationAnalyticsService) Stats(ctx context.Context, topN int) (*reports.CitationStatsReport, error) {
	if topN <= 0 {
		topN = defaultTopN
	}

	withExecutor := 0
	childCount := 0
	citedBy := make(map[string]int)
	executorTasks := make(map[string]int)
	parentsByTitle := make(map[string][]string)

	for i := range s.dataset.Records {
		record := &s.dataset.Records[i]
		if len(record.Executors) > 0 {
			withExecutor++
			executorTasks[record.Executors[0]]++
		}
		if len(record.Parents) > 0 {
			childCount++
			for _, parent := range record.Parents {
				citedBy[parent]++
			}
		}
		// Duplicate titles resolve to the earliest record, the same
		// rule the parser uses for parent references.
		if _, ok := parentsByTitle[record.Title]; !ok {
			parentsByTitle[record.Title] = record.Parents
		}
	}

	topCited := make([]reports.CitedTaskRow, 0, topN)
	for _, entry := range rankCounts(citedBy) {
		if len(topCited) == topN {
			break
		}
		topCited = append(topCited, reports.CitedTaskRow{
			Title:    entry.name,
			Count:    entry.count,
			Executor: s.executorOfTitle(entry.name),
		})
	}

	topExecutors := make([]reports.ExecutorTaskRow, 0, topN)
	for _, entry := range rankCounts(executorTasks) {
		if len(topExecutors) == topN {
			break
		}
		topExecutors = append(topExecutors, reports.ExecutorTaskRow{
			User:      entry.name,
			TaskCount: entry.count,
		})
	}

	maxDepth := 0
	for title := range parentsByTitle {
		if depth := chainDepth(title, parentsByTitle, nil); depth > maxDepth {
			maxDepth = depth
		}
	}

	chains := make([]reports.CitationChain, 0, maxExampleChains)
	if maxDepth > 1 {
		for i := range s.dataset.Records {
			if len(chains) == maxExampleChains {
				break
			}
			links := s.walkFirstParents(s.dataset.Records[i].Title, parentsByTitle)
			if len(links) == maxDepth {
				chains = append(chains, reports.CitationChain{Links: links})
			}
		}
	}

	report := &reports.CitationStatsReport{
		TotalTasks:     len(s.dataset.Records),
		TotalCitations: len(s.dataset.Citations),
		TotalUsers:     len(s.dataset.Users),
		Coverage: reports.ExecutorCoverage{
			WithExecutor:    withExecutor,
			WithoutExecutor: len(s.dataset.Records) - withExecutor,
		},
		RootNodes:        len(s.dataset.Records) - childCount,
		ChildNodes:       childCount,
		TopCited:         topCited,
		TopExecutors:     topExecutors,
		MaxChainDepth:    maxDepth,
		Chains:           chains,
		GraphFingerprint: s.fingerprint,
	}

	s.logger.Debug("Citation statistics computed",
		zap.Int("tasks", report.TotalTasks),
		zap.Int("citations", report.TotalCitations),
		zap.Int("maxChainDepth", maxDepth),
	)

	return report, nil
}

// chainDepth measures the longest parent chain reachable from title.
// Each branch carries its own copy of the visited set, so a title may
// appear on two sibling branches but never twice on one path.
func chainDepth(title string, parents map[string][]string, visited map[string]bool) int {
	if visited[title] {
		return 0
	}
	branch := make(map[string]bool, len(visited)+1)
	for seen := range visited {
		branch[seen] = true
	}
	branch[title] = true

	deepest := 0
	for _, parent := range parents[title] {
		if depth := chainDepth(parent, parents, branch); depth > deepest {
			deepest = depth
		}
	}
	return 1 + deepest
}

// walkFirstParents follows the first parent of each hop until a task
// has no parents or the walk would revisit a title.
func (s *CitationAnalyticsService) walkFirstParents(title string, parents map[string][]string) []reports.ChainLink {
	links := []reports.ChainLink{{Title: title, Executor: s.executorOfTitle(title)}}
	visited := map[string]bool{title: true}
	current := title
	for {
		next := parents[current]
		if len(next) == 0 {
			break
		}
		parent := next[0]
		if visited[parent] {
			break
		}
		links = append(links, reports.ChainLink{Title: parent, Executor: s.executorOfTitle(parent)})
		visited[parent] = true
		current = parent
	}
	return links
}

func (s *CitationAnalyticsService) executorOfTitle(title string) string {
	record := s.dataset.RecordByTitle(title)
	if record == nil || len(record.Executors) == 0 {
		return s.unassigned
	}
	return record.Executors[0]
}

type nameCount struct {
	name  string
	count int
}

// rankCounts orders map entries by count descending, then name
// ascending.
func rankCounts(counts map[string]int) []nameCount {
	ranked := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, nameCount{name: name, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}
