package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revshare/application/reports"
	"revshare/domain/core/aggregates"
	"revshare/domain/ingestion"
	domainservices "revshare/domain/services"
	"revshare/pkg/common"
)

// topTasksPerUser caps how many of a user's tasks appear on their
// leaderboard row.
const topTasksPerUser = 5

var oneHundred = decimal.NewFromInt(100)

// WeightReportService computes the dynamic weight leaderboard: every
// task's reference weight at the evaluation instant, aggregated per
// creator and normalized against the graph-wide total.
type WeightReportService struct {
	dataset     *ingestion.Dataset
	graph       *aggregates.CitationGraph
	weights     *domainservices.WeightCalculator
	fingerprint string
	logger      *zap.Logger
}

// NewWeightReportService creates a new weight report service
func NewWeightReportService(
	dataset *ingestion.Dataset,
	graph *aggregates.CitationGraph,
	weights *domainservices.WeightCalculator,
	fingerprint string,
	logger *zap.Logger,
) *WeightReportService {
	return &WeightReportService{
		dataset:     dataset,
		graph:       graph,
		weights:     weights,
		fingerprint: fingerprint,
		logger:      logger,
	}
}

type userWeight struct {
	taskCount int
	citations int
	rawWeight decimal.Decimal
	tasks     []reports.TaskWeightRow
}

// Leaderboard walks every node in the graph, scores it with the weight
// calculator, and folds the scores into per-user rows ordered by raw
// weight descending. Citation counts use the larger of the declared
// count and the observed in-degree, matching the distributor.
func (s *WeightReportService) Leaderboard(ctx context.Context, page common.PageParams) (*reports.WeightReport, error) {
	perUser := make(map[string]*userWeight)
	totalWeight := decimal.Zero
	totalCitations := 0

	for _, node := range s.graph.Nodes() {
		effective := node.CitationCount()
		if observed := s.graph.IncomingCitationCount(node.ID()); observed > effective {
			effective = observed
		}
		weight, err := s.weights.NodeWeight(node, effective)
		if err != nil {
			return nil, err
		}

		user := node.CreatorID().String()
		entry, ok := perUser[user]
		if !ok {
			entry = &userWeight{}
			perUser[user] = entry
		}
		entry.taskCount++
		entry.citations += effective
		entry.rawWeight = entry.rawWeight.Add(weight)
		entry.tasks = append(entry.tasks, reports.TaskWeightRow{
			Title:     s.titleOf(node.ID().String()),
			Citations: effective,
			Weight:    weight,
		})

		totalWeight = totalWeight.Add(weight)
		totalCitations += effective
	}

	rows := make([]reports.UserWeightRow, 0, len(perUser))
	for user, entry := range perUser {
		// Stable sort keeps the node-id order on equal weights.
		sort.SliceStable(entry.tasks, func(i, j int) bool {
			return entry.tasks[i].Weight.GreaterThan(entry.tasks[j].Weight)
		})
		tasks := entry.tasks
		if len(tasks) > topTasksPerUser {
			tasks = tasks[:topTasksPerUser]
		}
		normalized := decimal.Zero
		if totalWeight.Sign() > 0 {
			normalized = entry.rawWeight.Div(totalWeight).Mul(oneHundred)
		}
		rows = append(rows, reports.UserWeightRow{
			User:             user,
			TaskCount:        entry.taskCount,
			TotalCitations:   entry.citations,
			RawWeight:        entry.rawWeight,
			NormalizedWeight: normalized,
			Tasks:            tasks,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].RawWeight.Equal(rows[j].RawWeight) {
			return rows[i].RawWeight.GreaterThan(rows[j].RawWeight)
		}
		return rows[i].User < rows[j].User
	})

	params := page.Normalize(0)
	total := len(rows)
	start, end := params.Window(total)
	window := rows[start:end]

	s.logger.Debug("Weight leaderboard computed",
		zap.Int("users", total),
		zap.Int("tasks", s.graph.NodeCount()),
		zap.String("totalWeight", totalWeight.String()),
	)

	return &reports.WeightReport{
		Summary: reports.WeightSummary{
			TotalUsers:     total,
			TotalTasks:     s.graph.NodeCount(),
			TotalCitations: totalCitations,
			TotalWeight:    totalWeight,
		},
		Rows:             window,
		GraphFingerprint: s.fingerprint,
		Page:             common.NewPageInfo(params, total, len(window)),
	}, nil
}

func (s *WeightReportService) titleOf(key string) string {
	if record := s.dataset.RecordByKey(key); record != nil {
		return record.Title
	}
	return key
}
