package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"revshare/application/ports"
	"revshare/application/reports"
	"revshare/domain/core/aggregates"
	"revshare/domain/core/valueobjects"
	"revshare/domain/events"
	"revshare/domain/ingestion"
	domainservices "revshare/domain/services"
	pkgerrors "revshare/pkg/errors"
)

// DistributionService runs revenue distributions over the citation graph
// and folds the raw allocations into report form. It owns trigger
// resolution, conservation checking, and event publication; the actual
// graph walk lives in the domain distributor.
type DistributionService struct {
	dataset     *ingestion.Dataset
	graph       *aggregates.CitationGraph
	distributor *domainservices.RevenueDistributor
	fingerprint string
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewDistributionService creates a new distribution service
func NewDistributionService(
	dataset *ingestion.Dataset,
	graph *aggregates.CitationGraph,
	distributor *domainservices.RevenueDistributor,
	fingerprint string,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DistributionService {
	return &DistributionService{
		dataset:     dataset,
		graph:       graph,
		distributor: distributor,
		fingerprint: fingerprint,
		publisher:   publisher,
		logger:      logger,
	}
}

// DistributeForTrigger resolves the trigger task and distributes the
// given amount through the graph. An empty trigger selects the first
// record in the dataset; otherwise the trigger is matched as a record
// key first and as a title second.
func (s *DistributionService) DistributeForTrigger(ctx context.Context, triggerTask string, amount valueobjects.Money) (*reports.DistributionReport, error) {
	record, err := s.resolveTrigger(triggerTask)
	if err != nil {
		return nil, err
	}

	triggerID, err := valueobjects.NewTriggerID(record.Key)
	if err != nil {
		return nil, err
	}
	entryID, err := valueobjects.NewNodeID(record.Key)
	if err != nil {
		return nil, err
	}

	allocations, err := s.distributor.Distribute(triggerID, entryID, amount)
	if err != nil {
		return nil, err
	}

	total := amount.QuantizeHalfUp()
	rows := make([]reports.AllocationRow, 0, len(allocations))
	users := newUserAccumulator()
	levels := newLevelAccumulator()
	distributed := valueobjects.ZeroMoney()

	for _, allocation := range allocations {
		rows = append(rows, reports.AllocationRow{
			UserID: allocation.UserID().String(),
			NodeID: allocation.NodeID().String(),
			Amount: allocation.Amount(),
			Source: allocation.Source(),
			Level:  allocation.Level(),
		})
		users.add(record.Key, allocation)
		levels.add(allocation)
		distributed = distributed.Add(allocation.Amount())
	}

	report := &reports.DistributionReport{
		TriggerTask:      record.Key,
		TriggerExecutor:  s.executorOf(record.Key),
		TotalRevenue:     total,
		GraphFingerprint: s.fingerprint,
		Allocations:      rows,
		UserSummaries:    users.rows(),
		Levels:           levels.rows(),
		Stats: reports.DistributionStats{
			TotalUsers:       users.size(),
			TotalAllocations: len(rows),
		},
		Conserved: distributed.Equals(total),
	}

	event := events.NewRevenueDistributed(triggerID, entryID, total, len(allocations), s.fingerprint, s.distributor.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish distribution event", zap.Error(err))
	}

	s.logger.Info("Revenue distributed",
		zap.String("trigger", record.Key),
		zap.String("amount", total.String()),
		zap.Int("allocations", len(allocations)),
		zap.Bool("conserved", report.Conserved),
	)

	return report, nil
}

// DistributeAPIRevenue prices every task flagged as an API with recorded
// calls at revenuePerCall per call, then runs one distribution per task
// and merges the results into a single report.
func (s *DistributionService) DistributeAPIRevenue(ctx context.Context, revenuePerCall valueobjects.Money) (*reports.APIRevenueReport, error) {
	if revenuePerCall.IsNegative() {
		return nil, pkgerrors.NewNegativeAmountError(revenuePerCall.String())
	}

	apiRecords := s.dataset.APIRecords()
	if len(apiRecords) == 0 {
		return nil, pkgerrors.NewNotFoundError("API tasks with recorded calls").
			WithCode(pkgerrors.CodeNoAPITasks)
	}

	perCall := revenuePerCall.QuantizeHalfUp()
	taskRows := make([]reports.APITaskRow, 0, len(apiRecords))
	batch := make([]events.DomainEvent, 0, len(apiRecords))
	users := newUserAccumulator()
	levels := newLevelAccumulator()
	totalCalls := 0
	totalRevenue := valueobjects.ZeroMoney()
	distributed := valueobjects.ZeroMoney()
	allocationCount := 0

	for _, record := range apiRecords {
		triggerID, err := valueobjects.NewTriggerID(record.Key)
		if err != nil {
			return nil, err
		}
		entryID, err := valueobjects.NewNodeID(record.Key)
		if err != nil {
			return nil, err
		}

		taskRevenue := perCall.MulInt(int64(record.APICallCount)).QuantizeHalfUp()
		allocations, err := s.distributor.Distribute(triggerID, entryID, taskRevenue)
		if err != nil {
			return nil, err
		}

		for _, allocation := range allocations {
			users.add(record.Key, allocation)
			levels.add(allocation)
			distributed = distributed.Add(allocation.Amount())
		}

		taskRows = append(taskRows, reports.APITaskRow{
			Task:            record.Title,
			Executor:        s.executorOf(record.Key),
			APICallCount:    record.APICallCount,
			TotalRevenue:    taskRevenue,
			AllocationCount: len(allocations),
		})
		batch = append(batch, events.NewRevenueDistributed(triggerID, entryID, taskRevenue, len(allocations), s.fingerprint, s.distributor.Now()))
		totalCalls += record.APICallCount
		totalRevenue = totalRevenue.Add(taskRevenue)
		allocationCount += len(allocations)
	}

	report := &reports.APIRevenueReport{
		RevenuePerCall:   perCall,
		TotalAPICalls:    totalCalls,
		TotalRevenue:     totalRevenue,
		GraphFingerprint: s.fingerprint,
		Tasks:            taskRows,
		UserSummaries:    users.rows(),
		Levels:           levels.rows(),
		Stats: reports.APIRevenueStats{
			TotalUsers:       users.size(),
			TotalAllocations: allocationCount,
			APITaskCount:     len(apiRecords),
		},
		Conserved: distributed.Equals(totalRevenue),
	}

	if err := s.publisher.PublishBatch(ctx, batch); err != nil {
		s.logger.Warn("Failed to publish API revenue events", zap.Error(err))
	}

	s.logger.Info("API revenue distributed",
		zap.Int("apiTasks", len(apiRecords)),
		zap.Int("totalCalls", totalCalls),
		zap.String("totalRevenue", totalRevenue.String()),
		zap.Bool("conserved", report.Conserved),
	)

	return report, nil
}

func (s *DistributionService) resolveTrigger(triggerTask string) (*ingestion.TaskRecord, error) {
	if triggerTask == "" {
		record := s.dataset.FirstRecord()
		if record == nil {
			return nil, pkgerrors.NewValidationError("dataset has no records").
				WithCode(pkgerrors.CodeEmptyDataset)
		}
		return record, nil
	}
	if record := s.dataset.RecordByKey(triggerTask); record != nil {
		return record, nil
	}
	if record := s.dataset.RecordByTitle(triggerTask); record != nil {
		return record, nil
	}
	return nil, pkgerrors.NewNodeNotFoundError(triggerTask)
}

// executorOf returns the creator recorded on the graph node, which the
// builder already resolved to the first executor or the unassigned name.
func (s *DistributionService) executorOf(key string) string {
	id, err := valueobjects.NewNodeID(key)
	if err != nil {
		return ingestion.DefaultUnassignedUser
	}
	node, err := s.graph.GetNode(id)
	if err != nil {
		return ingestion.DefaultUnassignedUser
	}
	return node.CreatorID().String()
}

// userAccumulator folds allocations into per-user summary rows
type userAccumulator struct {
	users map[string]*userTotals
}

type userTotals struct {
	direct      valueobjects.Money
	propagation valueobjects.Money
	allocations int
	tasks       map[string]struct{}
}

func newUserAccumulator() *userAccumulator {
	return &userAccumulator{users: make(map[string]*userTotals)}
}

func (acc *userAccumulator) add(taskKey string, allocation valueobjects.Allocation) {
	user := allocation.UserID().String()
	totals, ok := acc.users[user]
	if !ok {
		totals = &userTotals{
			direct:      valueobjects.ZeroMoney(),
			propagation: valueobjects.ZeroMoney(),
			tasks:       make(map[string]struct{}),
		}
		acc.users[user] = totals
	}
	if allocation.Source() == valueobjects.SourceDirect {
		totals.direct = totals.direct.Add(allocation.Amount())
	} else {
		totals.propagation = totals.propagation.Add(allocation.Amount())
	}
	totals.allocations++
	totals.tasks[taskKey] = struct{}{}
}

func (acc *userAccumulator) size() int {
	return len(acc.users)
}

// rows returns the summaries ordered by total descending, then user
// ascending.
func (acc *userAccumulator) rows() []reports.UserSummaryRow {
	rows := make([]reports.UserSummaryRow, 0, len(acc.users))
	for user, totals := range acc.users {
		rows = append(rows, reports.UserSummaryRow{
			UserID:      user,
			Direct:      totals.direct,
			Propagation: totals.propagation,
			Total:       totals.direct.Add(totals.propagation),
			Allocations: totals.allocations,
			Tasks:       len(totals.tasks),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows
}

// levelAccumulator folds allocations into per-level summary rows
type levelAccumulator struct {
	levels map[int]*levelTotals
}

type levelTotals struct {
	count int
	total valueobjects.Money
}

func newLevelAccumulator() *levelAccumulator {
	return &levelAccumulator{levels: make(map[int]*levelTotals)}
}

func (acc *levelAccumulator) add(allocation valueobjects.Allocation) {
	totals, ok := acc.levels[allocation.Level()]
	if !ok {
		totals = &levelTotals{total: valueobjects.ZeroMoney()}
		acc.levels[allocation.Level()] = totals
	}
	totals.count++
	totals.total = totals.total.Add(allocation.Amount())
}

func (acc *levelAccumulator) rows() []reports.LevelSummaryRow {
	rows := make([]reports.LevelSummaryRow, 0, len(acc.levels))
	for level, totals := range acc.levels {
		rows = append(rows, reports.LevelSummaryRow{
			Level: level,
			Count: totals.count,
			Total: totals.total,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Level < rows[j].Level })
	return rows
}
