// Package reports holds the read-model payloads the engine produces:
// distribution results, API revenue summaries, the weight leaderboard,
// and citation statistics. Every report carries the fingerprint of the
// graph it was computed over, so output stays traceable to its dataset.
package reports

import (
	"github.com/shopspring/decimal"

	"revshare/domain/core/valueobjects"
	"revshare/pkg/common"
)

// AllocationRow is one allocation in a distribution result
type AllocationRow struct {
	UserID string                        `json:"user_id"`
	NodeID string                        `json:"node_id"`
	Amount valueobjects.Money            `json:"amount"`
	Source valueobjects.AllocationSource `json:"source"`
	Level  int                           `json:"propagation_level"`
}

// UserSummaryRow aggregates one user's take across a run. Allocations
// counts individual rows; Tasks counts distinct trigger tasks.
type UserSummaryRow struct {
	UserID      string             `json:"user_id"`
	Direct      valueobjects.Money `json:"direct"`
	Propagation valueobjects.Money `json:"propagation"`
	Total       valueobjects.Money `json:"total"`
	Allocations int                `json:"allocations"`
	Tasks       int                `json:"tasks"`
}

// LevelSummaryRow aggregates allocations by propagation level
type LevelSummaryRow struct {
	Level int                `json:"level"`
	Count int                `json:"count"`
	Total valueobjects.Money `json:"total_amount"`
}

// DistributionStats carries run-level totals
type DistributionStats struct {
	TotalUsers       int `json:"total_users"`
	TotalAllocations int `json:"total_allocations"`
}

// DistributionReport is the full result of one distribution run
type DistributionReport struct {
	TriggerTask      string             `json:"trigger_task"`
	TriggerExecutor  string             `json:"trigger_executor"`
	TotalRevenue     valueobjects.Money `json:"total_revenue"`
	GraphFingerprint string             `json:"graph_fingerprint"`
	Allocations      []AllocationRow    `json:"distribution"`
	UserSummaries    []UserSummaryRow   `json:"user_summary"`
	Levels           []LevelSummaryRow  `json:"by_level"`
	Stats            DistributionStats  `json:"statistics"`
	Conserved        bool               `json:"conserved"`
}

// APITaskRow describes one billable task inside an API revenue run
type APITaskRow struct {
	Task            string             `json:"task"`
	Executor        string             `json:"executor"`
	APICallCount    int                `json:"api_call_count"`
	TotalRevenue    valueobjects.Money `json:"total_revenue"`
	AllocationCount int                `json:"allocations_count"`
}

// APIRevenueStats carries run-level totals for an API revenue run
type APIRevenueStats struct {
	TotalUsers       int `json:"total_users"`
	TotalAllocations int `json:"total_allocations"`
	APITaskCount     int `json:"api_tasks_count"`
}

// APIRevenueReport aggregates distributions across every billable task,
// each task's revenue being its call count times the per-call price.
type APIRevenueReport struct {
	RevenuePerCall   valueobjects.Money `json:"revenue_per_call"`
	TotalAPICalls    int                `json:"total_api_calls"`
	TotalRevenue     valueobjects.Money `json:"total_revenue"`
	GraphFingerprint string             `json:"graph_fingerprint"`
	Tasks            []APITaskRow       `json:"api_tasks"`
	UserSummaries    []UserSummaryRow   `json:"user_summary"`
	Levels           []LevelSummaryRow  `json:"by_level"`
	Stats            APIRevenueStats    `json:"statistics"`
	Conserved        bool               `json:"conserved"`
}

// TaskWeightRow is one task's contribution to a user's weight
type TaskWeightRow struct {
	Title     string          `json:"title"`
	Citations int             `json:"citations"`
	Weight    decimal.Decimal `json:"weight"`
}

// UserWeightRow is one leaderboard entry. NormalizedWeight is the share
// of the total weight, in percent.
type UserWeightRow struct {
	User             string          `json:"user"`
	TaskCount        int             `json:"task_count"`
	TotalCitations   int             `json:"total_citations"`
	RawWeight        decimal.Decimal `json:"raw_weight"`
	NormalizedWeight decimal.Decimal `json:"normalized_weight"`
	Tasks            []TaskWeightRow `json:"tasks"`
}

// WeightSummary carries leaderboard-level totals
type WeightSummary struct {
	TotalUsers     int             `json:"total_users"`
	TotalTasks     int             `json:"total_tasks"`
	TotalCitations int             `json:"total_citations"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
}

// WeightReport is the dynamic weight leaderboard over the whole graph
type WeightReport struct {
	Summary          WeightSummary    `json:"summary"`
	Rows             []UserWeightRow  `json:"user_weights"`
	GraphFingerprint string           `json:"graph_fingerprint"`
	Page             *common.PageInfo `json:"page,omitempty"`
}

// ExecutorCoverage splits tasks by whether anyone is assigned
type ExecutorCoverage struct {
	WithExecutor    int `json:"with_executor"`
	WithoutExecutor int `json:"without_executor"`
}

// CitedTaskRow is one entry in the most-cited ranking
type CitedTaskRow struct {
	Title    string `json:"title"`
	Count    int    `json:"count"`
	Executor string `json:"executor"`
}

// ExecutorTaskRow is one entry in the tasks-per-executor ranking
type ExecutorTaskRow struct {
	User      string `json:"user"`
	TaskCount int    `json:"task_count"`
}

// ChainLink is one hop in an example citation chain
type ChainLink struct {
	Title    string `json:"title"`
	Executor string `json:"executor"`
}

// CitationChain is one example of a deepest citation chain, walking
// from a leaf task up through its first parents.
type CitationChain struct {
	Links []ChainLink `json:"links"`
}

// CitationStatsReport summarizes the citation structure of a dataset
type CitationStatsReport struct {
	TotalTasks       int               `json:"total_tasks"`
	TotalCitations   int               `json:"total_citations"`
	TotalUsers       int               `json:"total_users"`
	Coverage         ExecutorCoverage  `json:"executor_coverage"`
	RootNodes        int               `json:"root_nodes"`
	ChildNodes       int               `json:"child_nodes"`
	TopCited         []CitedTaskRow    `json:"top_cited"`
	TopExecutors     []ExecutorTaskRow `json:"top_executors"`
	MaxChainDepth    int               `json:"max_chain_depth"`
	Chains           []CitationChain   `json:"chains"`
	GraphFingerprint string            `json:"graph_fingerprint"`
}
