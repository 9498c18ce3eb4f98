package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revshare/application/ports"
	"revshare/domain/core/valueobjects"
	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// seedNamespace is the UUIDv5 namespace all seeded identities derive
// from. Changing it changes every generated id, so it is fixed for the
// life of the schema.
var seedNamespace = uuid.MustParse("7b0b3475-f87f-4fdc-8a25-3e4aa6b1b135")

// timestampLayout renders timestamptz literals, RFC 3339 with a numeric
// offset.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// Generator renders a parsed dataset into an idempotent SQL seed
// script. Identities are UUIDv5 values derived from stable record
// attributes, so regenerating a script from the same export yields the
// same ids and the INSERTs collapse into no-ops on a seeded database.
type Generator struct {
	now    func() time.Time
	logger *zap.Logger
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithGeneratedAt pins the instant stamped on rows that carry no date
// of their own. Without it each run uses the wall clock.
func WithGeneratedAt(t time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = func() time.Time { return t }
	}
}

// NewGenerator creates a seed script generator
func NewGenerator(logger *zap.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Generator{
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the script for a dataset stamped with the graph
// fingerprint. The statement count covers INSERTs only, not the
// transaction frame.
func (g *Generator) Generate(ctx context.Context, dataset *ingestion.Dataset, fingerprint string) (*ports.SeedScript, error) {
	if dataset == nil || len(dataset.Records) == 0 {
		return nil, pkgerrors.NewValidationError("dataset contains no records").
			WithCode(pkgerrors.CodeEmptyDataset)
	}

	data := derive(dataset, g.now().UTC())
	sql, statements := render(data, fingerprint)

	g.logger.Info("generated seed script",
		zap.String("fingerprint", fingerprint),
		zap.Int("users", len(data.users)),
		zap.Int("nodes", len(data.nodes)),
		zap.Int("citations", len(data.citations)),
		zap.Int("revenueRows", len(data.revenue)),
	)

	return &ports.SeedScript{
		SQL:            sql,
		StatementCount: statements,
		Fingerprint:    fingerprint,
	}, nil
}

type seedUser struct {
	id        uuid.UUID
	username  string
	createdAt time.Time
}

type seedNode struct {
	id            uuid.UUID
	title         string
	nodeType      string
	creatorID     *uuid.UUID
	createdAt     time.Time
	apiCallCount  int
	citationCount int
	source        string
	sourceRef     string
}

type seedCitation struct {
	id        uuid.UUID
	fromID    uuid.UUID
	toID      uuid.UUID
	weight    decimal.Decimal
	createdAt time.Time
}

type seedRevenue struct {
	id        uuid.UUID
	taskID    uuid.UUID
	nodeID    uuid.UUID
	userID    uuid.UUID
	amount    string
	source    valueobjects.AllocationSource
	level     int
	createdAt time.Time
}

type seedData struct {
	users     []seedUser
	nodes     []seedNode
	citations []seedCitation
	revenue   []seedRevenue
}

// derive maps dataset entities onto their seeded identities, plus a
// deterministic batch of sample revenue rows: 100.00 direct to each
// executor of a record at level 0, and 50.00 propagation to the
// accountable owner of each cited record at level 1.
func derive(dataset *ingestion.Dataset, now time.Time) *seedData {
	data := &seedData{}

	userIDs := make(map[string]uuid.UUID, len(dataset.Users))
	for _, user := range dataset.Users {
		id := userUUID(user.Username)
		userIDs[user.Username] = id
		data.users = append(data.users, seedUser{
			id:        id,
			username:  user.Username,
			createdAt: now,
		})
	}

	inDegree := make(map[string]int, len(dataset.Records))
	for _, citation := range dataset.Citations {
		inDegree[citation.ToKey]++
	}

	nodeIDs := make(map[string]uuid.UUID, len(dataset.Records))
	for _, record := range dataset.Records {
		id := nodeUUID(record)
		nodeIDs[record.Key] = id

		var creatorID *uuid.UUID
		if owner := accountableOwner(record); owner != "" {
			if uid, ok := userIDs[owner]; ok {
				creatorID = &uid
			}
		}

		createdAt := now
		if record.CreatedDate != nil {
			createdAt = utils.MidnightUTC(*record.CreatedDate)
		}

		nodeType := record.NodeType
		if nodeType == "" {
			nodeType = ingestion.NodeTypeTask
		}

		data.nodes = append(data.nodes, seedNode{
			id:            id,
			title:         record.Title,
			nodeType:      nodeType,
			creatorID:     creatorID,
			createdAt:     createdAt,
			apiCallCount:  record.APICallCount,
			citationCount: inDegree[record.Key],
			source:        record.Source,
			sourceRef:     record.SourceRef,
		})
	}

	for _, citation := range dataset.Citations {
		fromID, okFrom := nodeIDs[citation.FromKey]
		toID, okTo := nodeIDs[citation.ToKey]
		if !okFrom || !okTo {
			continue
		}
		data.citations = append(data.citations, seedCitation{
			id:        citationUUID(fromID, toID),
			fromID:    fromID,
			toID:      toID,
			weight:    citation.Weight,
			createdAt: now,
		})
	}

	for _, record := range dataset.Records {
		taskID := nodeIDs[record.Key]
		for _, executor := range record.Executors {
			userID, ok := userIDs[executor]
			if !ok {
				continue
			}
			data.revenue = append(data.revenue, seedRevenue{
				id:        revenueUUID(taskID, taskID, userID, valueobjects.SourceDirect, 0),
				taskID:    taskID,
				nodeID:    taskID,
				userID:    userID,
				amount:    sampleDirectAmount,
				source:    valueobjects.SourceDirect,
				level:     0,
				createdAt: now,
			})
		}
	}

	for _, citation := range dataset.Citations {
		childID, okChild := nodeIDs[citation.FromKey]
		parentID, okParent := nodeIDs[citation.ToKey]
		if !okChild || !okParent {
			continue
		}
		parent := dataset.RecordByKey(citation.ToKey)
		if parent == nil {
			continue
		}
		owner := accountableOwner(*parent)
		if owner == "" {
			continue
		}
		userID, ok := userIDs[owner]
		if !ok {
			continue
		}
		data.revenue = append(data.revenue, seedRevenue{
			id:        revenueUUID(childID, parentID, userID, valueobjects.SourcePropagation, 1),
			taskID:    childID,
			nodeID:    parentID,
			userID:    userID,
			amount:    samplePropagationAmount,
			source:    valueobjects.SourcePropagation,
			level:     1,
			createdAt: now,
		})
	}

	return data
}

// render flattens the seed data into one transaction of INSERT
// statements with a fingerprint header.
func render(data *seedData, fingerprint string) (string, int) {
	lines := make([]string, 0, len(data.users)+len(data.nodes)+len(data.citations)+len(data.revenue)+12)
	lines = append(lines,
		"-- Seed script generated from a parsed task export.",
		fmt.Sprintf("-- graph fingerprint: %s", fingerprint),
		fmt.Sprintf("-- users: %d, nodes: %d, citations: %d, revenue rows: %d",
			len(data.users), len(data.nodes), len(data.citations), len(data.revenue)),
		"BEGIN;",
		"",
	)

	statements := 0
	for _, u := range data.users {
		lines = append(lines, fmt.Sprintf(insertUserStmt,
			sqlUUID(u.id), sqlText(u.username), defaultReputationScore, defaultContributionScore,
			sqlText(defaultUserLevel), defaultViolationCount, sqlTimestamp(u.createdAt)))
		statements++
	}
	lines = append(lines, "")

	for _, n := range data.nodes {
		lines = append(lines, fmt.Sprintf(insertNodeStmt,
			sqlUUID(n.id), sqlText(n.title), sqlText(n.nodeType), sqlNullableUUID(n.creatorID),
			sqlTimestamp(n.createdAt), n.apiCallCount, n.citationCount,
			sqlText(n.source), sqlText(n.sourceRef)))
		statements++
	}
	lines = append(lines, "")

	for _, c := range data.citations {
		lines = append(lines, fmt.Sprintf(insertCitationStmt,
			sqlUUID(c.id), sqlUUID(c.fromID), sqlUUID(c.toID), c.weight.String(),
			sqlTimestamp(c.createdAt)))
		statements++
	}
	lines = append(lines, "")

	for _, r := range data.revenue {
		lines = append(lines, fmt.Sprintf(insertRevenueStmt,
			sqlUUID(r.id), sqlUUID(r.taskID), sqlUUID(r.nodeID), sqlUUID(r.userID),
			r.amount, sqlText(string(r.source)), r.level, sqlTimestamp(r.createdAt)))
		statements++
	}

	lines = append(lines, "", "COMMIT;")
	return strings.Join(lines, "\n") + "\n", statements
}

// accountableOwner is the user a seeded record is attributed to: the
// first manager, falling back to the first executor.
func accountableOwner(record ingestion.TaskRecord) string {
	if len(record.Managers) > 0 {
		return record.Managers[0]
	}
	if len(record.Executors) > 0 {
		return record.Executors[0]
	}
	return ""
}

func deriveUUID(key string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(key))
}

func userUUID(username string) uuid.UUID {
	return deriveUUID("user:" + username)
}

func nodeUUID(record ingestion.TaskRecord) uuid.UUID {
	return deriveUUID(fmt.Sprintf("node:%s:%s:%s", record.Source, record.SourceRef, record.Title))
}

func citationUUID(fromID, toID uuid.UUID) uuid.UUID {
	return deriveUUID(fmt.Sprintf("citation:%s:%s", fromID, toID))
}

func revenueUUID(taskID, nodeID, userID uuid.UUID, source valueobjects.AllocationSource, level int) uuid.UUID {
	return deriveUUID(fmt.Sprintf("revenue:%s:%s:%s:%s:%d", taskID, nodeID, userID, source, level))
}

func sqlText(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func sqlUUID(id uuid.UUID) string {
	return "'" + id.String() + "'::uuid"
}

func sqlNullableUUID(id *uuid.UUID) string {
	if id == nil {
		return "NULL"
	}
	return sqlUUID(*id)
}

func sqlTimestamp(t time.Time) string {
	if t.IsZero() {
		return "DEFAULT"
	}
	return sqlText(t.UTC().Format(timestampLayout))
}

var _ ports.SeedGenerator = (*Generator)(nil)
