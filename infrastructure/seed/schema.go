package seed

// Insert shapes for the PostgreSQL schema the scripts target. Conflict
// targets match the unique constraints the schema declares, so running
// a script twice is a no-op.
const (
	insertUserStmt = "INSERT INTO users (id, username, reputation_score, contribution_score, level, violation_count, created_at)" +
		" VALUES (%s, %s, %s, %d, %s::user_level, %d, %s)" +
		" ON CONFLICT (username) DO NOTHING;"

	insertNodeStmt = "INSERT INTO nodes (id, title, type, creator_id, created_at, api_call_count, citation_count, source, source_ref)" +
		" VALUES (%s, %s, %s::node_type, %s, %s, %d, %d, %s, %s)" +
		" ON CONFLICT (id) DO NOTHING;"

	insertCitationStmt = "INSERT INTO citations (id, from_node_id, to_node_id, weight, created_at)" +
		" VALUES (%s, %s, %s, %s, %s)" +
		" ON CONFLICT ON CONSTRAINT citations_unique_edge DO NOTHING;"

	insertRevenueStmt = "INSERT INTO revenue_distributions (id, task_id, node_id, user_id, amount, source, propagation_level, created_at)" +
		" VALUES (%s, %s, %s, %s, %s::numeric(10,2), %s::revenue_source, %d, %s)" +
		" ON CONFLICT (id) DO NOTHING;"
)

// Profile every seeded user starts with
const (
	defaultUserLevel         = "novice"
	defaultReputationScore   = "0.0"
	defaultContributionScore = 0
	defaultViolationCount    = 0
)

// Sample revenue amounts stamped into every script, sized for
// integration smoke checks rather than real payouts.
const (
	sampleDirectAmount      = "100.00"
	samplePropagationAmount = "50.00"
)
