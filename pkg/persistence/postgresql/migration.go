package postgresql

// migrations returns the numbered schema migrations for the PostgreSQL
// backend. Step lists, logs and trigger payloads are stored as JSONB so
// definitions round-trip without a join per step.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				company_id VARCHAR(255) NOT NULL DEFAULT '',
				trigger_type VARCHAR(100) NOT NULL,
				trigger_config JSONB NOT NULL DEFAULT '{}',
				steps JSONB NOT NULL DEFAULT '[]',
				is_active BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_trigger_type
				ON workflows (trigger_type) WHERE deleted_at IS NULL;
			CREATE INDEX IF NOT EXISTS idx_workflows_active
				ON workflows (is_active) WHERE deleted_at IS NULL;

			CREATE TABLE IF NOT EXISTS workflow_runs (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				steps JSONB NOT NULL DEFAULT '[]',
				trigger_data JSONB NOT NULL DEFAULT '{}',
				variables JSONB NOT NULL DEFAULT '{}',
				logs JSONB NOT NULL DEFAULT '[]'
			);

			CREATE INDEX IF NOT EXISTS idx_workflow_runs_workflow_id
				ON workflow_runs (workflow_id);
			CREATE INDEX IF NOT EXISTS idx_workflow_runs_started_at
				ON workflow_runs (started_at DESC);
		`,
		2: `
			CREATE TABLE IF NOT EXISTS deals (
				id VARCHAR(255) PRIMARY KEY,
				company_id VARCHAR(255) NOT NULL DEFAULT '',
				name VARCHAR(255) NOT NULL,
				stage VARCHAR(100) NOT NULL DEFAULT '',
				contact_email VARCHAR(255) NOT NULL DEFAULT '',
				owner_id VARCHAR(255) NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS activities (
				id VARCHAR(255) PRIMARY KEY,
				type VARCHAR(50) NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				deal_id VARCHAR(255) NOT NULL,
				user_id VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_activities_deal_id
				ON activities (deal_id);

			CREATE TABLE IF NOT EXISTS notifications (
				id VARCHAR(255) PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				title VARCHAR(255) NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				read_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_notifications_user_id
				ON notifications (user_id);
		`,
	}
}
