package history

// Schema creates the import history table
const Schema = `
CREATE TABLE IF NOT EXISTS imports (
	id             TEXT PRIMARY KEY,
	filename       TEXT NOT NULL,
	format         TEXT NOT NULL,
	status         TEXT NOT NULL,
	is_on_prem     INTEGER NOT NULL DEFAULT 0,
	blueprint_name TEXT,
	reason         TEXT,
	error_message  TEXT,
	state          TEXT,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_imports_created_at ON imports(created_at);
`
