package storage

const schemaVersion = 1

const createSchemaVersionSQL = "CREATE TABLE IF NOT EXISTS histfacts_schema_version (num INTEGER NOT NULL)"

var sqliteMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS histfacts_fact (
			id           INTEGER PRIMARY KEY,
			uuid         TEXT    NOT NULL UNIQUE,
			position     INTEGER NOT NULL,
			text         TEXT    NOT NULL,
			image_url    TEXT    NOT NULL DEFAULT '',
			period       TEXT    NOT NULL DEFAULT '',
			year         INTEGER NOT NULL,
			is_explicit  INTEGER NOT NULL DEFAULT 0,
			date_created DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS histfacts_fact_tag (
			fact_id  INTEGER NOT NULL,
			position INTEGER NOT NULL,
			tag      TEXT    NOT NULL,
			PRIMARY KEY (fact_id, position)
		)`,
		"CREATE INDEX IF NOT EXISTS idx_histfacts_fact_position ON histfacts_fact (position)",
	},
}

var postgresMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS histfacts_fact (
			id           BIGINT      PRIMARY KEY,
			uuid         TEXT        NOT NULL UNIQUE,
			position     INTEGER     NOT NULL,
			text         TEXT        NOT NULL,
			image_url    TEXT        NOT NULL DEFAULT '',
			period       TEXT        NOT NULL DEFAULT '',
			year         INTEGER     NOT NULL,
			is_explicit  BOOLEAN     NOT NULL DEFAULT FALSE,
			date_created TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS histfacts_fact_tag (
			fact_id  BIGINT  NOT NULL REFERENCES histfacts_fact (id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			tag      TEXT    NOT NULL,
			PRIMARY KEY (fact_id, position)
		)`,
		"CREATE INDEX IF NOT EXISTS idx_histfacts_fact_position ON histfacts_fact (position)",
	},
}
