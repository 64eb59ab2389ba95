package store

const jobsSchemaSQL = `
CREATE TABLE IF NOT EXISTS scrape_jobs (
	label               TEXT PRIMARY KEY,
	description         TEXT NOT NULL DEFAULT '',
	log                 TEXT NOT NULL DEFAULT '',
	download_directory  TEXT NOT NULL DEFAULT '',
	zip_file            TEXT NOT NULL DEFAULT '',
	date                TEXT NOT NULL,
	job_status          TEXT NOT NULL DEFAULT 'I',
	job_step            INTEGER NOT NULL DEFAULT 0,
	job_successes       INTEGER NOT NULL DEFAULT 0,
	job_fails           INTEGER NOT NULL DEFAULT 0,
	no_of_publications  INTEGER NOT NULL DEFAULT 0,
	job_parsed          TEXT NOT NULL DEFAULT 'F'
);

CREATE TABLE IF NOT EXISTS scrapes (
	label         TEXT NOT NULL REFERENCES scrape_jobs(label) ON DELETE CASCADE,
	action_index  INTEGER NOT NULL,
	date          TEXT NOT NULL,
	url           TEXT NOT NULL DEFAULT '',
	journal       TEXT NOT NULL DEFAULT '',
	strategy      TEXT NOT NULL DEFAULT '',
	method        TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'W',
	success       TEXT NOT NULL DEFAULT 'F',
	out_file      TEXT NOT NULL DEFAULT '',
	parsed        TEXT NOT NULL DEFAULT 'F',
	PRIMARY KEY (label, action_index)
);

CREATE TABLE IF NOT EXISTS parse_jobs (
	label               TEXT PRIMARY KEY,
	description         TEXT NOT NULL DEFAULT '',
	log                 TEXT NOT NULL DEFAULT '',
	mode                TEXT NOT NULL DEFAULT 'A',
	parse_directory     TEXT NOT NULL DEFAULT '',
	date                TEXT NOT NULL,
	job_status          TEXT NOT NULL DEFAULT 'I',
	job_successes       INTEGER NOT NULL DEFAULT 0,
	job_fails           INTEGER NOT NULL DEFAULT 0,
	no_of_publications  INTEGER NOT NULL DEFAULT 0,
	job_committed       TEXT NOT NULL DEFAULT 'F'
);

CREATE TABLE IF NOT EXISTS parses (
	label                TEXT NOT NULL REFERENCES parse_jobs(label) ON DELETE CASCADE,
	action_index         INTEGER NOT NULL,
	date                 TEXT NOT NULL,
	scrape_label         TEXT NOT NULL DEFAULT '',
	scrape_action_index  INTEGER NOT NULL DEFAULT -1,
	input_file           TEXT NOT NULL DEFAULT '',
	doi                  TEXT NOT NULL DEFAULT '',
	publisher            TEXT NOT NULL DEFAULT '',
	journal              TEXT NOT NULL DEFAULT '',
	title                TEXT NOT NULL DEFAULT '',
	publication_type     TEXT NOT NULL DEFAULT '',
	affiliations         TEXT NOT NULL DEFAULT '',
	received             TEXT NOT NULL DEFAULT '',
	accepted             TEXT NOT NULL DEFAULT '',
	published            TEXT NOT NULL DEFAULT '',
	parser               TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL DEFAULT 'W',
	success              TEXT NOT NULL DEFAULT 'F',
	committed            TEXT NOT NULL DEFAULT 'F',
	PRIMARY KEY (label, action_index)
);

CREATE TABLE IF NOT EXISTS commit_jobs (
	label               TEXT PRIMARY KEY,
	description         TEXT NOT NULL DEFAULT '',
	log                 TEXT NOT NULL DEFAULT '',
	mode                TEXT NOT NULL DEFAULT 'A',
	date                TEXT NOT NULL,
	job_status          TEXT NOT NULL DEFAULT 'I',
	job_successes       INTEGER NOT NULL DEFAULT 0,
	job_fails           INTEGER NOT NULL DEFAULT 0,
	no_of_publications  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS commits (
	label                TEXT NOT NULL REFERENCES commit_jobs(label) ON DELETE CASCADE,
	action_index         INTEGER NOT NULL,
	date                 TEXT NOT NULL,
	parse_label          TEXT NOT NULL DEFAULT '',
	parse_action_index   INTEGER NOT NULL DEFAULT -1,
	doi                  TEXT NOT NULL DEFAULT '',
	publisher            TEXT NOT NULL DEFAULT '',
	journal              TEXT NOT NULL DEFAULT '',
	title                TEXT NOT NULL DEFAULT '',
	publication_type     TEXT NOT NULL DEFAULT '',
	affiliations         TEXT NOT NULL DEFAULT '',
	received             TEXT NOT NULL DEFAULT '',
	accepted             TEXT NOT NULL DEFAULT '',
	published            TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL DEFAULT 'W',
	success              TEXT NOT NULL DEFAULT 'F',
	passed               TEXT NOT NULL DEFAULT 'F',
	duplicate            TEXT NOT NULL DEFAULT 'F',
	PRIMARY KEY (label, action_index)
);
`

const pubsSchemaSQL = `
CREATE TABLE IF NOT EXISTS pub (
	doi                    TEXT PRIMARY KEY COLLATE NOCASE,
	received               TEXT NOT NULL DEFAULT '',
	accepted               TEXT NOT NULL DEFAULT '',
	published              TEXT NOT NULL DEFAULT '',
	duration               TEXT NOT NULL DEFAULT '',
	publisher              TEXT NOT NULL DEFAULT '',
	journal                TEXT NOT NULL DEFAULT '',
	title                  TEXT NOT NULL DEFAULT '',
	affiliations           TEXT NOT NULL DEFAULT '',
	normalized_publisher   TEXT NOT NULL DEFAULT '',
	normalized_journal     TEXT NOT NULL DEFAULT '',
	normalized_received    TEXT NOT NULL DEFAULT '',
	normalized_accepted    TEXT NOT NULL DEFAULT '',
	normalized_published   TEXT NOT NULL DEFAULT ''
);
`
