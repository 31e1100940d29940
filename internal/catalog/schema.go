package catalog

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id                       INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid                     TEXT NOT NULL UNIQUE,
	path                     TEXT NOT NULL UNIQUE,
	file_hash                TEXT NOT NULL UNIQUE,
	last_scan_timestamp      DATETIME NOT NULL,
	name                     TEXT NOT NULL,
	creation_time            DATETIME NOT NULL,
	last_modification_time   DATETIME NOT NULL,
	creator                  TEXT NOT NULL DEFAULT '',
	major_version            INTEGER NOT NULL DEFAULT 0,
	minor_version            INTEGER NOT NULL DEFAULT 0,
	patch_version            INTEGER NOT NULL DEFAULT 0,
	tempo                    REAL NOT NULL DEFAULT 0,
	key                      TEXT NOT NULL DEFAULT 'Unknown',
	time_sig_numerator       INTEGER NOT NULL DEFAULT 0,
	time_sig_denominator     INTEGER NOT NULL DEFAULT 0,
	furthest_bar             REAL NOT NULL DEFAULT 0,
	estimated_duration       REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);

CREATE TABLE IF NOT EXISTS plugins (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL,
	family    TEXT NOT NULL,
	installed INTEGER NOT NULL DEFAULT 0,
	UNIQUE(name, family)
);

CREATE INDEX IF NOT EXISTS idx_plugins_name ON plugins(name);

CREATE TABLE IF NOT EXISTS samples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	path       TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	is_present INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS project_plugins (
	project_id INTEGER NOT NULL,
	plugin_id  INTEGER NOT NULL,
	PRIMARY KEY (project_id, plugin_id),
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
	FOREIGN KEY (plugin_id) REFERENCES plugins(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_project_plugins_plugin ON project_plugins(plugin_id);

CREATE TABLE IF NOT EXISTS project_samples (
	project_id INTEGER NOT NULL,
	sample_id  INTEGER NOT NULL,
	PRIMARY KEY (project_id, sample_id),
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
	FOREIGN KEY (sample_id) REFERENCES samples(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_project_samples_sample ON project_samples(sample_id);
`
