// Package catalog is the relational store (C6): one row per known .als
// path, deduplicated plugin and sample entities linked many-to-many to
// projects. Every mutating operation commits as a single transaction.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"studiocat/internal/model"
)

// Store wraps a SQLite connection holding the catalog schema.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the catalog at path and ensures the
// schema exists. A file that exists but is not a valid SQLite database is
// a fatal error: the catalog never silently recreates over an unreadable
// file, since that would discard whatever the operator meant to keep.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: open %q: %w: %v", path, model.ErrCatalog, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: open %q: %w: corrupt or foreign database file: %v", path, model.ErrCatalog, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// LookupByPath returns the project row at path, or (nil, nil) if absent.
func (s *Store) LookupByPath(ctx context.Context, path string) (*model.Project, error) {
	return s.lookupWhere(ctx, "path = ?", path)
}

// LookupByHash returns the project row with the given file hash, or
// (nil, nil) if absent.
func (s *Store) LookupByHash(ctx context.Context, hash string) (*model.Project, error) {
	return s.lookupWhere(ctx, "file_hash = ?", hash)
}

const projectColumns = `id, uuid, path, file_hash, last_scan_timestamp, name, creation_time,
	last_modification_time, creator, major_version, minor_version, patch_version,
	tempo, key, time_sig_numerator, time_sig_denominator, furthest_bar, estimated_duration`

func (s *Store) lookupWhere(ctx context.Context, clause string, arg any) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE "+clause, arg)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: lookup: %w: %v", model.ErrCatalog, err)
	}
	return p, nil
}

func scanProject(row *sql.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID, &p.UUID, &p.Path, &p.FileHash, &p.LastScanTimestamp, &p.Name, &p.CreationTime,
		&p.LastModificationTime, &p.Creator, &p.MajorVersion, &p.MinorVersion, &p.PatchVersion,
		&p.Tempo, &p.Key, &p.TimeSigNumerator, &p.TimeSigDenominator, &p.FurthestBar, &p.EstimatedDuration,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProject inserts candidate if its path is new, or updates the
// existing row at that path in place. Candidate.ID is ignored on input
// and populated on return.
func (s *Store) UpsertProject(ctx context.Context, candidate model.Project) (model.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Project{}, fmt.Errorf("catalog: upsert_project: %w: %v", model.ErrCatalog, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (uuid, path, file_hash, last_scan_timestamp, name, creation_time,
			last_modification_time, creator, major_version, minor_version, patch_version,
			tempo, key, time_sig_numerator, time_sig_denominator, furthest_bar, estimated_duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			file_hash = excluded.file_hash,
			last_scan_timestamp = excluded.last_scan_timestamp,
			name = excluded.name,
			creation_time = excluded.creation_time,
			last_modification_time = excluded.last_modification_time,
			creator = excluded.creator,
			major_version = excluded.major_version,
			minor_version = excluded.minor_version,
			patch_version = excluded.patch_version,
			tempo = excluded.tempo,
			key = excluded.key,
			time_sig_numerator = excluded.time_sig_numerator,
			time_sig_denominator = excluded.time_sig_denominator,
			furthest_bar = excluded.furthest_bar,
			estimated_duration = excluded.estimated_duration
	`,
		candidate.UUID, candidate.Path, candidate.FileHash, candidate.LastScanTimestamp, candidate.Name,
		candidate.CreationTime, candidate.LastModificationTime, candidate.Creator,
		candidate.MajorVersion, candidate.MinorVersion, candidate.PatchVersion,
		candidate.Tempo, candidate.Key, candidate.TimeSigNumerator, candidate.TimeSigDenominator,
		candidate.FurthestBar, candidate.EstimatedDuration,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("catalog: upsert_project: %w: %v", model.ErrCatalog, err)
	}

	// The id is read back by path: when the upsert takes the update branch,
	// LastInsertId does not name this row.
	var id int64
	row := tx.QueryRowContext(ctx, "SELECT id FROM projects WHERE path = ?", candidate.Path)
	if scanErr := row.Scan(&id); scanErr != nil {
		return model.Project{}, fmt.Errorf("catalog: upsert_project: %w: %v", model.ErrCatalog, scanErr)
	}
	candidate.ID = id

	if err := tx.Commit(); err != nil {
		return model.Project{}, fmt.Errorf("catalog: upsert_project: %w: %v", model.ErrCatalog, err)
	}
	return candidate, nil
}

// RenameProject applies a user-supplied custom name override, bypassing
// whatever name the extractor would otherwise derive from the filename.
func (s *Store) RenameProject(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE projects SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("catalog: rename_project: %w: %v", model.ErrCatalog, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: rename_project: %w: %v", model.ErrCatalog, err)
	}
	if n == 0 {
		return fmt.Errorf("catalog: rename_project: %w: no project with id %d", model.ErrElementNotFound, id)
	}
	return nil
}

// RebindPath moves an existing project row to a new path without touching
// its extracted fields, used when the reconciler detects a rename.
func (s *Store) RebindPath(ctx context.Context, id int64, newPath string, scannedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE projects SET path = ?, last_scan_timestamp = ? WHERE id = ?",
		newPath, scannedAt, id)
	if err != nil {
		return fmt.Errorf("catalog: rebind_path: %w: %v", model.ErrCatalog, err)
	}
	return nil
}

// DeleteByPath removes the project row at path and all its plugin/sample
// links. Plugin and sample rows themselves remain for future reuse.
func (s *Store) DeleteByPath(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("catalog: delete_by_path: %w: %v", model.ErrCatalog, err)
	}
	return nil
}

// AttachPlugin inserts the plugin if absent, then ensures the project ->
// plugin link exists. installed is the overlay's current determination
// (C9); it overwrites the stored flag of an existing plugin row on every
// call, in either direction.
func (s *Store) AttachPlugin(ctx context.Context, projectID int64, name string, family model.VersionFamily, installed bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: attach_plugin: %w: %v", model.ErrCatalog, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plugins (name, family, installed) VALUES (?, ?, ?)
		 ON CONFLICT(name, family) DO UPDATE SET installed = excluded.installed`,
		name, string(family), boolToInt(installed),
	); err != nil {
		return fmt.Errorf("catalog: attach_plugin: %w: %v", model.ErrCatalog, err)
	}

	var pluginID int64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM plugins WHERE name = ? AND family = ?", name, string(family),
	).Scan(&pluginID); err != nil {
		return fmt.Errorf("catalog: attach_plugin: %w: %v", model.ErrCatalog, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO project_plugins (project_id, plugin_id) VALUES (?, ?)",
		projectID, pluginID,
	); err != nil {
		return fmt.Errorf("catalog: attach_plugin: %w: %v", model.ErrCatalog, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: attach_plugin: %w: %v", model.ErrCatalog, err)
	}
	return nil
}

// AttachSample inserts the sample if absent, then ensures the project ->
// sample link exists.
func (s *Store) AttachSample(ctx context.Context, projectID int64, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: attach_sample: %w: %v", model.ErrCatalog, err)
	}
	defer tx.Rollback()

	name := baseName(path)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO samples (path, name, is_present) VALUES (?, ?, 1)
		 ON CONFLICT(path) DO UPDATE SET is_present = 1`,
		path, name,
	); err != nil {
		return fmt.Errorf("catalog: attach_sample: %w: %v", model.ErrCatalog, err)
	}

	var sampleID int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM samples WHERE path = ?", path).Scan(&sampleID); err != nil {
		return fmt.Errorf("catalog: attach_sample: %w: %v", model.ErrCatalog, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO project_samples (project_id, sample_id) VALUES (?, ?)",
		projectID, sampleID,
	); err != nil {
		return fmt.Errorf("catalog: attach_sample: %w: %v", model.ErrCatalog, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: attach_sample: %w: %v", model.ErrCatalog, err)
	}
	return nil
}

// ClearLinks removes every plugin/sample link for projectID so a
// re-extraction pass can repopulate from scratch without leaving stale
// associations from references the file no longer contains.
func (s *Store) ClearLinks(ctx context.Context, projectID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: clear_links: %w: %v", model.ErrCatalog, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_plugins WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("catalog: clear_links: %w: %v", model.ErrCatalog, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM project_samples WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("catalog: clear_links: %w: %v", model.ErrCatalog, err)
	}
	return tx.Commit()
}

// Plugins returns every plugin linked to projectID, joined for display.
func (s *Store) Plugins(ctx context.Context, projectID int64) ([]model.ProjectPlugin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name FROM plugins p
		JOIN project_plugins pp ON pp.plugin_id = p.id
		WHERE pp.project_id = ? ORDER BY p.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("catalog: plugins: %w: %v", model.ErrCatalog, err)
	}
	defer rows.Close()

	var out []model.ProjectPlugin
	for rows.Next() {
		var pp model.ProjectPlugin
		if err := rows.Scan(&pp.PluginID, &pp.PluginName); err != nil {
			return nil, fmt.Errorf("catalog: plugins: %w: %v", model.ErrCatalog, err)
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}

// Samples returns every sample linked to projectID, joined for display.
func (s *Store) Samples(ctx context.Context, projectID int64) ([]model.ProjectSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name FROM samples s
		JOIN project_samples ps ON ps.sample_id = s.id
		WHERE ps.project_id = ? ORDER BY s.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("catalog: samples: %w: %v", model.ErrCatalog, err)
	}
	defer rows.Close()

	var out []model.ProjectSample
	for rows.Next() {
		var ps model.ProjectSample
		if err := rows.Scan(&ps.SampleID, &ps.SampleName); err != nil {
			return nil, fmt.Errorf("catalog: samples: %w: %v", model.ErrCatalog, err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// ListProjects returns every project row, ordered by path, for the query
// boundary's listing endpoint.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("catalog: list_projects: %w: %v", model.ErrCatalog, err)
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.UUID, &p.Path, &p.FileHash, &p.LastScanTimestamp, &p.Name, &p.CreationTime,
			&p.LastModificationTime, &p.Creator, &p.MajorVersion, &p.MinorVersion, &p.PatchVersion,
			&p.Tempo, &p.Key, &p.TimeSigNumerator, &p.TimeSigDenominator, &p.FurthestBar, &p.EstimatedDuration,
		); err != nil {
			return nil, fmt.Errorf("catalog: list_projects: %w: %v", model.ErrCatalog, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LookupByID returns the project row by id, or (nil, nil) if absent.
func (s *Store) LookupByID(ctx context.Context, id int64) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: lookup_by_id: %w: %v", model.ErrCatalog, err)
	}
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
