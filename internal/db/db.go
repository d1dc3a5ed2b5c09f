// Package db persists scanned sites in a DuckDB database.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docnav/docnav/internal/hierarchy"
	"github.com/docnav/docnav/internal/scan"
	_ "github.com/marcboeker/go-duckdb"
)

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_site_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_page_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_class_id START 1;`,

		`CREATE TABLE IF NOT EXISTS sites (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			scan_id TEXT NOT NULL,
			root TEXT NOT NULL,
			scanned_at TIMESTAMP NOT NULL,
			UNIQUE(name)
		)`,

		`CREATE TABLE IF NOT EXISTS pages (
			id INTEGER PRIMARY KEY,
			site_id INTEGER REFERENCES sites(id),
			name TEXT NOT NULL,
			file TEXT NOT NULL,
			title TEXT NOT NULL,
			content_hash TEXT,
			UNIQUE(site_id, file)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_site ON pages (site_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_name ON pages (name)`,

		`CREATE TABLE IF NOT EXISTS anchors (
			page_id INTEGER REFERENCES pages(id),
			anchor TEXT NOT NULL,
			pos INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_anchors_page ON anchors (page_id)`,

		`CREATE TABLE IF NOT EXISTS classes (
			id INTEGER PRIMARY KEY,
			site_id INTEGER REFERENCES sites(id),
			name TEXT NOT NULL,
			href TEXT NOT NULL,
			bases TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_classes_site ON classes (site_id)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q[:min(40, len(q))], err)
		}
	}
	return nil
}

// SaveSite stores a scanned site, replacing any previous scan of the same
// site name. hashes maps page files to their CAS content hashes; it may be
// nil.
func (db *DB) SaveSite(site *scan.Site, hashes map[string]string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSiteTx(tx, site.Name); err != nil {
		return err
	}

	var siteID int64
	err = tx.QueryRow(
		`INSERT INTO sites (id, name, scan_id, root, scanned_at)
		 VALUES (nextval('seq_site_id'), ?, ?, ?, ?) RETURNING id`,
		site.Name, site.ID, site.Root, site.ScannedAt,
	).Scan(&siteID)
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}

	for _, p := range site.Pages {
		var pageID int64
		err = tx.QueryRow(
			`INSERT INTO pages (id, site_id, name, file, title, content_hash)
			 VALUES (nextval('seq_page_id'), ?, ?, ?, ?, ?) RETURNING id`,
			siteID, p.Name, p.File, p.Title, hashes[p.File],
		).Scan(&pageID)
		if err != nil {
			return fmt.Errorf("inserting page %s: %w", p.File, err)
		}
		for i, a := range p.Anchors {
			if _, err := tx.Exec(
				`INSERT INTO anchors (page_id, anchor, pos) VALUES (?, ?, ?)`,
				pageID, a, i,
			); err != nil {
				return fmt.Errorf("inserting anchor %s#%s: %w", p.File, a, err)
			}
		}
	}

	for _, c := range site.Classes {
		bases, err := json.Marshal(c.Bases)
		if err != nil {
			return fmt.Errorf("encoding bases for %s: %w", c.Name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO classes (id, site_id, name, href, bases)
			 VALUES (nextval('seq_class_id'), ?, ?, ?, ?)`,
			siteID, c.Name, c.Href, string(bases),
		); err != nil {
			return fmt.Errorf("inserting class %s: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

func deleteSiteTx(tx *sql.Tx, name string) error {
	var siteID int64
	err := tx.QueryRow(`SELECT id FROM sites WHERE name = ?`, name).Scan(&siteID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up site %s: %w", name, err)
	}
	for _, q := range []string{
		`DELETE FROM anchors WHERE page_id IN (SELECT id FROM pages WHERE site_id = ?)`,
		`DELETE FROM pages WHERE site_id = ?`,
		`DELETE FROM classes WHERE site_id = ?`,
		`DELETE FROM sites WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, siteID); err != nil {
			return fmt.Errorf("deleting previous scan of %s: %w", name, err)
		}
	}
	return nil
}

// LoadSite reconstructs a stored site. Page text is not stored here; it
// lives in the CAS keyed by the hashes returned alongside the site.
func (db *DB) LoadSite(name string) (*scan.Site, map[string]string, error) {
	site := &scan.Site{Name: name}
	var siteID int64
	err := db.conn.QueryRow(
		`SELECT id, scan_id, root, scanned_at FROM sites WHERE name = ?`, name,
	).Scan(&siteID, &site.ID, &site.Root, &site.ScannedAt)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("site %s not found", name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading site %s: %w", name, err)
	}

	hashes := make(map[string]string)
	rows, err := db.conn.Query(
		`SELECT id, name, file, title, content_hash FROM pages WHERE site_id = ? ORDER BY file`,
		siteID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("loading pages: %w", err)
	}
	defer rows.Close()

	pageIDs := make(map[int64]int) // page id → index in site.Pages
	for rows.Next() {
		var (
			pageID int64
			p      scan.Page
			hash   sql.NullString
		)
		if err := rows.Scan(&pageID, &p.Name, &p.File, &p.Title, &hash); err != nil {
			return nil, nil, fmt.Errorf("scanning page row: %w", err)
		}
		if hash.Valid && hash.String != "" {
			hashes[p.File] = hash.String
		}
		pageIDs[pageID] = len(site.Pages)
		site.Pages = append(site.Pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating pages: %w", err)
	}

	arows, err := db.conn.Query(
		`SELECT a.page_id, a.anchor FROM anchors a
		 JOIN pages p ON p.id = a.page_id
		 WHERE p.site_id = ? ORDER BY a.page_id, a.pos`, siteID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("loading anchors: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var (
			pageID int64
			anchor string
		)
		if err := arows.Scan(&pageID, &anchor); err != nil {
			return nil, nil, fmt.Errorf("scanning anchor row: %w", err)
		}
		if i, ok := pageIDs[pageID]; ok {
			site.Pages[i].Anchors = append(site.Pages[i].Anchors, anchor)
		}
	}
	if err := arows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating anchors: %w", err)
	}

	crows, err := db.conn.Query(
		`SELECT name, href, bases FROM classes WHERE site_id = ? ORDER BY name`, siteID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("loading classes: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var (
			c     hierarchy.ClassRecord
			bases string
		)
		if err := crows.Scan(&c.Name, &c.Href, &bases); err != nil {
			return nil, nil, fmt.Errorf("scanning class row: %w", err)
		}
		if err := json.Unmarshal([]byte(bases), &c.Bases); err != nil {
			return nil, nil, fmt.Errorf("decoding bases for %s: %w", c.Name, err)
		}
		site.Classes = append(site.Classes, c)
	}
	if err := crows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating classes: %w", err)
	}

	return site, hashes, nil
}

// SiteInfo summarizes one stored site for status listings.
type SiteInfo struct {
	Name      string
	ScanID    string
	Pages     int
	Classes   int
	ScannedAt time.Time
}

// ListSites returns a summary of all stored sites, most recent first.
func (db *DB) ListSites() ([]SiteInfo, error) {
	rows, err := db.conn.Query(
		`SELECT s.name, s.scan_id, s.scanned_at,
		        (SELECT count(*) FROM pages p WHERE p.site_id = s.id),
		        (SELECT count(*) FROM classes c WHERE c.site_id = s.id)
		 FROM sites s ORDER BY s.scanned_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	var infos []SiteInfo
	for rows.Next() {
		var info SiteInfo
		if err := rows.Scan(&info.Name, &info.ScanID, &info.ScannedAt, &info.Pages, &info.Classes); err != nil {
			return nil, fmt.Errorf("scanning site row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Clear removes every stored scan.
func (db *DB) Clear() error {
	for _, q := range []string{
		`DELETE FROM anchors`,
		`DELETE FROM pages`,
		`DELETE FROM classes`,
		`DELETE FROM sites`,
	} {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("clearing scans: %w", err)
		}
	}
	return nil
}

// LatestSite returns the name of the most recently scanned site.
func (db *DB) LatestSite() (string, error) {
	var name string
	err := db.conn.QueryRow(
		`SELECT name FROM sites ORDER BY scanned_at DESC LIMIT 1`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no sites scanned yet")
	}
	if err != nil {
		return "", fmt.Errorf("finding latest site: %w", err)
	}
	return name, nil
}
