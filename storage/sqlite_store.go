package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"worksync/worklog"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS projects (
	key TEXT PRIMARY KEY,
	url TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS accounts (
	login TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	project_key TEXT NOT NULL REFERENCES projects(key),
	credential TEXT NOT NULL,
	UNIQUE(display_name, project_key)
);
CREATE TABLE IF NOT EXISTS ledger (
	log_id TEXT PRIMARY KEY,
	target_login TEXT NOT NULL,
	target_date TEXT NOT NULL,
	comment TEXT NOT NULL,
	time_spent TEXT NOT NULL,
	project_key TEXT NOT NULL,
	issue_key TEXT NOT NULL,
	issue_summary TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveProject inserts or updates one project endpoint.
func (s *SQLiteStore) SaveProject(endpoint worklog.ProjectEndpoint) error {
	const stmt = `
INSERT INTO projects (key, url) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET url = excluded.url;`

	if _, err := s.db.Exec(stmt, endpoint.Key, endpoint.BaseURL); err != nil {
		return fmt.Errorf("save project %q: %w", endpoint.Key, err)
	}
	return nil
}

// SaveAccount inserts or updates one account mapping.
func (s *SQLiteStore) SaveAccount(account worklog.Account) error {
	const stmt = `
INSERT INTO accounts (login, display_name, project_key, credential) VALUES (?, ?, ?, ?)
ON CONFLICT(login) DO UPDATE SET
	display_name = excluded.display_name,
	project_key = excluded.project_key,
	credential = excluded.credential;`

	if _, err := s.db.Exec(stmt, account.Login, account.DisplayName, account.ProjectKey, account.Credential); err != nil {
		return fmt.Errorf("save account %q: %w", account.Login, err)
	}
	return nil
}

func (s *SQLiteStore) ResolveProject(key string) (worklog.ProjectEndpoint, error) {
	var endpoint worklog.ProjectEndpoint
	err := s.db.QueryRow(`SELECT key, url FROM projects WHERE key = ?;`, key).
		Scan(&endpoint.Key, &endpoint.BaseURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.ProjectEndpoint{}, fmt.Errorf("project %q: %w", key, worklog.ErrNotFound)
		}
		return worklog.ProjectEndpoint{}, fmt.Errorf("query project %q: %w", key, err)
	}
	return endpoint, nil
}

func (s *SQLiteStore) ListAccounts(projectKey string) ([]worklog.Account, error) {
	const query = `
SELECT login, display_name, project_key, credential
FROM accounts
WHERE project_key = ?
ORDER BY login;
`
	rows, err := s.db.Query(query, projectKey)
	if err != nil {
		return nil, fmt.Errorf("query accounts for project %q: %w", projectKey, err)
	}
	defer rows.Close()

	accounts := make([]worklog.Account, 0, 16)
	for rows.Next() {
		var account worklog.Account
		if err := rows.Scan(&account.Login, &account.DisplayName, &account.ProjectKey, &account.Credential); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func (s *SQLiteStore) DisplayNameForLogin(login string) (string, error) {
	var displayName string
	err := s.db.QueryRow(`SELECT display_name FROM accounts WHERE login = ?;`, login).Scan(&displayName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("login %q: %w", login, worklog.ErrNotFound)
		}
		return "", fmt.Errorf("query login %q: %w", login, err)
	}
	return displayName, nil
}

func (s *SQLiteStore) AccountFor(displayName, projectKey string) (worklog.Account, error) {
	const query = `
SELECT login, display_name, project_key, credential
FROM accounts
WHERE display_name = ? AND project_key = ?;
`
	var account worklog.Account
	err := s.db.QueryRow(query, displayName, projectKey).
		Scan(&account.Login, &account.DisplayName, &account.ProjectKey, &account.Credential)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.Account{}, fmt.Errorf("account %q in project %q: %w", displayName, projectKey, worklog.ErrNotFound)
		}
		return worklog.Account{}, fmt.Errorf("query account %q in project %q: %w", displayName, projectKey, err)
	}
	return account, nil
}

func (s *SQLiteStore) HasDelivered(logID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM ledger WHERE log_id = ?;`, logID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query ledger %q: %w", logID, err)
	}
	return true, nil
}

// RecordDelivered appends one ledger entry. A duplicate log id reports
// worklog.ErrConflict; any other failure is a storage error, not a conflict.
func (s *SQLiteStore) RecordDelivered(entry worklog.LedgerEntry) error {
	const stmt = `
INSERT OR IGNORE INTO ledger (
	log_id,
	target_login,
	target_date,
	comment,
	time_spent,
	project_key,
	issue_key,
	issue_summary
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	res, err := s.db.Exec(
		stmt,
		entry.LogID,
		entry.TargetLogin,
		entry.TargetDate,
		entry.Comment,
		entry.TimeSpent,
		entry.ProjectKey,
		entry.IssueKey,
		entry.IssueSummary,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry %q: %w", entry.LogID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read inserted row count: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ledger entry %q: %w", entry.LogID, worklog.ErrConflict)
	}
	return nil
}

// ListDelivered returns all ledger entries ordered by date, then log id.
func (s *SQLiteStore) ListDelivered() ([]worklog.LedgerEntry, error) {
	const query = `
SELECT
	log_id,
	target_login,
	target_date,
	comment,
	time_spent,
	project_key,
	issue_key,
	issue_summary
FROM ledger
ORDER BY target_date, log_id;
`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	entries := make([]worklog.LedgerEntry, 0, 256)
	for rows.Next() {
		var entry worklog.LedgerEntry
		if err := rows.Scan(
			&entry.LogID,
			&entry.TargetLogin,
			&entry.TargetDate,
			&entry.Comment,
			&entry.TimeSpent,
			&entry.ProjectKey,
			&entry.IssueKey,
			&entry.IssueSummary,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}
	return entries, nil
}
