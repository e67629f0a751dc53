package applicant

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS applicants (
	id             TEXT PRIMARY KEY,
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	phone_number   TEXT,
	date_of_birth  TEXT NOT NULL,
	ssn_last_four  TEXT NOT NULL,
	street         TEXT,
	city           TEXT,
	state          TEXT,
	zip_code       TEXT,
	unit           TEXT,
	email          TEXT,
	monthly_income INTEGER NOT NULL DEFAULT 0,
	employer_name  TEXT,
	employment_length_months INTEGER NOT NULL DEFAULT 0
);
`

// #endregion schema

// #region store-struct
// Store keeps applicant reference records in SQLite so the CLI harness
// can look callers up between runs. Conversation state itself is never
// persisted.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store-struct

// #region put

// Put inserts or replaces an applicant record. A missing ID is assigned.
func (s *Store) Put(rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO applicants
		(id, first_name, last_name, phone_number, date_of_birth, ssn_last_four,
		 street, city, state, zip_code, unit, email,
		 monthly_income, employer_name, employment_length_months)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FirstName, rec.LastName, rec.PhoneNumber,
		rec.DateOfBirth, rec.SSNLastFour,
		rec.Street, rec.City, rec.State, rec.ZipCode, rec.Unit, rec.Email,
		rec.MonthlyIncome, rec.EmployerName, rec.EmploymentLengthMonths,
	)
	if err != nil {
		return "", fmt.Errorf("put applicant: %w", err)
	}
	return rec.ID, nil
}

// #endregion put

// #region get

// Get retrieves an applicant record by ID.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	err := s.db.QueryRow(`
		SELECT id, first_name, last_name, phone_number, date_of_birth, ssn_last_four,
		       street, city, state, zip_code, unit, email,
		       monthly_income, employer_name, employment_length_months
		FROM applicants WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.PhoneNumber,
		&rec.DateOfBirth, &rec.SSNLastFour,
		&rec.Street, &rec.City, &rec.State, &rec.ZipCode, &rec.Unit, &rec.Email,
		&rec.MonthlyIncome, &rec.EmployerName, &rec.EmploymentLengthMonths)
	if err != nil {
		return Record{}, fmt.Errorf("get applicant %s: %w", id, err)
	}
	return rec, nil
}

// List returns up to limit applicant records ordered by last name.
func (s *Store) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, first_name, last_name, phone_number, date_of_birth, ssn_last_four,
		       street, city, state, zip_code, unit, email,
		       monthly_income, employer_name, employment_length_months
		FROM applicants ORDER BY last_name, first_name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.PhoneNumber,
			&rec.DateOfBirth, &rec.SSNLastFour,
			&rec.Street, &rec.City, &rec.State, &rec.ZipCode, &rec.Unit, &rec.Email,
			&rec.MonthlyIncome, &rec.EmployerName, &rec.EmploymentLengthMonths); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion get

// #region import

// ImportJSON loads a JSON fixture file into the store and returns the
// number of records imported.
func (s *Store) ImportJSON(path string) (int, error) {
	loader, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for _, rec := range loader.All() {
		if _, err := s.Put(rec); err != nil {
			return 0, err
		}
	}
	return loader.Count(), nil
}

// #endregion import
