// SQLite-backed Store.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying goose migrations from the embedded FS.
//   - CRUD for users, flashcard sets, and flashcards.
//
// Uniqueness of user email/username is enforced by the schema; constraint
// violations surface as ErrDuplicate so callers can treat the database as the
// authoritative duplicate signal.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/flashdeck/flashdeck/internal/models"
	"github.com/flashdeck/flashdeck/internal/store/migrations"
)

// SQLite implements Store on top of a single SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (and creates if missing) a SQLite database file.
//
// - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
// - Configures busy timeout, WAL journaling, and foreign keys per connection.
// - In-memory databases are pinned to one connection so every query sees the
//   same schema.
func Open(dsn string) (*SQLite, error) {
	mem := strings.Contains(dsn, ":memory:")
	if !mem {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if mem {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Migrate applies pending schema migrations.
func (s *SQLite) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	log.Debug().Msg("migrations applied")
	return nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Timestamps are stored as RFC3339Nano strings, parsed back on scan.
func encodeTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func decodeTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// ------------------------------- users -------------------------------------

func (s *SQLite) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES (?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, encodeTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `id, username, email, password_hash, role, created_at`

func (s *SQLite) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=?`, id)
	return scanUser(row)
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email)=lower(?)`, email)
	return scanUser(row)
}

func (s *SQLite) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (s *SQLite) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		var created string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = decodeTime(created)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username=?, email=?, password_hash=?, role=? WHERE id=?`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = decodeTime(created)
	return &u, nil
}

// ------------------------------- sets --------------------------------------

func (s *SQLite) CreateSet(ctx context.Context, fs *models.FlashcardSet) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flashcard_sets (id, user_id, title, description, created_at, updated_at)
		 VALUES (?,?,?,?,?,?)`,
		fs.ID, fs.UserID, fs.Title, fs.Description, encodeTime(fs.CreatedAt), encodeTime(fs.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

func (s *SQLite) GetSet(ctx context.Context, id string) (*models.FlashcardSet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, created_at, updated_at
		 FROM flashcard_sets WHERE id=?`, id)
	var fs models.FlashcardSet
	var created, updated string
	if err := row.Scan(&fs.ID, &fs.UserID, &fs.Title, &fs.Description, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan set: %w", err)
	}
	fs.CreatedAt, fs.UpdatedAt = decodeTime(created), decodeTime(updated)
	return &fs, nil
}

func (s *SQLite) ListSets(ctx context.Context) ([]models.FlashcardSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, created_at, updated_at
		 FROM flashcard_sets ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	out := []models.FlashcardSet{}
	for rows.Next() {
		var fs models.FlashcardSet
		var created, updated string
		if err := rows.Scan(&fs.ID, &fs.UserID, &fs.Title, &fs.Description, &created, &updated); err != nil {
			return nil, err
		}
		fs.CreatedAt, fs.UpdatedAt = decodeTime(created), decodeTime(updated)
		out = append(out, fs)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateSet(ctx context.Context, fs *models.FlashcardSet) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE flashcard_sets SET title=?, description=?, updated_at=? WHERE id=?`,
		fs.Title, fs.Description, encodeTime(fs.UpdatedAt), fs.ID)
	if err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) DeleteSet(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flashcard_sets WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return requireRow(res)
}

// ------------------------------- cards -------------------------------------

func (s *SQLite) CreateCard(ctx context.Context, c *models.Flashcard) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flashcards (id, set_id, term, definition, created_at)
		 VALUES (?,?,?,?,?)`,
		c.ID, c.SetID, c.Term, c.Definition, encodeTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (s *SQLite) GetCard(ctx context.Context, id string) (*models.Flashcard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, set_id, term, definition, created_at FROM flashcards WHERE id=?`, id)
	var c models.Flashcard
	var created string
	if err := row.Scan(&c.ID, &c.SetID, &c.Term, &c.Definition, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}
	c.CreatedAt = decodeTime(created)
	return &c, nil
}

func (s *SQLite) ListCards(ctx context.Context) ([]models.Flashcard, error) {
	return s.listCards(ctx,
		`SELECT id, set_id, term, definition, created_at FROM flashcards ORDER BY created_at`)
}

func (s *SQLite) ListCardsBySet(ctx context.Context, setID string) ([]models.Flashcard, error) {
	return s.listCards(ctx,
		`SELECT id, set_id, term, definition, created_at FROM flashcards WHERE set_id=? ORDER BY created_at`,
		setID)
}

func (s *SQLite) listCards(ctx context.Context, query string, args ...any) ([]models.Flashcard, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	out := []models.Flashcard{}
	for rows.Next() {
		var c models.Flashcard
		var created string
		if err := rows.Scan(&c.ID, &c.SetID, &c.Term, &c.Definition, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = decodeTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateCard(ctx context.Context, c *models.Flashcard) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE flashcards SET term=?, definition=? WHERE id=?`,
		c.Term, c.Definition, c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) DeleteCard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return requireRow(res)
}

// requireRow converts a zero-row result into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
