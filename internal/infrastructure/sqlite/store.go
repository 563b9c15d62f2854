package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/priceai/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// Store is the per-user document store backed by a single SQLite file.
// The cart/wishlist/orders collections are JSON-encoded array columns,
// mirroring the document shape the frontend consumes; array mutations
// are identity-keyed, never structural.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL DEFAULT 'user',
	password_hash TEXT NOT NULL,
	cart          TEXT NOT NULL DEFAULT '[]',
	wishlist      TEXT NOT NULL DEFAULT '[]',
	orders        TEXT NOT NULL DEFAULT '[]'
);
`

// Open opens (and creates if needed) the store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite is single-writer; serialize access at the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user document with empty collections.
func (s *Store) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, password_hash) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Role, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the profile and password hash for a login check.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash FROM users WHERE email = ?`, email)

	var u domain.User
	var hash string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	return &u, hash, nil
}

// GetDocument returns the full user document, collections decoded.
func (s *Store) GetDocument(ctx context.Context, userID string) (*domain.UserDocument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, cart, wishlist, orders FROM users WHERE id = ?`, userID)

	var doc domain.UserDocument
	var cartJSON, wishlistJSON, ordersJSON string
	err := row.Scan(&doc.ID, &doc.Name, &doc.Email, &doc.Role, &cartJSON, &wishlistJSON, &ordersJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	if err := json.Unmarshal([]byte(cartJSON), &doc.Cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if err := json.Unmarshal([]byte(wishlistJSON), &doc.Wishlist); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	if err := json.Unmarshal([]byte(ordersJSON), &doc.Orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return &doc, nil
}

// ListUsers returns every user profile (admin view).
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ReplaceArray replaces a collection field wholesale.
func (s *Store) ReplaceArray(ctx context.Context, userID, field string, items []domain.ProductRecord) error {
	if !domain.ValidCollectionField(field) {
		return fmt.Errorf("%w: unknown collection %q", domain.ErrInvalidRequest, field)
	}
	if items == nil {
		items = []domain.ProductRecord{}
	}
	return s.writeArray(ctx, userID, field, items)
}

// AppendIfAbsent appends the item unless an entry with the same identity
// is already present. Idempotent: appending a member is a no-op.
func (s *Store) AppendIfAbsent(ctx context.Context, userID, field string, item domain.ProductRecord) error {
	return s.mutateArray(ctx, userID, field, func(items []domain.ProductRecord) []domain.ProductRecord {
		identity := item.Identity()
		for _, existing := range items {
			if existing.Identity() == identity {
				return items
			}
		}
		return append(items, item)
	})
}

// RemoveByIdentity removes every entry whose canonical identity matches.
// Matching is never structural: a persisted copy that drifted in field
// order or ephemeral fields still matches by identity.
func (s *Store) RemoveByIdentity(ctx context.Context, userID, field, identity string) error {
	return s.mutateArray(ctx, userID, field, func(items []domain.ProductRecord) []domain.ProductRecord {
		kept := items[:0]
		for _, existing := range items {
			if existing.Identity() != identity {
				kept = append(kept, existing)
			}
		}
		return kept
	})
}

// CompleteCheckout appends an order to the user's history and clears
// the cart inside one transaction, so a failure can never leave the
// order persisted with the cart still intact.
func (s *Store) CompleteCheckout(ctx context.Context, userID string, order domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ordersJSON string
	row := tx.QueryRowContext(ctx, `SELECT orders FROM users WHERE id = ?`, userID)
	if err := row.Scan(&ordersJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("read orders: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal([]byte(ordersJSON), &orders); err != nil {
		return fmt.Errorf("decode orders: %w", err)
	}
	orders = append(orders, order)

	encoded, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET orders = ?, cart = '[]' WHERE id = ?`, string(encoded), userID); err != nil {
		return fmt.Errorf("write checkout: %w", err)
	}
	return tx.Commit()
}

// mutateArray runs a read-modify-write cycle on one collection column
// inside a transaction.
func (s *Store) mutateArray(ctx context.Context, userID, field string, mutate func([]domain.ProductRecord) []domain.ProductRecord) error {
	if !domain.ValidCollectionField(field) {
		return fmt.Errorf("%w: unknown collection %q", domain.ErrInvalidRequest, field)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// field is validated against the closed collection set above.
	var encoded string
	row := tx.QueryRowContext(ctx, `SELECT `+field+` FROM users WHERE id = ?`, userID)
	if err := row.Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("read %s: %w", field, err)
	}

	var items []domain.ProductRecord
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return fmt.Errorf("decode %s: %w", field, err)
	}

	mutated := mutate(items)
	if mutated == nil {
		mutated = []domain.ProductRecord{}
	}

	out, err := json.Marshal(mutated)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET `+field+` = ? WHERE id = ?`, string(out), userID); err != nil {
		return fmt.Errorf("write %s: %w", field, err)
	}
	return tx.Commit()
}

// writeArray overwrites one collection column.
func (s *Store) writeArray(ctx context.Context, userID, field string, items []domain.ProductRecord) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE users SET `+field+` = ? WHERE id = ?`, string(encoded), userID)
	if err != nil {
		return fmt.Errorf("write %s: %w", field, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// isUniqueViolation sniffs the driver error text for a UNIQUE failure;
// modernc/sqlite does not export typed constraint errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
