// Package vault stores service credentials in a SQLite database, encrypting
// each secret with a key derived from a master password. The database handle
// is provided by the caller so the driver choice (cgo or pure Go) stays out
// of the library.
package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// kdfIterations is the PBKDF2 iteration count for deriving the vault key.
	kdfIterations = 480000
	// keySize is the derived AES-256 key length in bytes.
	keySize = 32
)

var (
	// ErrNotFound is returned when no credential exists for a service.
	ErrNotFound = errors.New("service not found in vault")

	// ErrDecrypt is returned when a stored secret fails authentication,
	// most commonly because the master password is wrong.
	ErrDecrypt = errors.New("could not decrypt secret")
)

// SetupSchema creates the vault table if it does not exist. It is idempotent
// and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS vault_secrets (
    id INTEGER PRIMARY KEY,
    service TEXT NOT NULL UNIQUE,
    username TEXT,
    encrypted_secret TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not create vault schema: %w", err)
	}
	return nil
}

// Vault encrypts and stores credentials keyed by service name.
type Vault struct {
	db         *sql.DB
	aead       cipher.AEAD
	stmtUpsert *sql.Stmt
	stmtGet    *sql.Stmt
	stmtDelete *sql.Stmt
	stmtList   *sql.Stmt
	logger     *slog.Logger
}

// New creates a Vault over the given database. The encryption key is derived
// from the master password and salt with PBKDF2-HMAC-SHA256; secrets are
// sealed with AES-256-GCM. New does not verify the master password — a wrong
// password only surfaces later as ErrDecrypt on Retrieve.
func New(db *sql.DB, master, salt []byte) (*Vault, error) {
	key := pbkdf2.Key(master, salt, kdfIterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not initialize AEAD: %w", err)
	}

	stmtUpsert, err := db.Prepare(`INSERT INTO vault_secrets (service, username, encrypted_secret) VALUES (?, ?, ?)
ON CONFLICT(service) DO UPDATE SET username = excluded.username, encrypted_secret = excluded.encrypted_secret;`)
	if err != nil {
		return nil, err
	}
	stmtGet, err := db.Prepare(`SELECT username, encrypted_secret FROM vault_secrets WHERE service = ?;`)
	if err != nil {
		return nil, err
	}
	stmtDelete, err := db.Prepare(`DELETE FROM vault_secrets WHERE service = ?;`)
	if err != nil {
		return nil, err
	}
	stmtList, err := db.Prepare(`SELECT service FROM vault_secrets ORDER BY service;`)
	if err != nil {
		return nil, err
	}

	return &Vault{
		db:         db,
		aead:       aead,
		stmtUpsert: stmtUpsert,
		stmtGet:    stmtGet,
		stmtDelete: stmtDelete,
		stmtList:   stmtList,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Vault. By default, all logs are discarded.
func (v *Vault) SetLogger(logger *slog.Logger) {
	if logger != nil {
		v.logger = logger
	}
}

// Close releases the prepared statements held by the Vault. It does not
// close the underlying database.
func (v *Vault) Close() {
	_ = v.stmtUpsert.Close()
	_ = v.stmtGet.Close()
	_ = v.stmtDelete.Close()
	_ = v.stmtList.Close()
}

// Store encrypts the secret and saves it under the service name, replacing
// any previous credential for that service. Service names are
// case-insensitive.
func (v *Vault) Store(ctx context.Context, service, username, secret string) error {
	sealed, err := v.seal([]byte(secret))
	if err != nil {
		return err
	}
	if _, err := v.stmtUpsert.ExecContext(ctx, strings.ToLower(service), username, sealed); err != nil {
		return fmt.Errorf("could not store credential for %q: %w", service, err)
	}
	v.logger.Info("credential stored", "service", strings.ToLower(service))
	return nil
}

// Retrieve decrypts and returns the credential for a service. It returns
// ErrNotFound if the service has no stored credential and ErrDecrypt if the
// stored secret does not authenticate under the vault key.
func (v *Vault) Retrieve(ctx context.Context, service string) (username, secret string, err error) {
	var sealed string
	err = v.stmtGet.QueryRowContext(ctx, strings.ToLower(service)).Scan(&username, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, service)
	}
	if err != nil {
		return "", "", fmt.Errorf("could not look up %q: %w", service, err)
	}

	plain, err := v.open(sealed)
	if err != nil {
		return "", "", err
	}
	return username, string(plain), nil
}

// Delete removes the credential for a service, reporting whether anything
// was removed.
func (v *Vault) Delete(ctx context.Context, service string) (bool, error) {
	res, err := v.stmtDelete.ExecContext(ctx, strings.ToLower(service))
	if err != nil {
		return false, fmt.Errorf("could not delete credential for %q: %w", service, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all stored service names in sorted order.
func (v *Vault) List(ctx context.Context) ([]string, error) {
	rows, err := v.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var services []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

// Reset deletes every credential in the vault.
func (v *Vault) Reset(ctx context.Context) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM vault_secrets;`); err != nil {
		return fmt.Errorf("could not reset vault: %w", err)
	}
	v.logger.Info("vault reset")
	return nil
}
