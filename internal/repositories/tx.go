package repositories

import (
	"database/sql"
	"fmt"
)

// TxManager runs a function inside one database transaction. Services depend
// on this interface instead of *sql.DB directly so the combined
// quantity/ledger/snapshot write path can be exercised with in-memory fakes.
type TxManager interface {
	WithTransaction(fn func(SQLExecutor) error) error
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager wraps a *sql.DB in a TxManager.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) WithTransaction(fn func(SQLExecutor) error) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	// Errors from fn already carry the repository sentinels; pass them
	// through untouched so errors.Is keeps working at the handler.
	if err := fn(tx); err != nil {
		return err
	}

	// Serialization failures can surface at COMMIT rather than on the
	// statements inside fn, so the commit error goes through the same
	// classification.
	if err := tx.Commit(); err != nil {
		if mapped := classifyPQError(err); mapped != nil {
			return fmt.Errorf("%w: committing transaction: %v", mapped, err)
		}
		return fmt.Errorf("%w: committing transaction: %v", ErrDatabaseError, err)
	}
	return nil
}
