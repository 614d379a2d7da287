package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/giftcard-service/pkg/common"
)

// Repository handles loyalty data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new loyalty repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, user_id, points, lifetime_points, tier, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID, &account.UserID, &account.Points,
		&account.LifetimePoints, &account.Tier,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountByUser retrieves an account, or nil when absent
func (r *Repository) GetAccountByUser(ctx context.Context, userID uuid.UUID) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM loyalty_accounts WHERE user_id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, userID))
}

// EarnPoints credits points to an account, creating the account on
// first touch, and recalculates the tier from lifetime points. The
// account row stays locked for the whole read-modify-write.
func (r *Repository) EarnPoints(ctx context.Context, userID uuid.UUID, points int, description string, referenceID *uuid.UUID) (*Account, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + accountColumns + ` FROM loyalty_accounts WHERE user_id = $1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if account == nil {
		account = &Account{
			ID:        uuid.New(),
			UserID:    userID,
			Tier:      TierBronze,
			CreatedAt: now,
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO loyalty_accounts (id, user_id, points, lifetime_points, tier, created_at, updated_at)
			VALUES ($1, $2, 0, 0, $3, $4, $4)
		`, account.ID, account.UserID, account.Tier, now)
		if err != nil {
			return nil, err
		}
	}

	account.Points += points
	account.LifetimePoints += points
	account.Tier = TierFor(account.LifetimePoints).Name
	account.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		UPDATE loyalty_accounts
		SET points = $2, lifetime_points = $3, tier = $4, updated_at = $5
		WHERE id = $1
	`, account.ID, account.Points, account.LifetimePoints, account.Tier, now)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO loyalty_points_transactions (id, account_id, points, type, description, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New(), account.ID, points, PointsEarned, description, referenceID, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// SpendPoints debits points from an account under the row lock,
// failing when the balance is insufficient
func (r *Repository) SpendPoints(ctx context.Context, userID uuid.UUID, points int, description string) (*Account, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + accountColumns + ` FROM loyalty_accounts WHERE user_id = $1 FOR UPDATE`
	account, err := scanAccount(tx.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, common.NewNotFoundError("loyalty account not found", nil)
	}
	if account.Points < points {
		return nil, common.NewUnprocessableError("insufficient points balance", nil)
	}

	now := time.Now()
	account.Points -= points
	account.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		UPDATE loyalty_accounts SET points = $2, updated_at = $3 WHERE id = $1
	`, account.ID, account.Points, now)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO loyalty_points_transactions (id, account_id, points, type, description, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULL, $6)
	`, uuid.New(), account.ID, -points, PointsRedeemed, description, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetPointsHistory lists an account's points entries, newest first
func (r *Repository) GetPointsHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]PointsTransaction, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM loyalty_points_transactions WHERE account_id = $1`, accountID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, points, type, description, reference_id, created_at
		FROM loyalty_points_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []PointsTransaction
	for rows.Next() {
		t := PointsTransaction{}
		err := rows.Scan(&t.ID, &t.AccountID, &t.Points, &t.Type, &t.Description, &t.ReferenceID, &t.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}

	return transactions, total, nil
}
