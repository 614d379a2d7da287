package giftcards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/giftcard-service/pkg/common"
)

// Repository handles gift card data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new gift card repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const cardColumns = `
	id, code, card_type, status, initial_balance, current_balance,
	currency, purchaser_id, recipient_email, recipient_name, message,
	expires_at, created_at, updated_at
`

func scanCard(row pgx.Row) (*GiftCard, error) {
	card := &GiftCard{}
	err := row.Scan(
		&card.ID, &card.Code, &card.CardType, &card.Status,
		&card.InitialBalance, &card.CurrentBalance, &card.Currency,
		&card.PurchaserID, &card.RecipientEmail, &card.RecipientName,
		&card.Message, &card.ExpiresAt, &card.CreatedAt, &card.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ========================================
// CARD OPERATIONS
// ========================================

// CreateCard persists a new gift card
func (r *Repository) CreateCard(ctx context.Context, card *GiftCard) error {
	query := `
		INSERT INTO gift_cards (
			id, code, card_type, status, initial_balance, current_balance,
			currency, purchaser_id, recipient_email, recipient_name, message,
			expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`
	_, err := r.db.Exec(ctx, query,
		card.ID, card.Code, card.CardType, card.Status,
		card.InitialBalance, card.CurrentBalance, card.Currency,
		card.PurchaserID, card.RecipientEmail, card.RecipientName,
		card.Message, card.ExpiresAt, card.CreatedAt, card.UpdatedAt,
	)
	return err
}

// CreateCards persists a batch of gift cards in one transaction
func (r *Repository) CreateCards(ctx context.Context, cards []*GiftCard) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO gift_cards (
			id, code, card_type, status, initial_balance, current_balance,
			currency, purchaser_id, recipient_email, recipient_name, message,
			expires_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`
	for _, card := range cards {
		_, err = tx.Exec(ctx, query,
			card.ID, card.Code, card.CardType, card.Status,
			card.InitialBalance, card.CurrentBalance, card.Currency,
			card.PurchaserID, card.RecipientEmail, card.RecipientName,
			card.Message, card.ExpiresAt, card.CreatedAt, card.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// CodeExists checks whether a code is already taken
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM gift_cards WHERE code = $1)`, code,
	).Scan(&exists)
	return exists, err
}

// GetCardByCode retrieves a card by its canonical code with its
// transaction history attached. Returns nil when no card matches.
func (r *Repository) GetCardByCode(ctx context.Context, code string) (*GiftCard, error) {
	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE code = $1`
	card, err := scanCard(r.db.QueryRow(ctx, query, code))
	if err != nil || card == nil {
		return nil, err
	}

	transactions, err := r.GetCardTransactions(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	card.Transactions = transactions

	return card, nil
}

// GetCardByID retrieves a card by primary key. Returns nil when absent.
func (r *Repository) GetCardByID(ctx context.Context, id uuid.UUID) (*GiftCard, error) {
	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE id = $1`
	return scanCard(r.db.QueryRow(ctx, query, id))
}

// ListPurchasedBy returns cards a user purchased, most recent first
func (r *Repository) ListPurchasedBy(ctx context.Context, userID uuid.UUID, limit, offset int) ([]GiftCard, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM gift_cards WHERE purchaser_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + cardColumns + `
		FROM gift_cards
		WHERE purchaser_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []GiftCard
	for rows.Next() {
		card := GiftCard{}
		err := rows.Scan(
			&card.ID, &card.Code, &card.CardType, &card.Status,
			&card.InitialBalance, &card.CurrentBalance, &card.Currency,
			&card.PurchaserID, &card.RecipientEmail, &card.RecipientName,
			&card.Message, &card.ExpiresAt, &card.CreatedAt, &card.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		cards = append(cards, card)
	}

	return cards, total, nil
}

// ========================================
// LEDGER OPERATIONS
// ========================================

// Redeem applies up to amount from the card identified by code,
// appending a redemption row to the ledger. The row is locked for the
// whole read-validate-write cycle so concurrent redemptions of the
// same card serialize instead of overdrawing.
func (r *Repository) Redeem(ctx context.Context, code string, amount float64, orderID *uuid.UUID) (*RedeemResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE code = $1 FOR UPDATE`
	card, err := scanCard(tx.QueryRow(ctx, query, code))
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}

	if result := ValidateForUse(card); !result.Valid {
		return nil, common.NewUnprocessableError(result.Reason, nil)
	}

	applied, newBalance, newStatus := applyRedemption(card, amount)

	_, err = tx.Exec(ctx,
		`UPDATE gift_cards SET current_balance = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		card.ID, newBalance, newStatus,
	)
	if err != nil {
		return nil, err
	}

	// A zero-amount redemption succeeds without touching the ledger
	if applied > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO gift_card_transactions (id, gift_card_id, amount, type, order_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), card.ID, -applied, TransactionTypeRedemption, orderID, time.Now(),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RedeemResult{CardID: card.ID, AmountApplied: applied, RemainingBalance: newBalance}, nil
}

// Refund credits amount back to a card, capped at the initial balance.
// The ledger row records the requested amount while the balance moves
// by the capped delta, preserving refund intent for reconciliation.
func (r *Repository) Refund(ctx context.Context, cardID uuid.UUID, amount float64, orderID *uuid.UUID) (*RefundResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE id = $1 FOR UPDATE`
	card, err := scanCard(tx.QueryRow(ctx, query, cardID))
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}

	credited, newBalance, newStatus := applyRefund(card, amount)

	_, err = tx.Exec(ctx,
		`UPDATE gift_cards SET current_balance = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		card.ID, newBalance, newStatus,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO gift_card_transactions (id, gift_card_id, amount, type, order_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), card.ID, amount, TransactionTypeRefund, orderID, time.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RefundResult{AmountRequested: amount, AmountCredited: credited, NewBalance: newBalance}, nil
}

// GetCardTransactions lists a card's ledger entries, newest first
func (r *Repository) GetCardTransactions(ctx context.Context, cardID uuid.UUID) ([]GiftCardTransaction, error) {
	query := `
		SELECT id, gift_card_id, amount, type, order_id, created_at
		FROM gift_card_transactions
		WHERE gift_card_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []GiftCardTransaction
	for rows.Next() {
		t := GiftCardTransaction{}
		if err := rows.Scan(&t.ID, &t.GiftCardID, &t.Amount, &t.Type, &t.OrderID, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// GetTransactionsByOrder lists ledger entries correlated to an order,
// which is how callers dedupe a redelivered webhook before redeeming
func (r *Repository) GetTransactionsByOrder(ctx context.Context, orderID uuid.UUID) ([]GiftCardTransaction, error) {
	query := `
		SELECT id, gift_card_id, amount, type, order_id, created_at
		FROM gift_card_transactions
		WHERE order_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []GiftCardTransaction
	for rows.Next() {
		t := GiftCardTransaction{}
		if err := rows.Scan(&t.ID, &t.GiftCardID, &t.Amount, &t.Type, &t.OrderID, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// DisableCard sets a card to cancelled. Cancellation is terminal and
// happens outside the ledger, so no transaction row is written.
func (r *Repository) DisableCard(ctx context.Context, cardID uuid.UUID) (*GiftCard, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + cardColumns + ` FROM gift_cards WHERE id = $1 FOR UPDATE`
	card, err := scanCard(tx.QueryRow(ctx, query, cardID))
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, common.NewNotFoundError("gift card not found", nil)
	}
	if card.Status == CardStatusCancelled {
		return nil, common.NewConflictError("gift card is already cancelled", nil)
	}

	_, err = tx.Exec(ctx,
		`UPDATE gift_cards SET status = $2, updated_at = NOW() WHERE id = $1`,
		card.ID, CardStatusCancelled,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	card.Status = CardStatusCancelled
	return card, nil
}

// ========================================
// MAINTENANCE
// ========================================

// ExpireCards batch-transitions active cards past their expiry to
// expired, returning the number of rows affected
func (r *Repository) ExpireCards(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE gift_cards
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at IS NOT NULL AND expires_at < NOW()
	`, CardStatusExpired, CardStatusActive)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
