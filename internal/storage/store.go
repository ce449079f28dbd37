// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional write loses a race, e.g. a
	// settlement tried to mark a split paid that another settlement already
	// claimed. The whole operation is rolled back.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrSplitsExist is returned when splits are created twice for the same
	// transaction. Split creation is exactly-once per transaction.
	ErrSplitsExist = errors.New("splits already exist for transaction")
)

// TransactionClose describes how one shared transaction changes inside a
// settlement commit: its amount shrinks by the settled split sum, and it may
// be stamped settled when no unpaid splits remain.
//
// OldAmount is the amount observed when the change set was built. The store
// conditions the write on it, so a commit built from a stale read aborts with
// ErrConflict instead of overwriting a concurrent settlement's reduction.
type TransactionClose struct {
	TransactionID string
	OldAmount     decimal.Decimal
	NewAmount     decimal.Decimal
	Settle        bool
	SettledAt     int64
}

// SettlementCommit is the full, precomputed change set of one settlement.
// The store applies it as a single indivisible write: every split in SplitIDs
// flips to paid (conditioned on still being unpaid), both account balances are
// replaced, every transaction in Transactions is updated, the settlement row
// is inserted, and the optional payment transaction is created. Any failure,
// including a split already paid by a concurrent settlement, aborts the whole
// commit with no partial effect.
type SettlementCommit struct {
	Settlement *models.Settlement

	// SplitIDs are the unpaid splits this settlement claims.
	SplitIDs []string

	// Transactions are the amount reductions and closure stamps, grouped per
	// affected transaction.
	Transactions []TransactionClose

	PayerAccountID     string
	NewPayerBalance    decimal.Decimal
	ReceiverAccountID  string
	NewReceiverBalance decimal.Decimal

	// PaymentTransaction, when non-nil, is the synthesized expense recording
	// the real-world payment leaving the payer's budget.
	PaymentTransaction *models.Transaction
}

// Store defines the persistence interface for the household ledger.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// Members and incomes (household directory).
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, id string) (*models.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	ListActiveMembers(ctx context.Context, householdID string) ([]*models.Member, error)
	RecordIncome(ctx context.Context, memberID string, amount decimal.Decimal, recordedAt int64) error
	// LatestIncome returns the most recently recorded income, 0 if none.
	LatestIncome(ctx context.Context, memberID string) (decimal.Decimal, error)

	// Split settings.
	GetSplitSettings(ctx context.Context, householdID string) (*models.SplitSettings, error)
	SaveSplitSettings(ctx context.Context, settings *models.SplitSettings) error

	// Expense splits. CreateExpenseSplits writes the batch atomically and
	// fails with ErrSplitsExist if any split already exists for the
	// transaction. MarkSplitPaid is observably idempotent.
	CreateExpenseSplits(ctx context.Context, transactionID string, splits []*models.ExpenseSplit) error
	DeleteExpenseSplits(ctx context.Context, transactionID string) error
	GetSplitsForTransaction(ctx context.Context, transactionID string) ([]models.ExpenseSplit, error)
	GetUnpaidSplitsForUser(ctx context.Context, owerUserID string) ([]models.ExpenseSplit, error)
	GetUnpaidSplitsOwedToUser(ctx context.Context, owedToUserID string) ([]models.ExpenseSplit, error)
	GetUnpaidSplitsBetween(ctx context.Context, owerUserID, owedToUserID string) ([]models.ExpenseSplit, error)
	MarkSplitPaid(ctx context.Context, splitID string) error

	// Transactions. DeleteTransaction removes the transaction and its splits
	// in one write.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// Accounts. Balances are only written through ApplySettlement.
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// Budget aggregates (derived projections; best-effort consumers).
	UpsertBudget(ctx context.Context, budget *models.Budget) error
	GetBudgetForDate(ctx context.Context, memberID, categoryID string, date int64) (*models.Budget, error)
	SetBudgetSpent(ctx context.Context, budgetID string, spent decimal.Decimal) error

	// Settlements.
	ApplySettlement(ctx context.Context, commit *SettlementCommit) error
	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)
	ListSettlementsForHousehold(ctx context.Context, householdID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
