package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: members and transactions must be created before the tables that
// reference them via foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS incomes (
    member_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    recorded_at INTEGER NOT NULL,
    FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_settings (
    household_id TEXT PRIMARY KEY,
    method TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_ratios (
    household_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    percentage TEXT NOT NULL,
    PRIMARY KEY (household_id, member_id),
    FOREIGN KEY (household_id) REFERENCES split_settings(household_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    paid_by_user_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    type TEXT NOT NULL,
    category_id TEXT NOT NULL DEFAULT '',
    is_shared INTEGER NOT NULL DEFAULT 0,
    settled INTEGER NOT NULL DEFAULT 0,
    settled_at INTEGER NOT NULL DEFAULT 0,
    settlement_id TEXT NOT NULL DEFAULT '',
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_splits (
    id TEXT PRIMARY KEY,
    transaction_id TEXT NOT NULL,
    ower_user_id TEXT NOT NULL,
    owed_to_user_id TEXT NOT NULL,
    split_amount TEXT NOT NULL,
    split_percentage TEXT NOT NULL,
    is_paid INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    balance TEXT NOT NULL,
    currency TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    period_start INTEGER NOT NULL,
    period_end INTEGER NOT NULL,
    spent_amount TEXT NOT NULL,
    UNIQUE (member_id, category_id, period_start)
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    payer_user_id TEXT NOT NULL,
    receiver_user_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    payment_method TEXT NOT NULL DEFAULT '',
    category_id TEXT NOT NULL DEFAULT '',
    settled_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settlement_expenses (
    settlement_id TEXT NOT NULL,
    transaction_id TEXT NOT NULL,
    PRIMARY KEY (settlement_id, transaction_id),
    FOREIGN KEY (settlement_id) REFERENCES settlements(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_members_household_id ON members(household_id);
CREATE INDEX IF NOT EXISTS idx_incomes_member_id ON incomes(member_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_expense_splits_transaction_id ON expense_splits(transaction_id);
CREATE INDEX IF NOT EXISTS idx_expense_splits_ower ON expense_splits(ower_user_id, is_paid);
CREATE INDEX IF NOT EXISTS idx_expense_splits_owed_to ON expense_splits(owed_to_user_id, is_paid);
CREATE INDEX IF NOT EXISTS idx_settlements_household_id ON settlements(household_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
