// Package models defines the core domain models for the Hauskasse ledger.
//
// # Model Overview
//
//   - Member: a person belonging to a household, with a role and login identity
//   - SplitSettings: per-household configuration for how shared expenses divide
//   - ExpenseSplit: one recorded obligation between two members, tied to a transaction
//   - Transaction: a financial transaction; shared transactions spawn splits
//   - Settlement: an immutable record of one payoff between two members
//   - Account: a member-owned wallet with a mutable balance
//   - Budget: a per-member, per-category spent aggregate for one budget period
//
// # Design Principles
//
// 1. Money is always decimal.Decimal, never float64; amounts round to 2 decimals
// at defined points only (split creation, debt netting).
// 2. ExpenseSplit.IsPaid is monotonic: it moves false→true exactly once, and only
// the settlement engine flips it.
// 3. Settlements are append-only history; they are never mutated after creation.
// 4. Relationships use ID strings instead of pointers to avoid circular references.
package models
