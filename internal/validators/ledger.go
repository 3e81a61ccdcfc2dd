package validators

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abanremit/readycheck/internal/domain"
)

// CheckSystemAccounts verifies the fixed set of named ledger accounts
// exists, is of the system kind and is active.
func CheckSystemAccounts(ctx context.Context, db domain.LedgerInspector) []domain.CheckOutcome {
	live, err := db.SystemAccounts(ctx, domain.SystemAccountCodes)
	if err != nil {
		return []domain.CheckOutcome{{
			Name: "system_accounts", Code: domain.CodeSystemAccountInvalid,
			Message: fmt.Sprintf("Could not read system accounts: %v", err),
		}}
	}

	byCode := make(map[string]domain.LedgerAccount, len(live))
	for _, acct := range live {
		byCode[acct.Code] = acct
	}

	var violations []string
	for _, code := range domain.SystemAccountCodes {
		acct, ok := byCode[code]
		switch {
		case !ok:
			violations = append(violations, fmt.Sprintf("%s missing", code))
		case acct.Kind != domain.SystemAccountKind:
			violations = append(violations, fmt.Sprintf("%s has kind %q, expected %q", code, acct.Kind, domain.SystemAccountKind))
		case acct.Status != domain.SystemAccountActive:
			violations = append(violations, fmt.Sprintf("%s has status %q, expected %q", code, acct.Status, domain.SystemAccountActive))
		}
	}

	oc := domain.CheckOutcome{Name: "system_accounts", Passed: len(violations) == 0}
	if oc.Passed {
		oc.Message = fmt.Sprintf("All %d system accounts exist and are active", len(domain.SystemAccountCodes))
	} else {
		oc.Code = domain.CodeSystemAccountInvalid
		oc.Message = fmt.Sprintf("System account violations: %v", violations)
		oc.Details = map[string]any{"violations": violations}
	}
	return []domain.CheckOutcome{oc}
}

// CheckLedgerIntegrity verifies double-entry balance per transaction
// group, zero orphaned entries and zero negative amounts. Amounts are
// compared as exact decimals; an empty transaction group produces no
// flag.
func CheckLedgerIntegrity(ctx context.Context, db domain.LedgerInspector) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome

	balances, err := db.TransactionBalances(ctx)
	if err != nil {
		outcomes = append(outcomes, domain.CheckOutcome{
			Name: "ledger_balance", Code: domain.CodeUnbalancedTransactions,
			Message: fmt.Sprintf("Could not read transaction balances: %v", err),
		})
	} else {
		var unbalanced []string
		for _, bal := range balances {
			if bal.EntryCount == 0 {
				continue
			}
			debit, derr := decimal.NewFromString(bal.DebitSum)
			credit, cerr := decimal.NewFromString(bal.CreditSum)
			if derr != nil || cerr != nil || !debit.Equal(credit) {
				unbalanced = append(unbalanced, fmt.Sprintf("%s (debit %s, credit %s)",
					bal.TransactionID, bal.DebitSum, bal.CreditSum))
			}
		}
		oc := domain.CheckOutcome{Name: "ledger_balance", Passed: len(unbalanced) == 0}
		if oc.Passed {
			oc.Message = fmt.Sprintf("All %d transaction groups balance debit against credit", len(balances))
		} else {
			oc.Code = domain.CodeUnbalancedTransactions
			oc.Message = fmt.Sprintf("%d unbalanced transaction groups", len(unbalanced))
			oc.Details = map[string]any{"unbalanced": unbalanced}
		}
		outcomes = append(outcomes, oc)
	}

	orphans, err := db.OrphanedEntryCount(ctx)
	oc := domain.CheckOutcome{Name: "ledger_orphans"}
	switch {
	case err != nil:
		oc.Code = domain.CodeOrphanedEntries
		oc.Message = fmt.Sprintf("Could not count orphaned entries: %v", err)
	case orphans > 0:
		oc.Code = domain.CodeOrphanedEntries
		oc.Message = fmt.Sprintf("%d ledger entries reference a non-existent transaction", orphans)
		oc.Details = map[string]any{"orphaned_entries": orphans}
	default:
		oc.Passed = true
		oc.Message = "No orphaned ledger entries"
	}
	outcomes = append(outcomes, oc)

	negatives, err := db.NegativeAmountCount(ctx)
	oc = domain.CheckOutcome{Name: "ledger_negative_amounts"}
	switch {
	case err != nil:
		oc.Code = domain.CodeNegativeAmounts
		oc.Message = fmt.Sprintf("Could not count negative amounts: %v", err)
	case negatives > 0:
		oc.Code = domain.CodeNegativeAmounts
		oc.Message = fmt.Sprintf("%d ledger entries carry a negative amount", negatives)
		oc.Details = map[string]any{"negative_amounts": negatives}
	default:
		oc.Passed = true
		oc.Message = "No negative ledger amounts"
	}
	outcomes = append(outcomes, oc)

	return outcomes
}

// CheckIdempotency verifies both halves of the idempotency mechanism:
// the unique constraints guarding key columns exist, and no duplicate
// keys are present in the data right now.
func CheckIdempotency(ctx context.Context, db domain.DatabaseInspector) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome

	type guarded struct{ schema, table, column string }
	for _, g := range []guarded{
		{"ledger", "idempotency_keys", "key"},
		{"wallet", "wallet_transactions", "idempotency_key"},
	} {
		name := fmt.Sprintf("idempotency_constraint:%s.%s", g.schema, g.table)
		unique, err := db.UniqueColumns(ctx, g.schema, g.table)
		if err != nil {
			outcomes = append(outcomes, domain.CheckOutcome{
				Name: name, Code: domain.CodeIdempotencyViolation,
				Message: fmt.Sprintf("Could not inspect %s.%s: %v", g.schema, g.table, err),
			})
			continue
		}
		if !toSet(unique)[g.column] {
			outcomes = append(outcomes, domain.CheckOutcome{
				Name: name, Code: domain.CodeIdempotencyViolation,
				Message: fmt.Sprintf("%s.%s.%s has no unique constraint; duplicate submissions are not rejected",
					g.schema, g.table, g.column),
			})
			continue
		}
		outcomes = append(outcomes, domain.CheckOutcome{
			Name: name, Passed: true,
			Message: fmt.Sprintf("%s.%s.%s is uniquely constrained", g.schema, g.table, g.column),
		})
	}

	duplicates, err := db.DuplicateIdempotencyKeys(ctx)
	oc := domain.CheckOutcome{Name: "idempotency_duplicates"}
	switch {
	case err != nil:
		oc.Code = domain.CodeIdempotencyViolation
		oc.Message = fmt.Sprintf("Could not scan for duplicate idempotency keys: %v", err)
	case len(duplicates) > 0:
		oc.Code = domain.CodeIdempotencyViolation
		oc.Message = fmt.Sprintf("%d idempotency keys appear more than once", len(duplicates))
		oc.Details = map[string]any{"duplicates": duplicates}
	default:
		oc.Passed = true
		oc.Message = "No duplicate idempotency keys"
	}
	outcomes = append(outcomes, oc)

	return outcomes
}
