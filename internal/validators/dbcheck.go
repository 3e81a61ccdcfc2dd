package validators

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abanremit/readycheck/internal/domain"
)

// DatabaseCheck exercises the database's CRUD and transaction behaviour
// with marked probe rows. Every row it creates is tracked in a cleanup
// list and deleted before the phase returns, whatever the outcome: the
// probe must be non-destructive even when it detects a defect.
type DatabaseCheck struct {
	open func(ctx context.Context) (domain.ProbeStore, error)
}

func NewDatabaseCheck(open func(ctx context.Context) (domain.ProbeStore, error)) *DatabaseCheck {
	return &DatabaseCheck{open: open}
}

func (v *DatabaseCheck) Name() string { return domain.PhaseDatabase }

func (v *DatabaseCheck) Execute(ctx context.Context) (domain.PhaseResult, error) {
	fail := func(code, message string, details any) (domain.PhaseResult, error) {
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), code, message, details),
		}, nil), nil
	}

	store, err := v.open(ctx)
	if err != nil {
		return fail(domain.CodeDBConnectionFailed, "Could not open database connection", err.Error())
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return fail(domain.CodeDBConnectionFailed, "Database did not answer ping", err.Error())
	}

	var errs []domain.ValidationError
	addErr := func(code, message string, details any) {
		errs = append(errs, domain.NewError(v.Name(), code, message, details))
	}

	// Cleanup runs regardless of which check failed.
	var cleanupIDs []string
	var cleanupMarkers []string
	defer func() {
		for _, id := range cleanupIDs {
			_ = store.Delete(ctx, id)
		}
		for _, marker := range cleanupMarkers {
			_ = store.DeleteByMarker(ctx, marker)
		}
	}()

	marker := "readycheck-" + uuid.NewString()

	// Create
	id, err := store.Insert(ctx, marker)
	if err != nil {
		addErr(domain.CodeCRUDCreateFailed, "Insert of probe row failed", err.Error())
		return domain.NewPhaseResult(v.Name(), errs, nil), nil
	}
	cleanupIDs = append(cleanupIDs, id)

	// Read
	got, err := store.Get(ctx, id)
	switch {
	case err != nil:
		addErr(domain.CodeCRUDReadFailed, "Read-back of probe row failed", err.Error())
	case got != marker:
		addErr(domain.CodeCRUDReadFailed,
			fmt.Sprintf("Read-back returned %q, expected %q", got, marker), nil)
	}

	// Update
	updated := marker + "-updated"
	if err := store.Update(ctx, id, updated); err != nil {
		addErr(domain.CodeCRUDUpdateFailed, "Update of probe row failed", err.Error())
	} else if got, err := store.Get(ctx, id); err != nil || got != updated {
		addErr(domain.CodeCRUDUpdateFailed, "Update of probe row did not persist", nil)
	}

	// Delete
	if err := store.Delete(ctx, id); err != nil {
		addErr(domain.CodeCRUDDeleteFailed, "Delete of probe row failed", err.Error())
	} else {
		cleanupIDs = cleanupIDs[:0]
	}

	// Transaction rollback: insert inside a rolled-back transaction and
	// verify nothing survived. A leaked row is added to the cleanup
	// list before being reported so the defect leaves no trace.
	rbMarker := "readycheck-rb-" + uuid.NewString()
	if err := store.InsertRolledBack(ctx, rbMarker); err != nil {
		addErr(domain.CodeTransactionRollbackFailed, "Rollback probe transaction failed", err.Error())
	} else {
		leaked, err := store.ExistsByMarker(ctx, rbMarker)
		switch {
		case err != nil:
			addErr(domain.CodeTransactionRollbackFailed, "Could not verify rollback", err.Error())
		case leaked:
			cleanupMarkers = append(cleanupMarkers, rbMarker)
			addErr(domain.CodeTransactionRollbackFailed,
				"Row inserted in a rolled-back transaction survived", nil)
		}
	}

	return domain.NewPhaseResult(v.Name(), errs, nil), nil
}
