package validators

import (
	"context"
	"fmt"
	"sort"

	"github.com/abanremit/readycheck/internal/domain"
)

// Introspection is the parent phase for the structural-metadata
// validator family: schema shape, constraints, indexes, system
// accounts, ledger integrity, idempotency and role privileges. Every
// sub-check runs even when earlier ones fail, so one run surfaces
// every violation.
type Introspection struct {
	open func(ctx context.Context) (domain.DatabaseInspector, error)
	role string
}

func NewIntrospection(open func(ctx context.Context) (domain.DatabaseInspector, error), role string) *Introspection {
	return &Introspection{open: open, role: role}
}

func (v *Introspection) Name() string { return domain.PhaseIntrospection }

func (v *Introspection) Execute(ctx context.Context) (domain.PhaseResult, error) {
	db, err := v.open(ctx)
	if err != nil {
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), domain.CodeDBConnectionFailed,
				"Could not open database connection", err.Error()),
		}, nil), nil
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), domain.CodeDBConnectionFailed,
				"Database did not answer ping", err.Error()),
		}, nil), nil
	}

	expected := domain.ExpectedSchema()
	outcomes := v.runChecks(ctx, db, expected)

	var errs []domain.ValidationError
	for _, oc := range outcomes {
		if !oc.Passed {
			errs = append(errs, domain.NewError(v.Name(), oc.Code, oc.Message, oc.Details))
		}
	}
	return domain.NewPhaseResult(v.Name(), errs, nil), nil
}

func (v *Introspection) runChecks(ctx context.Context, db domain.DatabaseInspector, expected domain.SchemaExpectation) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome
	outcomes = append(outcomes, CheckTables(ctx, db, expected)...)
	outcomes = append(outcomes, CheckColumns(ctx, db, expected)...)
	outcomes = append(outcomes, CheckUniqueConstraints(ctx, db, expected)...)
	outcomes = append(outcomes, CheckIndexes(ctx, db, expected)...)
	outcomes = append(outcomes, CheckSystemAccounts(ctx, db)...)
	outcomes = append(outcomes, CheckLedgerIntegrity(ctx, db)...)
	outcomes = append(outcomes, CheckIdempotency(ctx, db)...)
	outcomes = append(outcomes, CheckPrivileges(ctx, db, v.role, expected)...)
	return outcomes
}

// sortedSchemas yields schema names in stable order so findings are
// deterministic across runs.
func sortedSchemas(expected domain.SchemaExpectation) []string {
	schemas := make([]string, 0, len(expected.Tables))
	for schema := range expected.Tables {
		schemas = append(schemas, schema)
	}
	sort.Strings(schemas)
	return schemas
}

// CheckTables verifies that every expected table exists in its schema.
func CheckTables(ctx context.Context, db domain.CatalogInspector, expected domain.SchemaExpectation) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome
	for _, schema := range sortedSchemas(expected) {
		live, err := db.ListTables(ctx, schema)
		if err != nil {
			outcomes = append(outcomes, domain.CheckOutcome{
				Name: "tables:" + schema, Code: domain.CodeSchemaValidationFailed,
				Message: fmt.Sprintf("Could not list tables in schema %q: %v", schema, err),
			})
			continue
		}
		liveSet := toSet(live)
		var missing []string
		for _, table := range expected.Tables[schema] {
			if !liveSet[table] {
				missing = append(missing, table)
			}
		}
		oc := domain.CheckOutcome{Name: "tables:" + schema, Passed: len(missing) == 0}
		if oc.Passed {
			oc.Message = fmt.Sprintf("All %d expected tables exist in schema %q", len(expected.Tables[schema]), schema)
		} else {
			oc.Code = domain.CodeSchemaValidationFailed
			oc.Message = fmt.Sprintf("Schema %q is missing tables: %v", schema, missing)
			oc.Details = map[string]any{"schema": schema, "missing_tables": missing}
		}
		outcomes = append(outcomes, oc)
	}
	return outcomes
}

// CheckColumns verifies that every expected column exists with a
// compatible type, normalizing dialect-specific spellings first.
func CheckColumns(ctx context.Context, db domain.CatalogInspector, expected domain.SchemaExpectation) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome
	for _, schema := range sortedSchemas(expected) {
		for _, table := range expected.Tables[schema] {
			shape, ok := expected.Shape[schema][table]
			if !ok || len(shape.Columns) == 0 {
				continue
			}
			live, err := db.ListColumns(ctx, schema, table)
			if err != nil {
				outcomes = append(outcomes, domain.CheckOutcome{
					Name: fmt.Sprintf("columns:%s.%s", schema, table), Code: domain.CodeSchemaValidationFailed,
					Message: fmt.Sprintf("Could not list columns of %s.%s: %v", schema, table, err),
				})
				continue
			}
			liveTypes := make(map[string]string, len(live))
			for _, col := range live {
				liveTypes[col.Name] = col.Type
			}

			var violations []string
			for _, want := range shape.Columns {
				got, ok := liveTypes[want.Name]
				switch {
				case !ok:
					violations = append(violations, fmt.Sprintf("%s missing", want.Name))
				case !domain.TypesCompatible(want.Type, got):
					violations = append(violations, fmt.Sprintf("%s is %s, expected %s", want.Name, got, want.Type))
				}
			}

			oc := domain.CheckOutcome{Name: fmt.Sprintf("columns:%s.%s", schema, table), Passed: len(violations) == 0}
			if oc.Passed {
				oc.Message = fmt.Sprintf("%s.%s matches its column contract", schema, table)
			} else {
				oc.Code = domain.CodeSchemaValidationFailed
				oc.Message = fmt.Sprintf("%s.%s violates its column contract: %v", schema, table, violations)
				oc.Details = map[string]any{"schema": schema, "table": table, "violations": violations}
			}
			outcomes = append(outcomes, oc)
		}
	}
	return outcomes
}

// CheckUniqueConstraints verifies uniqueness on the security- and
// idempotency-critical columns.
func CheckUniqueConstraints(ctx context.Context, db domain.CatalogInspector, expected domain.SchemaExpectation) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome
	for _, schema := range sortedSchemas(expected) {
		for _, table := range expected.Tables[schema] {
			shape := expected.Shape[schema][table]
			if len(shape.UniqueColumns) == 0 {
				continue
			}
			live, err := db.UniqueColumns(ctx, schema, table)
			if err != nil {
				outcomes = append(outcomes, domain.CheckOutcome{
					Name: fmt.Sprintf("unique:%s.%s", schema, table), Code: domain.CodeConstraintMissing,
					Message: fmt.Sprintf("Could not list unique constraints of %s.%s: %v", schema, table, err),
				})
				continue
			}
			liveSet := toSet(live)
			var missing []string
			for _, col := range shape.UniqueColumns {
				if !liveSet[col] {
					missing = append(missing, col)
				}
			}
			oc := domain.CheckOutcome{Name: fmt.Sprintf("unique:%s.%s", schema, table), Passed: len(missing) == 0}
			if oc.Passed {
				oc.Message = fmt.Sprintf("%s.%s carries all required unique constraints", schema, table)
			} else {
				oc.Code = domain.CodeConstraintMissing
				oc.Message = fmt.Sprintf("%s.%s lacks unique constraints on: %v", schema, table, missing)
				oc.Details = map[string]any{"schema": schema, "table": table, "missing_unique": missing}
			}
			outcomes = append(outcomes, oc)
		}
	}
	return outcomes
}

// CheckIndexes verifies index coverage on the hot-path columns.
func CheckIndexes(ctx context.Context, db domain.CatalogInspector, expected domain.SchemaExpectation) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome
	for _, schema := range sortedSchemas(expected) {
		for _, table := range expected.Tables[schema] {
			shape := expected.Shape[schema][table]
			if len(shape.IndexedColumns) == 0 {
				continue
			}
			live, err := db.IndexedColumns(ctx, schema, table)
			if err != nil {
				outcomes = append(outcomes, domain.CheckOutcome{
					Name: fmt.Sprintf("indexes:%s.%s", schema, table), Code: domain.CodeIndexMissing,
					Message: fmt.Sprintf("Could not list indexes of %s.%s: %v", schema, table, err),
				})
				continue
			}
			liveSet := toSet(live)
			var missing []string
			for _, col := range shape.IndexedColumns {
				if !liveSet[col] {
					missing = append(missing, col)
				}
			}
			oc := domain.CheckOutcome{Name: fmt.Sprintf("indexes:%s.%s", schema, table), Passed: len(missing) == 0}
			if oc.Passed {
				oc.Message = fmt.Sprintf("%s.%s has indexes on all hot-path columns", schema, table)
			} else {
				oc.Code = domain.CodeIndexMissing
				oc.Message = fmt.Sprintf("%s.%s lacks indexes on: %v", schema, table, missing)
				oc.Details = map[string]any{"schema": schema, "table": table, "missing_indexes": missing}
			}
			outcomes = append(outcomes, oc)
		}
	}
	return outcomes
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
