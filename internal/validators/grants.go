package validators

import (
	"context"
	"fmt"

	"github.com/abanremit/readycheck/internal/domain"
)

// CheckPrivileges diffs the application role's grants against the
// expected set: exactly SELECT/INSERT/UPDATE/DELETE on every expected
// table, and never a destructive privilege such as TRUNCATE.
func CheckPrivileges(ctx context.Context, db domain.CatalogInspector, role string, expected domain.SchemaExpectation) []domain.CheckOutcome {
	var outcomes []domain.CheckOutcome
	for _, schema := range sortedSchemas(expected) {
		name := "privileges:" + schema
		grants, err := db.TablePrivileges(ctx, role, schema)
		if err != nil {
			outcomes = append(outcomes, domain.CheckOutcome{
				Name: name, Code: domain.CodePrivilegeMismatch,
				Message: fmt.Sprintf("Could not read grants for role %q on schema %q: %v", role, schema, err),
			})
			continue
		}

		allowed := toSet(domain.ExpectedPrivileges)
		destructive := toSet(domain.ForbiddenPrivileges)

		var violations []string
		for _, table := range expected.Tables[schema] {
			held := toSet(grants[table])
			for _, priv := range domain.ExpectedPrivileges {
				if !held[priv] {
					violations = append(violations, fmt.Sprintf("%s: %s not granted", table, priv))
				}
			}
			// The grant set must match exactly: anything beyond CRUD
			// is a violation, destructive or not.
			for _, priv := range grants[table] {
				if allowed[priv] {
					continue
				}
				if destructive[priv] {
					violations = append(violations, fmt.Sprintf("%s: destructive privilege %s granted", table, priv))
				} else {
					violations = append(violations, fmt.Sprintf("%s: unexpected privilege %s granted", table, priv))
				}
			}
		}

		oc := domain.CheckOutcome{Name: name, Passed: len(violations) == 0}
		if oc.Passed {
			oc.Message = fmt.Sprintf("Role %q holds exactly the expected grants on schema %q", role, schema)
		} else {
			oc.Code = domain.CodePrivilegeMismatch
			oc.Message = fmt.Sprintf("Grant violations for role %q on schema %q: %v", role, schema, violations)
			oc.Details = map[string]any{"role": role, "schema": schema, "violations": violations}
		}
		outcomes = append(outcomes, oc)
	}
	return outcomes
}
