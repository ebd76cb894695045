package postgres

import (
	"errors"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// constraintFields maps unique constraints to the API field they guard.
var constraintFields = map[string][]string{
	"users_email_key":       {"email"},
	"users_phone_key":       {"phone"},
	"categories_name_key":   {"name"},
	"categories_slug_key":   {"slug"},
	"providers_user_id_key": {"userId"},
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return true
	}
	return false
}

func isForeignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}

// ConflictFromPgError turns a unique violation into a conflict naming the offending fields.
// It returns nil for any other error.
func ConflictFromPgError(err error) *apperr.Error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return nil
	}

	fields, ok := constraintFields[pgErr.ConstraintName]
	if !ok {
		fields = fieldsFromDetail(pgErr.Detail)
	}
	if len(fields) == 0 {
		fields = []string{"unknown"}
	}

	return apperr.Conflict("Duplicate value detected", fields...)
}

// fieldsFromDetail parses `Key (a, b)=(x, y) already exists.` as reported by Postgres.
func fieldsFromDetail(detail string) []string {
	start := strings.Index(detail, "(")
	end := strings.Index(detail, ")")
	if start == -1 || end <= start+1 {
		return nil
	}

	out := []string{}
	for _, col := range strings.Split(detail[start+1:end], ",") {
		if c := strings.TrimSpace(col); c != "" {
			out = append(out, snakeToCamel(c))
		}
	}
	return out
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
