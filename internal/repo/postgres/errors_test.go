package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestConflictFromPgError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantFields []string
	}{
		{
			name:       "known_constraint",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantFields: []string{"email"},
		},
		{
			name:       "wrapped_known_constraint",
			err:        fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"}),
			wantFields: []string{"slug"},
		},
		{
			name: "unknown_constraint_parsed_from_detail",
			err: &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "some_idx",
				Detail:         "Key (provider_id, day_of_week)=(abc, 1) already exists.",
			},
			wantFields: []string{"providerId", "dayOfWeek"},
		},
		{
			name:       "no_detail",
			err:        &pgconn.PgError{Code: "23505"},
			wantFields: []string{"unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := ConflictFromPgError(tt.err)
			if ae == nil {
				t.Fatalf("expected conflict error")
			}
			if ae.Kind != apperr.KindConflict {
				t.Fatalf("kind = %s", ae.Kind)
			}

			got := apperr.ConflictFields(ae)
			if fmt.Sprint(got) != fmt.Sprint(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestConflictFromPgError_IgnoresOtherErrors(t *testing.T) {
	if ConflictFromPgError(errors.New("boom")) != nil {
		t.Fatalf("plain error must not become a conflict")
	}
	if ConflictFromPgError(&pgconn.PgError{Code: "23503"}) != nil {
		t.Fatalf("fk violation must not become a conflict")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected unique violation")
	}
}
