package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"orcamento_backend/internal/quotes/domain"
	"orcamento_backend/platform/apperr"
)

func TestItemInsertErrMapsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "quote_items_service_id_fkey"}

	if got := itemInsertErr("insert quote item", fkErr); !errors.Is(got, domain.ErrUnknownService) {
		t.Errorf("fk violation: got %v, want ErrUnknownService", got)
	}

	// Wrapped violations map the same way.
	wrapped := fmt.Errorf("exec: %w", fkErr)
	if got := itemInsertErr("insert quote item", wrapped); !errors.Is(got, domain.ErrUnknownService) {
		t.Errorf("wrapped fk violation: got %v, want ErrUnknownService", got)
	}
}

func TestItemInsertErrKeepsOtherFailuresInternal(t *testing.T) {
	got := itemInsertErr("insert quote item", &pgconn.PgError{Code: "40001"})

	var appErr *apperr.Error
	if !errors.As(got, &appErr) || appErr.Kind != apperr.KindInternal {
		t.Errorf("serialization failure: got %v, want internal error", got)
	}
	if errors.Is(got, domain.ErrUnknownService) {
		t.Error("serialization failure must not map to ErrUnknownService")
	}
}
