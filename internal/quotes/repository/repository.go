package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/quotes/domain"
	"orcamento_backend/platform/apperr"
)

const (
	persistenceFailureMessage = "persistence failure"
	foreignKeyViolationCode   = "23503"
)

// itemInsertErr maps a foreign key violation on quote_items to the domain
// error: the service row vanished between catalog resolution and the insert.
func itemInsertErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return domain.ErrUnknownService
	}
	return persistence(op, err)
}

// Repo implements the quotes repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// persistence wraps infrastructure errors so the HTTP layer maps them to 500
// instead of a business-rule failure.
func persistence(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, persistenceFailureMessage, fmt.Errorf("%s: %w", op, err))
}

// CreateDraft persists an empty quote in Draft state.
func (r *Repo) CreateDraft(ctx context.Context, quote *Quote) error {
	query := `
		INSERT INTO quotes (id, client_id, user_id, address_id, status, total_cents)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING total_cents, created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		quote.ID, quote.ClientID, quote.UserID, quote.AddressID, domain.StatusDraft,
	).Scan(&quote.TotalCents, &quote.CreatedAt, &quote.UpdatedAt); err != nil {
		return persistence("create draft quote", err)
	}
	quote.Status = domain.StatusDraft
	return nil
}

// CreateWithItems persists a quote and its pre-merged line items in a single
// transaction. The caller has already summed duplicate services.
func (r *Repo) CreateWithItems(ctx context.Context, quote *Quote, items []NewItem) ([]LineItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}

	quoteQuery := `
		INSERT INTO quotes (id, client_id, user_id, address_id, status, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	if err := tx.QueryRow(ctx, quoteQuery,
		quote.ID, quote.ClientID, quote.UserID, quote.AddressID, domain.StatusDraft, total,
	).Scan(&quote.CreatedAt, &quote.UpdatedAt); err != nil {
		return nil, persistence("insert quote", err)
	}
	quote.Status = domain.StatusDraft
	quote.TotalCents = total

	itemQuery := `
		INSERT INTO quote_items (quote_id, service_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery, quote.ID, item.ServiceID, item.Quantity, item.UnitPriceCents); err != nil {
			return nil, itemInsertErr("insert quote item", err)
		}
	}

	lineItems, err := loadItems(ctx, tx, quote.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistence("commit", err)
	}
	return lineItems, nil
}

// GetByID loads a quote and its line items.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Quote, []LineItem, error) {
	query := `
		SELECT id, client_id, user_id, address_id, status, total_cents, created_at, updated_at
		FROM quotes WHERE id = $1`

	quote, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Quote{}, nil, err
	}

	items, err := loadItems(ctx, r.pool, id)
	if err != nil {
		return Quote{}, nil, err
	}
	return quote, items, nil
}

// List returns quotes newest first, with their items keyed by quote id.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Quote, map[uuid.UUID][]LineItem, int, error) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1
	if params.ClientID != nil {
		where += fmt.Sprintf(" AND client_id = $%d", argIdx)
		args = append(args, *params.ClientID)
		argIdx++
	}
	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *params.Status)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM quotes WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, nil, 0, persistence("count quotes", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, client_id, user_id, address_id, status, total_cents, created_at, updated_at
		FROM quotes WHERE %s
		ORDER BY created_at DESC
		OFFSET $%d LIMIT $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Offset, params.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, nil, 0, persistence("list quotes", err)
	}
	defer rows.Close()

	var quotes []Quote
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, nil, 0, err
		}
		quotes = append(quotes, quote)
		ids = append(ids, quote.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, persistence("list quotes", err)
	}

	itemsByQuote := make(map[uuid.UUID][]LineItem, len(ids))
	if len(ids) > 0 {
		itemRows, err := r.pool.Query(ctx, `
			SELECT i.quote_id, i.service_id, s.name, i.quantity, i.unit_price_cents
			FROM quote_items i
			JOIN services s ON s.id = i.service_id
			WHERE i.quote_id = ANY($1)
			ORDER BY s.name`, ids)
		if err != nil {
			return nil, nil, 0, persistence("list quote items", err)
		}
		defer itemRows.Close()

		for itemRows.Next() {
			var item LineItem
			if err := itemRows.Scan(&item.QuoteID, &item.ServiceID, &item.ServiceName, &item.Quantity, &item.UnitPriceCents); err != nil {
				return nil, nil, 0, persistence("scan quote item", err)
			}
			item.SubtotalCents = int64(item.Quantity) * item.UnitPriceCents
			itemsByQuote[item.QuoteID] = append(itemsByQuote[item.QuoteID], item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, nil, 0, persistence("list quote items", err)
		}
	}

	return quotes, itemsByQuote, total, nil
}

// AddOrMergeItem adds a line item or merges into an existing one by summing
// quantities, then recomputes the cached total, all under the quote row lock.
func (r *Repo) AddOrMergeItem(ctx context.Context, quoteID, serviceID uuid.UUID, quantity int, unitPriceCents int64) (Quote, []LineItem, error) {
	return r.mutateLocked(ctx, quoteID, func(tx pgx.Tx, quote *Quote) error {
		if err := quote.Status.EnsureMutable(); err != nil {
			return err
		}

		// On conflict the stored unit price wins: the snapshot was taken when
		// the service first landed on the quote.
		query := `
			INSERT INTO quote_items (quote_id, service_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (quote_id, service_id)
			DO UPDATE SET quantity = quote_items.quantity + EXCLUDED.quantity`
		if _, err := tx.Exec(ctx, query, quoteID, serviceID, quantity, unitPriceCents); err != nil {
			return itemInsertErr("upsert quote item", err)
		}
		return nil
	})
}

// SetItemQuantity overwrites the quantity of an existing line item.
func (r *Repo) SetItemQuantity(ctx context.Context, quoteID, serviceID uuid.UUID, quantity int) (Quote, []LineItem, error) {
	return r.mutateLocked(ctx, quoteID, func(tx pgx.Tx, quote *Quote) error {
		if err := quote.Status.EnsureMutable(); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `
			UPDATE quote_items SET quantity = $3
			WHERE quote_id = $1 AND service_id = $2`, quoteID, serviceID, quantity)
		if err != nil {
			return persistence("update quote item", err)
		}
		if result.RowsAffected() == 0 {
			return domain.ErrLineItemNotFound
		}
		return nil
	})
}

// RemoveItem deletes a line item from a draft quote.
func (r *Repo) RemoveItem(ctx context.Context, quoteID, serviceID uuid.UUID) (Quote, []LineItem, error) {
	return r.mutateLocked(ctx, quoteID, func(tx pgx.Tx, quote *Quote) error {
		if err := quote.Status.EnsureMutable(); err != nil {
			return err
		}

		result, err := tx.Exec(ctx, `
			DELETE FROM quote_items
			WHERE quote_id = $1 AND service_id = $2`, quoteID, serviceID)
		if err != nil {
			return persistence("delete quote item", err)
		}
		if result.RowsAffected() == 0 {
			return domain.ErrLineItemNotFound
		}
		return nil
	})
}

// Finalize moves a draft with at least one item to Submitted.
func (r *Repo) Finalize(ctx context.Context, quoteID uuid.UUID) (Quote, []LineItem, error) {
	return r.mutateLocked(ctx, quoteID, func(tx pgx.Tx, quote *Quote) error {
		var itemCount int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM quote_items WHERE quote_id = $1`, quoteID).Scan(&itemCount); err != nil {
			return persistence("count quote items", err)
		}

		next, err := quote.Status.Finalize(itemCount)
		if err != nil {
			return err
		}
		quote.Status = next
		return nil
	})
}

// SetDecision records an Approved or Rejected decision on a submitted quote.
func (r *Repo) SetDecision(ctx context.Context, quoteID uuid.UUID, target domain.Status) (Quote, []LineItem, error) {
	return r.mutateLocked(ctx, quoteID, func(tx pgx.Tx, quote *Quote) error {
		next, err := quote.Status.Decide(target)
		if err != nil {
			return err
		}
		quote.Status = next
		return nil
	})
}

// mutateLocked runs fn inside a transaction holding the quote row lock, then
// recomputes the cached total and reloads the item set before committing.
// This is the per-quote serialization point: concurrent writers queue on the
// row lock and re-validate against the state the previous writer left behind.
func (r *Repo) mutateLocked(ctx context.Context, quoteID uuid.UUID, fn func(tx pgx.Tx, quote *Quote) error) (Quote, []LineItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Quote{}, nil, persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	quote, err := scanQuote(tx.QueryRow(ctx, `
		SELECT id, client_id, user_id, address_id, status, total_cents, created_at, updated_at
		FROM quotes WHERE id = $1
		FOR UPDATE`, quoteID))
	if err != nil {
		return Quote{}, nil, err
	}

	if err := fn(tx, &quote); err != nil {
		return Quote{}, nil, err
	}

	// The cached total always equals the exact sum over the current items.
	if err := tx.QueryRow(ctx, `
		UPDATE quotes
		SET status = $2,
			total_cents = COALESCE((SELECT SUM(quantity * unit_price_cents) FROM quote_items WHERE quote_id = $1), 0),
			updated_at = now()
		WHERE id = $1
		RETURNING total_cents, updated_at`, quoteID, quote.Status,
	).Scan(&quote.TotalCents, &quote.UpdatedAt); err != nil {
		return Quote{}, nil, persistence("update quote", err)
	}

	items, err := loadItems(ctx, tx, quoteID)
	if err != nil {
		return Quote{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Quote{}, nil, persistence("commit", err)
	}
	return quote, items, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, quoteID uuid.UUID) ([]LineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT i.quote_id, i.service_id, s.name, i.quantity, i.unit_price_cents
		FROM quote_items i
		JOIN services s ON s.id = i.service_id
		WHERE i.quote_id = $1
		ORDER BY s.name`, quoteID)
	if err != nil {
		return nil, persistence("load quote items", err)
	}
	defer rows.Close()

	items := make([]LineItem, 0)
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.QuoteID, &item.ServiceID, &item.ServiceName, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, persistence("scan quote item", err)
		}
		item.SubtotalCents = int64(item.Quantity) * item.UnitPriceCents
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("load quote items", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (Quote, error) {
	var quote Quote
	var rawStatus string
	if err := row.Scan(
		&quote.ID, &quote.ClientID, &quote.UserID, &quote.AddressID,
		&rawStatus, &quote.TotalCents, &quote.CreatedAt, &quote.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, domain.ErrQuoteNotFound
		}
		return Quote{}, persistence("scan quote", err)
	}

	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return Quote{}, persistence("scan quote", fmt.Errorf("unknown status %q on quote %s", rawStatus, quote.ID))
	}
	quote.Status = status
	return quote, nil
}
