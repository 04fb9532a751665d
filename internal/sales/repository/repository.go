package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	quotesdomain "orcamento_backend/internal/quotes/domain"
	"orcamento_backend/internal/sales/domain"
	"orcamento_backend/platform/apperr"
)

const persistenceFailureMessage = "persistence failure"

// Repo implements the sales repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sales repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func persistence(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, persistenceFailureMessage, fmt.Errorf("%s: %w", op, err))
}

// Convert settles an approved quote into an immutable sale. Everything runs
// under the quote row lock so a concurrent conversion of the same quote
// blocks, re-reads the settled state and fails the status guard.
func (r *Repo) Convert(ctx context.Context, quoteID, userID uuid.UUID) (Sale, []SaleItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sale{}, nil, persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var (
		clientID   uuid.UUID
		rawStatus  string
		totalCents int64
	)
	err = tx.QueryRow(ctx, `
		SELECT client_id, status, total_cents
		FROM quotes WHERE id = $1
		FOR UPDATE`, quoteID).Scan(&clientID, &rawStatus, &totalCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, nil, quotesdomain.ErrQuoteNotFound
		}
		return Sale{}, nil, persistence("lock quote", err)
	}

	var existing int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE quote_id = $1`, quoteID).Scan(&existing); err != nil {
		return Sale{}, nil, persistence("check existing sale", err)
	}
	if existing > 0 {
		return Sale{}, nil, domain.ErrAlreadyConverted
	}

	status, ok := quotesdomain.ParseStatus(rawStatus)
	if !ok {
		return Sale{}, nil, persistence("lock quote", fmt.Errorf("unknown status %q on quote %s", rawStatus, quoteID))
	}
	if _, err := status.Settle(); err != nil {
		return Sale{}, nil, err
	}

	code, err := nextSaleCode(ctx, tx)
	if err != nil {
		return Sale{}, nil, err
	}

	sale := Sale{
		ID:         uuid.New(),
		Code:       code,
		QuoteID:    quoteID,
		ClientID:   clientID,
		UserID:     userID,
		TotalCents: totalCents,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (id, code, quote_id, client_id, user_id, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		sale.ID, sale.Code, sale.QuoteID, sale.ClientID, sale.UserID, sale.TotalCents,
	).Scan(&sale.CreatedAt)
	if err != nil {
		return Sale{}, nil, persistence("insert sale", err)
	}

	// The service name is frozen alongside price and quantity so later
	// catalog edits never leak into the sale.
	_, err = tx.Exec(ctx, `
		INSERT INTO sale_items (sale_id, service_id, service_name, quantity, unit_price_cents)
		SELECT $1, i.service_id, s.name, i.quantity, i.unit_price_cents
		FROM quote_items i
		JOIN services s ON s.id = i.service_id
		WHERE i.quote_id = $2`, sale.ID, quoteID)
	if err != nil {
		return Sale{}, nil, persistence("copy sale items", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE quotes SET status = $2, updated_at = now()
		WHERE id = $1`, quoteID, quotesdomain.StatusSettled); err != nil {
		return Sale{}, nil, persistence("settle quote", err)
	}

	items, err := loadItems(ctx, tx, sale.ID)
	if err != nil {
		return Sale{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Sale{}, nil, persistence("commit", err)
	}
	return sale, items, nil
}

// nextSaleCode draws the next number from the per-database sequence and
// formats it as SO-<year>-<seq>.
func nextSaleCode(ctx context.Context, tx pgx.Tx) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('sale_code_seq')`).Scan(&seq); err != nil {
		return "", persistence("next sale code", err)
	}
	return formatSaleCode(time.Now().Year(), seq), nil
}

// formatSaleCode pads the sequence to four digits; larger numbers widen.
func formatSaleCode(year int, seq int64) string {
	return fmt.Sprintf("SO-%d-%04d", year, seq)
}

// GetByID loads a sale with its frozen item snapshot.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Sale, []SaleItem, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx, `
		SELECT id, code, quote_id, client_id, user_id, total_cents, created_at
		FROM sales WHERE id = $1`, id))
	if err != nil {
		return Sale{}, nil, err
	}

	items, err := loadItems(ctx, r.pool, id)
	if err != nil {
		return Sale{}, nil, err
	}
	return sale, items, nil
}

// List returns sales newest first with their items keyed by sale id.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Sale, map[uuid.UUID][]SaleItem, int, error) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1
	if params.ClientID != nil {
		where += fmt.Sprintf(" AND client_id = $%d", argIdx)
		args = append(args, *params.ClientID)
		argIdx++
	}
	if params.QuoteID != nil {
		where += fmt.Sprintf(" AND quote_id = $%d", argIdx)
		args = append(args, *params.QuoteID)
		argIdx++
	}
	if params.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		where += fmt.Sprintf(" AND created_at < $%d", argIdx)
		args = append(args, *params.To)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales WHERE "+where, args...).Scan(&total); err != nil {
		return nil, nil, 0, persistence("count sales", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, code, quote_id, client_id, user_id, total_cents, created_at
		FROM sales WHERE %s
		ORDER BY created_at DESC
		OFFSET $%d LIMIT $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Offset, params.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, nil, 0, persistence("list sales", err)
	}
	defer rows.Close()

	var sales []Sale
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, nil, 0, err
		}
		sales = append(sales, sale)
		ids = append(ids, sale.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, persistence("list sales", err)
	}

	itemsBySale := make(map[uuid.UUID][]SaleItem, len(ids))
	if len(ids) > 0 {
		itemRows, err := r.pool.Query(ctx, `
			SELECT sale_id, service_id, service_name, quantity, unit_price_cents
			FROM sale_items
			WHERE sale_id = ANY($1)
			ORDER BY service_name`, ids)
		if err != nil {
			return nil, nil, 0, persistence("list sale items", err)
		}
		defer itemRows.Close()

		for itemRows.Next() {
			var item SaleItem
			if err := itemRows.Scan(&item.SaleID, &item.ServiceID, &item.ServiceName, &item.Quantity, &item.UnitPriceCents); err != nil {
				return nil, nil, 0, persistence("scan sale item", err)
			}
			item.SubtotalCents = int64(item.Quantity) * item.UnitPriceCents
			itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, nil, 0, persistence("list sale items", err)
		}
	}

	return sales, itemsBySale, total, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, saleID uuid.UUID) ([]SaleItem, error) {
	rows, err := q.Query(ctx, `
		SELECT sale_id, service_id, service_name, quantity, unit_price_cents
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY service_name`, saleID)
	if err != nil {
		return nil, persistence("load sale items", err)
	}
	defer rows.Close()

	items := make([]SaleItem, 0)
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.SaleID, &item.ServiceID, &item.ServiceName, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, persistence("scan sale item", err)
		}
		item.SubtotalCents = int64(item.Quantity) * item.UnitPriceCents
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("load sale items", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (Sale, error) {
	var sale Sale
	if err := row.Scan(
		&sale.ID, &sale.Code, &sale.QuoteID, &sale.ClientID,
		&sale.UserID, &sale.TotalCents, &sale.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, domain.ErrSaleNotFound
		}
		return Sale{}, persistence("scan sale", err)
	}
	return sale, nil
}
