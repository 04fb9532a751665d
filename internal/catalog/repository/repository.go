package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/catalog/domain"
	"orcamento_backend/platform/apperr"
)

const (
	persistenceFailureMessage = "persistence failure"
	uniqueViolationCode       = "23505"
)

// Repo implements the catalog repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func persistence(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, persistenceFailureMessage, fmt.Errorf("%s: %w", op, err))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// ── Services ──────────────────────────────────────────────────────────────────

func (r *Repo) CreateService(ctx context.Context, svc *Service) error {
	query := `
		INSERT INTO services (id, name, description, unit_price_cents, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		svc.ID, svc.Name, svc.Description, svc.UnitPriceCents, svc.Active,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrServiceNameTaken
		}
		return persistence("create service", err)
	}
	return nil
}

func (r *Repo) UpdateService(ctx context.Context, svc *Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, unit_price_cents = $4, active = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		svc.ID, svc.Name, svc.Description, svc.UnitPriceCents, svc.Active,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrServiceNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrServiceNameTaken
		}
		return persistence("update service", err)
	}
	return nil
}

// DeleteService removes a service unless quote or sale items reference it.
// Price history on existing quotes and sales is frozen, so dropping an unused
// service never rewrites past totals.
func (r *Repo) DeleteService(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var referenced bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM quote_items WHERE service_id = $1)
			OR EXISTS (SELECT 1 FROM sale_items WHERE service_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return persistence("check service references", err)
	}
	if referenced {
		return domain.ErrServiceInUse
	}

	result, err := tx.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return persistence("delete service", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence("commit", err)
	}
	return nil
}

func (r *Repo) GetService(ctx context.Context, id uuid.UUID) (Service, error) {
	var svc Service
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, unit_price_cents, active, created_at, updated_at
		FROM services WHERE id = $1`, id,
	).Scan(&svc.ID, &svc.Name, &svc.Description, &svc.UnitPriceCents, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Service{}, domain.ErrServiceNotFound
		}
		return Service{}, persistence("get service", err)
	}
	return svc, nil
}

func (r *Repo) ListServices(ctx context.Context, params ListServicesParams) ([]Service, error) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1
	if params.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.ActiveOnly {
		where += " AND active"
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, name, description, unit_price_cents, active, created_at, updated_at
		FROM services WHERE %s
		ORDER BY name`, where), args...)
	if err != nil {
		return nil, persistence("list services", err)
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.UnitPriceCents, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
			return nil, persistence("scan service", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list services", err)
	}
	return services, nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (r *Repo) CreateClient(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, document)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		client.ID, client.Name, client.Email, client.Phone, client.Document,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return persistence("create client", err)
	}
	return nil
}

func (r *Repo) UpdateClient(ctx context.Context, client *Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, document = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		client.ID, client.Name, client.Email, client.Phone, client.Document,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrClientNotFound
		}
		return persistence("update client", err)
	}
	return nil
}

// DeleteClient removes a client and its addresses unless quotes exist.
func (r *Repo) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var hasQuotes bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE client_id = $1)`, id).Scan(&hasQuotes); err != nil {
		return persistence("check client quotes", err)
	}
	if hasQuotes {
		return domain.ErrClientHasQuotes
	}

	if _, err := tx.Exec(ctx, `DELETE FROM addresses WHERE client_id = $1`, id); err != nil {
		return persistence("delete client addresses", err)
	}
	result, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return persistence("delete client", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence("commit", err)
	}
	return nil
}

func (r *Repo) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	var client Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, document, created_at, updated_at
		FROM clients WHERE id = $1`, id,
	).Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, domain.ErrClientNotFound
		}
		return Client{}, persistence("get client", err)
	}
	return client, nil
}

func (r *Repo) ListClients(ctx context.Context, params ListClientsParams) ([]Client, int, error) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1
	if params.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM clients WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, persistence("count clients", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name, email, phone, document, created_at, updated_at
		FROM clients WHERE %s
		ORDER BY name
		OFFSET $%d LIMIT $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Offset, params.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, persistence("list clients", err)
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Document, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, 0, persistence("scan client", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, persistence("list clients", err)
	}
	return clients, total, nil
}

// ── Addresses ─────────────────────────────────────────────────────────────────

func (r *Repo) CreateAddress(ctx context.Context, addr *Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("begin tx", err)
	}
	defer tx.Rollback(ctx)

	// A client has at most one default address.
	if addr.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE client_id = $1 AND is_default`,
			addr.ClientID,
		); err != nil {
			return persistence("clear default address", err)
		}
	}

	query := `
		INSERT INTO addresses (id, client_id, street, number, complement, district, city, state, postal_code, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err = tx.QueryRow(ctx, query,
		addr.ID, addr.ClientID, addr.Street, addr.Number, addr.Complement,
		addr.District, addr.City, addr.State, addr.PostalCode, addr.IsDefault,
	).Scan(&addr.CreatedAt)
	if err != nil {
		return persistence("create address", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence("commit", err)
	}
	return nil
}

func (r *Repo) UpdateAddress(ctx context.Context, addr *Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if addr.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE client_id = $1 AND id <> $2 AND is_default`,
			addr.ClientID, addr.ID,
		); err != nil {
			return persistence("clear default address", err)
		}
	}

	query := `
		UPDATE addresses
		SET street = $3, number = $4, complement = $5, district = $6, city = $7, state = $8, postal_code = $9, is_default = $10
		WHERE id = $1 AND client_id = $2
		RETURNING created_at`

	err = tx.QueryRow(ctx, query,
		addr.ID, addr.ClientID, addr.Street, addr.Number, addr.Complement,
		addr.District, addr.City, addr.State, addr.PostalCode, addr.IsDefault,
	).Scan(&addr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAddressNotFound
		}
		return persistence("update address", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence("commit", err)
	}
	return nil
}

func (r *Repo) DeleteAddress(ctx context.Context, clientID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return persistence("delete address", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}

func (r *Repo) ListAddresses(ctx context.Context, clientID uuid.UUID) ([]Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, street, number, complement, district, city, state, postal_code, is_default, created_at
		FROM addresses WHERE client_id = $1
		ORDER BY is_default DESC, created_at`, clientID)
	if err != nil {
		return nil, persistence("list addresses", err)
	}
	defer rows.Close()

	addresses := make([]Address, 0)
	for rows.Next() {
		var addr Address
		if err := rows.Scan(&addr.ID, &addr.ClientID, &addr.Street, &addr.Number, &addr.Complement,
			&addr.District, &addr.City, &addr.State, &addr.PostalCode, &addr.IsDefault, &addr.CreatedAt); err != nil {
			return nil, persistence("scan address", err)
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list addresses", err)
	}
	return addresses, nil
}

// ── Companies ─────────────────────────────────────────────────────────────────

const companyColumns = `id, name, cnpj, phone, email, address, logo_url, created_at, updated_at`

func (r *Repo) CreateCompany(ctx context.Context, company *Company) error {
	query := `
		INSERT INTO companies (id, name, cnpj, phone, email, address, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		company.ID, company.Name, company.CNPJ, company.Phone, company.Email,
		company.Address, company.LogoURL,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCompanyCNPJTaken
		}
		return persistence("create company", err)
	}
	return nil
}

func (r *Repo) UpdateCompany(ctx context.Context, company *Company) error {
	query := `
		UPDATE companies
		SET name = $2, cnpj = $3, phone = $4, email = $5, address = $6, logo_url = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		company.ID, company.Name, company.CNPJ, company.Phone, company.Email,
		company.Address, company.LogoURL,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCompanyNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrCompanyCNPJTaken
		}
		return persistence("update company", err)
	}
	return nil
}

func (r *Repo) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return persistence("delete company", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func (r *Repo) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, domain.ErrCompanyNotFound
		}
		return Company{}, persistence("get company", err)
	}
	return company, nil
}

func (r *Repo) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, persistence("list companies", err)
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, persistence("scan company", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list companies", err)
	}
	return companies, nil
}

func (r *Repo) DefaultCompany(ctx context.Context) (Company, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at LIMIT 1`)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, false, nil
		}
		return Company{}, false, persistence("default company", err)
	}
	return company, true, nil
}

func scanCompany(row pgx.Row) (Company, error) {
	var company Company
	err := row.Scan(&company.ID, &company.Name, &company.CNPJ, &company.Phone, &company.Email,
		&company.Address, &company.LogoURL, &company.CreatedAt, &company.UpdatedAt)
	return company, err
}
