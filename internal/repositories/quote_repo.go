package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workero/internal/common"
	"workero/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type QuoteRepository interface {
	List(ctx context.Context, companyID uuid.UUID, filter *models.QuoteSearchFilter) ([]*models.Quote, int64, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Quote, error)
	Create(ctx context.Context, quote *models.Quote, items []*models.QuoteItem) error
	Update(ctx context.Context, quote *models.Quote, expected models.QuoteStatus, replaceItems bool) error
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, from []models.QuoteStatus, to models.QuoteStatus) (bool, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type quoteRepo struct {
	db Database
}

func NewQuoteRepository(db Database) QuoteRepository {
	return &quoteRepo{db: db}
}

// quoteSortColumns whitelists sortBy values to stored columns.
var quoteSortColumns = map[string]string{
	"created_at":    "q.created_at",
	"updated_at":    "q.updated_at",
	"valid_until":   "q.valid_until",
	"status":        "q.status",
	"subtotal":      "q.subtotal",
	"tax_amount":    "q.tax_amount",
	"total":         "q.total",
	"profit_margin": "q.profit_margin",
}

const quoteColumns = `q.id, q.company_id, q.client_id, q.subtotal, q.tax_amount, q.total, q.profit_margin, q.status, q.valid_until, q.notes, q.created_at, q.updated_at`

const clientColumns = `c.id, c.company_id, c.name, c.email, c.phone, c.address, c.notes, c.created_at, c.updated_at`

func scanQuoteWithClient(row pgx.Row) (*models.Quote, error) {
	quote := &models.Quote{Client: &models.Client{}}
	err := row.Scan(
		&quote.ID, &quote.CompanyID, &quote.ClientID, &quote.Subtotal, &quote.TaxAmount, &quote.Total,
		&quote.ProfitMargin, &quote.Status, &quote.ValidUntil, &quote.Notes, &quote.CreatedAt, &quote.UpdatedAt,
		&quote.Client.ID, &quote.Client.CompanyID, &quote.Client.Name, &quote.Client.Email, &quote.Client.Phone,
		&quote.Client.Address, &quote.Client.Notes, &quote.Client.CreatedAt, &quote.Client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// buildQuoteFilter renders the WHERE tail shared by the page and count
// queries. companyID is always $1.
func buildQuoteFilter(companyID uuid.UUID, filter *models.QuoteSearchFilter) (string, []any) {
	conditions := []string{"q.company_id = $1"}
	args := []any{companyID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("q.status = $%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conditions = append(conditions, fmt.Sprintf("q.client_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.email ILIKE $%d OR q.notes ILIKE $%d)", n, n, n))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *quoteRepo) List(ctx context.Context, companyID uuid.UUID, filter *models.QuoteSearchFilter) ([]*models.Quote, int64, error) {
	if filter == nil {
		filter = &models.QuoteSearchFilter{}
	}
	page, limit := common.ValidatePaginationParams(filter.Page, filter.Limit)

	where, args := buildQuoteFilter(companyID, filter)

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM quotes q
		JOIN clients c ON c.id = q.client_id AND c.company_id = q.company_id
		WHERE %s
	`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := quoteSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "q.created_at"
	}
	direction := common.ValidateSortDirection(filter.SortDirection)

	pageArgs := append(args, limit, (page-1)*limit)
	pageQuery := fmt.Sprintf(`
		SELECT %s, %s
		FROM quotes q
		JOIN clients c ON c.id = q.client_id AND c.company_id = q.company_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, quoteColumns, clientColumns, where, sortColumn, direction, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotes := []*models.Quote{}
	for rows.Next() {
		quote, err := scanQuoteWithClient(rows)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadItems(ctx, quotes); err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *quoteRepo) loadItems(ctx context.Context, quotes []*models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(quotes))
	byID := make(map[uuid.UUID]*models.Quote, len(quotes))
	for _, quote := range quotes {
		ids = append(ids, quote.ID)
		byID[quote.ID] = quote
	}

	query := `
		SELECT id, quote_id, description, quantity, unit_price, tax_rate, line_total, created_at, updated_at
		FROM quote_items
		WHERE quote_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.QuoteItem{}
		if err := rows.Scan(&item.ID, &item.QuoteID, &item.Description, &item.Quantity, &item.UnitPrice, &item.TaxRate, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return err
		}
		if quote, ok := byID[item.QuoteID]; ok {
			quote.Items = append(quote.Items, item)
		}
	}
	return rows.Err()
}

func (r *quoteRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Quote, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM quotes q
		JOIN clients c ON c.id = q.client_id AND c.company_id = q.company_id
		WHERE q.company_id = $1 AND q.id = $2
	`, quoteColumns, clientColumns)

	quote, err := scanQuoteWithClient(r.db.QueryRow(ctx, query, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("quote")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*models.Quote{quote}); err != nil {
		return nil, err
	}
	return quote, nil
}

// Create inserts the quote and its items in one transaction.
func (r *quoteRepo) Create(ctx context.Context, quote *models.Quote, items []*models.QuoteItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quotes (id, company_id, client_id, subtotal, tax_amount, total, profit_margin, status, valid_until, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, quote.ID, quote.CompanyID, quote.ClientID, quote.Subtotal, quote.TaxAmount, quote.Total, quote.ProfitMargin, string(quote.Status), quote.ValidUntil, quote.Notes)
	if err != nil {
		return err
	}

	if err := insertQuoteItems(ctx, tx, items); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertQuoteItems(ctx context.Context, tx pgx.Tx, items []*models.QuoteItem) error {
	query := `
		INSERT INTO quote_items (id, quote_id, description, quantity, unit_price, tax_rate, line_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, query, item.ID, item.QuoteID, item.Description, item.Quantity, item.UnitPrice, item.TaxRate, item.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

// Update writes the quote's mutable fields and, when replaceItems is
// set, swaps the full item set, all in one transaction. The status is
// re-read under a row lock and compared against expected, the status
// the caller based its guards on, so a transition committed between
// the caller's read and this write is never overwritten.
func (r *quoteRepo) Update(ctx context.Context, quote *models.Quote, expected models.QuoteStatus, replaceItems bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var current models.QuoteStatus
	err = tx.QueryRow(ctx, `SELECT status FROM quotes WHERE company_id = $1 AND id = $2 FOR UPDATE`, quote.CompanyID, quote.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewNotFoundError("quote")
	}
	if err != nil {
		return err
	}
	if !current.Mutable() {
		return common.NewConflictError("Cannot update accepted or rejected quotes")
	}
	if current != expected {
		return common.NewConflictError("Quote was modified by another request")
	}

	query := `
		UPDATE quotes
		SET subtotal = $1, tax_amount = $2, total = $3, profit_margin = $4, status = $5, valid_until = $6, notes = $7, updated_at = NOW()
		WHERE company_id = $8 AND id = $9
	`
	_, err = tx.Exec(ctx, query, quote.Subtotal, quote.TaxAmount, quote.Total, quote.ProfitMargin, string(quote.Status), quote.ValidUntil, quote.Notes, quote.CompanyID, quote.ID)
	if err != nil {
		return err
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quote.ID); err != nil {
			return err
		}
		if err := insertQuoteItems(ctx, tx, quote.Items); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateStatus applies a compare-and-swap transition. It reports false
// when the quote no longer holds any of the expected statuses, which is
// how a losing concurrent transition shows up.
func (r *quoteRepo) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, from []models.QuoteStatus, to models.QuoteStatus) (bool, error) {
	fromValues := make([]string, len(from))
	for i, s := range from {
		fromValues[i] = string(s)
	}
	query := `
		UPDATE quotes
		SET status = $1, updated_at = NOW()
		WHERE company_id = $2 AND id = $3 AND status = ANY($4)
	`
	tag, err := r.db.Exec(ctx, query, string(to), companyID, id, fromValues)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the quote and its items. Items go first so no orphans
// survive a partial failure.
func (r *quoteRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM quote_items
		WHERE quote_id IN (SELECT id FROM quotes WHERE company_id = $1 AND id = $2)
	`, companyID, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM quotes WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("quote")
	}
	return tx.Commit(ctx)
}
