package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"workero/internal/common"
	"workero/internal/models"
)

type QuoteRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       QuoteRepository
	companyID1 uuid.UUID
	companyID2 uuid.UUID
	clientID   uuid.UUID
	quoteID    uuid.UUID
	context    context.Context
}

func (suite *QuoteRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewQuoteRepository(mock)
	suite.companyID1 = uuid.New()
	suite.companyID2 = uuid.New()
	suite.clientID = uuid.New()
	suite.quoteID = uuid.New()
	suite.context = context.Background()
}

func (suite *QuoteRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestQuoteRepoTestSuite(t *testing.T) {
	suite.Run(t, new(QuoteRepoTestSuite))
}

func stringPtr(s string) *string {
	return &s
}

var quoteRowColumns = []string{
	"id", "company_id", "client_id", "subtotal", "tax_amount", "total",
	"profit_margin", "status", "valid_until", "notes", "created_at", "updated_at",
	"c_id", "c_company_id", "c_name", "c_email", "c_phone", "c_address",
	"c_notes", "c_created_at", "c_updated_at",
}

func (suite *QuoteRepoTestSuite) quoteRow(status models.QuoteStatus) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(quoteRowColumns).AddRow(
		suite.quoteID, suite.companyID1, suite.clientID,
		decimal.NewFromInt(120), decimal.NewFromInt(10), decimal.NewFromInt(130),
		decimal.Zero, status, now.AddDate(0, 1, 0), stringPtr("replace water heater"), now, now,
		suite.clientID, suite.companyID1, "Acme Corp", stringPtr("acme@example.com"), stringPtr("+3161234567"),
		models.Address{"city": "Amsterdam"}, (*string)(nil), now, now,
	)
}

func (suite *QuoteRepoTestSuite) itemRows() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "quote_id", "description", "quantity", "unit_price", "tax_rate", "line_total", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.quoteID, "Labor", decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.NewFromInt(10), decimal.NewFromInt(100), now, now).
		AddRow(uuid.New(), suite.quoteID, "Parts", decimal.NewFromInt(1), decimal.NewFromInt(20), decimal.Zero, decimal.NewFromInt(20), now, now)
}

func (suite *QuoteRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(`SELECT .+ FROM quotes q`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnRows(suite.quoteRow(models.QuoteStatusSent))
	suite.mock.ExpectQuery(`FROM quote_items`).
		WithArgs([]uuid.UUID{suite.quoteID}).
		WillReturnRows(suite.itemRows())

	quote, err := suite.repo.GetByID(suite.context, suite.companyID1, suite.quoteID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.quoteID, quote.ID)
	assert.Equal(suite.T(), models.QuoteStatusSent, quote.Status)
	assert.Equal(suite.T(), "Acme Corp", quote.Client.Name)
	assert.Len(suite.T(), quote.Items, 2)
	assert.True(suite.T(), quote.Total.Equal(decimal.NewFromInt(130)))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestGetByID_OtherCompanyIsNotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM quotes q`).
		WithArgs(suite.companyID2, suite.quoteID).
		WillReturnRows(pgxmock.NewRows(quoteRowColumns))

	quote, err := suite.repo.GetByID(suite.context, suite.companyID2, suite.quoteID)
	assert.Nil(suite.T(), quote)
	assert.True(suite.T(), common.IsNotFound(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestList_WithSearchFilter() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(suite.companyID1, "%acme%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	suite.mock.ExpectQuery(`SELECT .+ FROM quotes q`).
		WithArgs(suite.companyID1, "%acme%", 10, 0).
		WillReturnRows(suite.quoteRow(models.QuoteStatusDraft))
	suite.mock.ExpectQuery(`FROM quote_items`).
		WithArgs([]uuid.UUID{suite.quoteID}).
		WillReturnRows(suite.itemRows())

	quotes, total, err := suite.repo.List(suite.context, suite.companyID1, &models.QuoteSearchFilter{Search: "acme"})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), quotes, 1)
	assert.Len(suite.T(), quotes[0].Items, 2)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestList_StatusAndClientFilter() {
	status := models.QuoteStatusSent
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(suite.companyID1, "sent", suite.clientID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	suite.mock.ExpectQuery(`SELECT .+ FROM quotes q`).
		WithArgs(suite.companyID1, "sent", suite.clientID, 10, 0).
		WillReturnRows(pgxmock.NewRows(quoteRowColumns))

	quotes, total, err := suite.repo.List(suite.context, suite.companyID1, &models.QuoteSearchFilter{
		Status:   &status,
		ClientID: &suite.clientID,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)
	// An empty page must serialize as [] rather than null.
	assert.NotNil(suite.T(), quotes)
	assert.Empty(suite.T(), quotes)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestUpdateStatus_CASWins() {
	suite.mock.ExpectExec(`UPDATE quotes`).
		WithArgs("accepted", suite.companyID1, suite.quoteID, []string{"sent"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := suite.repo.UpdateStatus(suite.context, suite.companyID1, suite.quoteID,
		[]models.QuoteStatus{models.QuoteStatusSent}, models.QuoteStatusAccepted)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestUpdateStatus_CASLoses() {
	suite.mock.ExpectExec(`UPDATE quotes`).
		WithArgs("accepted", suite.companyID1, suite.quoteID, []string{"sent"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := suite.repo.UpdateStatus(suite.context, suite.companyID1, suite.quoteID,
		[]models.QuoteStatus{models.QuoteStatusSent}, models.QuoteStatusAccepted)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestCreate_InsertsQuoteAndItemsInOneTransaction() {
	notes := "replace water heater"
	quote := &models.Quote{
		ID:         suite.quoteID,
		CompanyID:  suite.companyID1,
		ClientID:   suite.clientID,
		Subtotal:   decimal.NewFromInt(120),
		TaxAmount:  decimal.NewFromInt(10),
		Total:      decimal.NewFromInt(130),
		Status:     models.QuoteStatusDraft,
		ValidUntil: time.Now().AddDate(0, 1, 0),
		Notes:      &notes,
	}
	item := &models.QuoteItem{
		ID:        uuid.New(),
		QuoteID:   suite.quoteID,
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(50),
		TaxRate:   decimal.NewFromInt(10),
		LineTotal: decimal.NewFromInt(100),
	}
	item.Description = "Labor"

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO quotes`).
		WithArgs(quote.ID, quote.CompanyID, quote.ClientID, quote.Subtotal, quote.TaxAmount, quote.Total,
			quote.ProfitMargin, "draft", quote.ValidUntil, quote.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO quote_items`).
		WithArgs(item.ID, item.QuoteID, item.Description, item.Quantity, item.UnitPrice, item.TaxRate, item.LineTotal).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, quote, []*models.QuoteItem{item})
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestUpdate_LockedRowNoLongerMutable() {
	quote := &models.Quote{ID: suite.quoteID, CompanyID: suite.companyID1, Status: models.QuoteStatusSent}

	suite.mock.ExpectBegin()
	// Another transaction accepted the quote between the service's read
	// and this write.
	suite.mock.ExpectQuery(`SELECT status FROM quotes .+ FOR UPDATE`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.QuoteStatusAccepted))
	suite.mock.ExpectRollback()

	err := suite.repo.Update(suite.context, quote, models.QuoteStatusSent, false)
	assert.True(suite.T(), common.IsConflict(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestUpdate_DoesNotRevertConcurrentTransition() {
	// The caller read the quote as draft; a concurrent send committed
	// sent before this transaction took the row lock. Writing the stale
	// draft status would silently undo that transition, so the write
	// must fail instead of reaching the UPDATE.
	quote := &models.Quote{ID: suite.quoteID, CompanyID: suite.companyID1, Status: models.QuoteStatusDraft}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT status FROM quotes .+ FOR UPDATE`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.QuoteStatusSent))
	suite.mock.ExpectRollback()

	err := suite.repo.Update(suite.context, quote, models.QuoteStatusDraft, false)
	assert.True(suite.T(), common.IsConflict(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestUpdate_WritesWhenStatusUnchanged() {
	notes := "updated notes"
	quote := &models.Quote{
		ID:         suite.quoteID,
		CompanyID:  suite.companyID1,
		Subtotal:   decimal.NewFromInt(120),
		TaxAmount:  decimal.NewFromInt(10),
		Total:      decimal.NewFromInt(130),
		Status:     models.QuoteStatusDraft,
		ValidUntil: time.Now().AddDate(0, 1, 0),
		Notes:      &notes,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT status FROM quotes .+ FOR UPDATE`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.QuoteStatusDraft))
	suite.mock.ExpectExec(`UPDATE quotes`).
		WithArgs(quote.Subtotal, quote.TaxAmount, quote.Total, quote.ProfitMargin, "draft",
			quote.ValidUntil, quote.Notes, quote.CompanyID, quote.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Update(suite.context, quote, models.QuoteStatusDraft, false)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestDelete_RemovesItemsFirst() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM quote_items`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	suite.mock.ExpectExec(`DELETE FROM quotes`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Delete(suite.context, suite.companyID1, suite.quoteID)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *QuoteRepoTestSuite) TestDelete_MissingQuoteIsNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM quote_items`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectExec(`DELETE FROM quotes`).
		WithArgs(suite.companyID1, suite.quoteID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.Delete(suite.context, suite.companyID1, suite.quoteID)
	assert.True(suite.T(), common.IsNotFound(err))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
