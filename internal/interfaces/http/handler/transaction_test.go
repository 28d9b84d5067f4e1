package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appledger "github.com/coupleledger/backend/internal/application/ledger"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedContext(t *testing.T, w *httptest.ResponseRecorder, f *handlerFixture, userID uuid.UUID, method, target string, body any) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Couple-ID", f.tenantID.String())
	req.Header.Set("X-User-ID", userID.String())
	c.Request = req

	return c
}

func registerTransaction(t *testing.T, f *handlerFixture, userID uuid.UUID, req RegisterTransactionRequest) appledger.TransactionResponse {
	t.Helper()

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, userID, http.MethodPost, "/transactions", req)
	f.transactionHandler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data appledger.TransactionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestTransactionHandlerRegisterExpense(t *testing.T) {
	f := newHandlerFixture()

	tx := registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID:   f.accountID,
		Type:        "EXPENSE",
		Amount:      45.50,
		Description: "Groceries",
	})

	assert.Equal(t, f.accountID, tx.AccountID)
	assert.Equal(t, f.userAID, tx.PaidByID)
	assert.True(t, f.account().CurrentBalance.Equal(decimal.NewFromFloat(-45.50)))
}

func TestTransactionHandlerRegisterFreeSpendingDrawsQuota(t *testing.T) {
	f := newHandlerFixture()

	registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID:      f.accountID,
		Type:           "EXPENSE",
		Amount:         50,
		IsFreeSpending: true,
	})

	assert.True(t, f.couple().QuotaA.Remaining.Equal(decimal.NewFromInt(150)))
}

func TestTransactionHandlerRegisterInsufficientQuota(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userBID, http.MethodPost, "/transactions", RegisterTransactionRequest{
		AccountID:      f.accountID,
		Type:           "EXPENSE",
		Amount:         151,
		IsFreeSpending: true,
	})
	f.transactionHandler.Register(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeInsufficientQuota, resp.Error.Code)
	// the payload carries the budget left for client display
	require.NotNil(t, resp.Error.Remaining)
	assert.Equal(t, "150.00", *resp.Error.Remaining)
	// account balance untouched on rejection
	assert.True(t, f.account().CurrentBalance.IsZero())
}

func TestTransactionHandlerRegisterPrivateDisallowed(t *testing.T) {
	f := newHandlerFixture()
	f.couple().AllowPrivateTransactions = false

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodPost, "/transactions", RegisterTransactionRequest{
		AccountID:  f.accountID,
		Type:       "EXPENSE",
		Amount:     20,
		Visibility: "PRIVATE",
	})
	f.transactionHandler.Register(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTransactionHandlerRegisterInvalidBody(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodPost, "/transactions", map[string]any{
		"account_id": f.accountID,
		"type":       "TRANSFER",
		"amount":     10,
	})
	f.transactionHandler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandlerRegisterMissingAuth(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(nil))
	f.transactionHandler.Register(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransactionHandlerGet(t *testing.T) {
	f := newHandlerFixture()
	created := registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID: f.accountID,
		Type:      "INCOME",
		Amount:    1000,
	})

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodGet, "/transactions/"+created.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	f.transactionHandler.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransactionHandlerGetNotFound(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	missing := uuid.New()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodGet, "/transactions/"+missing.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: missing.String()}}
	f.transactionHandler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandlerGetInvalidID(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodGet, "/transactions/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	f.transactionHandler.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandlerDeleteRestoresEffects(t *testing.T) {
	f := newHandlerFixture()
	created := registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID:      f.accountID,
		Type:           "EXPENSE",
		Amount:         30,
		IsFreeSpending: true,
	})
	require.True(t, f.couple().QuotaA.Remaining.Equal(decimal.NewFromInt(170)))

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodDelete, "/transactions/"+created.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	f.transactionHandler.Delete(c)
	// Direct handler invocation skips the engine's header flush, so the
	// recorder would otherwise keep its default 200 despite c.Status(204).
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, f.account().CurrentBalance.IsZero())
	assert.True(t, f.couple().QuotaA.Remaining.Equal(decimal.NewFromInt(200)))
}

func TestTransactionHandlerList(t *testing.T) {
	f := newHandlerFixture()
	registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID: f.accountID, Type: "EXPENSE", Amount: 10,
	})
	registerTransaction(t, f, f.userBID, RegisterTransactionRequest{
		AccountID: f.accountID, Type: "INCOME", Amount: 500,
	})

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodGet, "/transactions?page=1&page_size=20", nil)
	f.transactionHandler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestTransactionHandlerCreateInstallments(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodPost, "/transactions/installments", CreateInstallmentRequest{
		AccountID:         f.accountID,
		TotalAmount:       300,
		TotalInstallments: 3,
		FirstDate:         time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Description:       "New couch",
	})
	f.transactionHandler.CreateInstallments(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data appledger.InstallmentGroupResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Transactions, 3)
	for i, tx := range resp.Data.Transactions {
		require.NotNil(t, tx.InstallmentNumber)
		assert.Equal(t, i+1, *tx.InstallmentNumber)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(100)))
	}
	// group creation records dated rows without touching the balance
	assert.True(t, f.account().CurrentBalance.IsZero())
}

func TestTransactionHandlerCreateInstallmentsTooFew(t *testing.T) {
	f := newHandlerFixture()

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodPost, "/transactions/installments", CreateInstallmentRequest{
		AccountID:         f.accountID,
		TotalAmount:       300,
		TotalInstallments: 1,
		FirstDate:         time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	f.transactionHandler.CreateInstallments(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandlerUpdateThisOnly(t *testing.T) {
	f := newHandlerFixture()
	created := registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID:   f.accountID,
		Type:        "EXPENSE",
		Amount:      40,
		Description: "Dinner",
	})

	newDesc := "Dinner with friends"
	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodPatch, "/transactions/"+created.ID.String(), UpdateTransactionRequest{
		Scope:       "THIS_ONLY",
		Description: &newDesc,
	})
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	f.transactionHandler.Update(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data appledger.UpdateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, appledger.ScopeThisOnly, resp.Data.AppliedScope)
	require.Len(t, resp.Data.Transactions, 1)
	assert.Equal(t, newDesc, resp.Data.Transactions[0].Description)
}

func TestTransactionHandlerUpdateInvalidScope(t *testing.T) {
	f := newHandlerFixture()
	created := registerTransaction(t, f, f.userAID, RegisterTransactionRequest{
		AccountID: f.accountID,
		Type:      "EXPENSE",
		Amount:    40,
	})

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodPatch, "/transactions/"+created.ID.String(), map[string]any{
		"scope":       "EVERYTHING",
		"description": "x",
	})
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	f.transactionHandler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandlerRecurringGeneratedKeepsLink(t *testing.T) {
	f := newHandlerFixture()

	// simulate an engine-generated row
	templateID := uuid.New()
	tx, err := ledger.NewTransaction(f.tenantID, f.accountID, f.userAID, ledger.TransactionTypeExpense, decimal.NewFromInt(15), time.Time{})
	require.NoError(t, err)
	tx.WithDescription("Streaming")
	_, err = tx.WithRecurringTemplate(templateID)
	require.NoError(t, err)
	require.NoError(t, f.txs.Create(context.Background(), tx))

	w := httptest.NewRecorder()
	c := newAuthedContext(t, w, f, f.userAID, http.MethodGet, "/transactions/"+tx.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: tx.ID.String()}}
	f.transactionHandler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data appledger.TransactionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.RecurringTemplateID)
	assert.Equal(t, templateID, *resp.Data.RecurringTemplateID)
}
