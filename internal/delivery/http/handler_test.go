package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	delivery "github.com/williamsclintwayne/YourBank-backend/internal/delivery/http"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/artifactstore"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/memory"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/pdf"
	"github.com/williamsclintwayne/YourBank-backend/internal/infrastructure/qrgen"
	"github.com/williamsclintwayne/YourBank-backend/internal/txid"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/history"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/proof"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/transfer"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/verify"
)

type quietDispatcher struct{}

func (quietDispatcher) NotifyTransfer(context.Context, *entity.Account, *entity.Account, int64, string) error {
	return nil
}

type fixture struct {
	router http.Handler
	store  *memory.Store
	alice  *entity.Owner
	bob    *entity.Owner
	acctA  *entity.Account
	acctB  *entity.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	alice := entity.ReconstructOwner(uuid.New(), "Alice Smith", "alice@example.com")
	bob := entity.ReconstructOwner(uuid.New(), "Bob Jones", "bob@example.com")
	store.SeedOwner(alice)
	store.SeedOwner(bob)

	acctA := entity.NewAccount(alice.ID(), entity.AccountSavings, "1000000001", 100000, true)
	acctB := entity.NewAccount(bob.ID(), entity.AccountChecking, "1000000002", 0, true)
	store.SeedAccount(acctA)
	store.SeedAccount(acctB)

	files, err := artifactstore.NewFilesystem(afero.NewMemMapFs(), "artifacts")
	require.NoError(t, err)

	transferUC := transfer.NewEngine(store, txid.NewGenerator("YB"), quietDispatcher{}, logger)
	proofUC := proof.NewService(
		store, pdf.NewRenderer(), qrgen.NewGenerator(256), files,
		"YourBank", "https://bank.example.com", logger,
	)
	handler := delivery.NewHandler(transferUC, proofUC, verify.NewService(store, logger), history.NewService(store))

	return &fixture{
		router: delivery.NewRouter(handler),
		store:  store,
		alice:  alice, bob: bob, acctA: acctA, acctB: acctB,
	}
}

func (f *fixture) do(t *testing.T, method, target string, as *entity.Owner, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if as != nil {
		req.Header.Set("X-User-ID", as.ID().String())
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) pay(t *testing.T, amount int64, reference string) delivery.PaymentResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/payments", f.alice, delivery.PaymentRequest{
		FromAccountID:   f.acctA.ID().String(),
		ToAccountNumber: f.acctB.AccountNumber(),
		Amount:          amount,
		Reference:       reference,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp delivery.PaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandlePayment(t *testing.T) {
	f := newFixture(t)

	resp := f.pay(t, 25000, "rent")
	assert.Equal(t, int64(75000), resp.SenderBalance)
	assert.Equal(t, int64(25000), resp.BeneficiaryBalance)
	assert.NotEmpty(t, resp.DebitTransactionID)
	assert.NotEqual(t, resp.DebitTransactionID, resp.CreditTransactionID)
}

func TestHandlePayment_Failures(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  delivery.PaymentRequest
		code int
	}{
		{
			name: "insufficient funds",
			req: delivery.PaymentRequest{
				FromAccountID:   f.acctA.ID().String(),
				ToAccountNumber: f.acctB.AccountNumber(),
				Amount:          999999999,
				Reference:       "too much",
			},
			code: http.StatusBadRequest,
		},
		{
			name: "unknown beneficiary",
			req: delivery.PaymentRequest{
				FromAccountID:   f.acctA.ID().String(),
				ToAccountNumber: "9999999999",
				Amount:          1000,
				Reference:       "where",
			},
			code: http.StatusNotFound,
		},
		{
			name: "missing reference",
			req: delivery.PaymentRequest{
				FromAccountID:   f.acctA.ID().String(),
				ToAccountNumber: f.acctB.AccountNumber(),
				Amount:          1000,
			},
			code: http.StatusBadRequest,
		},
		{
			name: "bad account id",
			req: delivery.PaymentRequest{
				FromAccountID:   "not-a-uuid",
				ToAccountNumber: f.acctB.AccountNumber(),
				Amount:          1000,
				Reference:       "x",
			},
			code: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/payments", f.alice, tt.req)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/payments", nil, delivery.PaymentRequest{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/proof-of-payment/history", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/proof-of-payment/history", nil)
	req.Header.Set("X-User-ID", "garbage")
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestHandleGenerateProof(t *testing.T) {
	f := newFixture(t)
	payment := f.pay(t, 25000, "rent")

	rec := f.do(t, http.MethodPost, "/api/proof-of-payment/generate/"+payment.DebitTransactionID, f.alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp delivery.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, payment.DebitTransactionID, resp.TransactionID)
	assert.True(t, strings.HasSuffix(resp.FileName, ".pdf"))
	assert.Equal(t, "/api/proof-of-payment/download/"+payment.DebitTransactionID, resp.DownloadURL)
}

func TestHandleGenerateProof_Foreign(t *testing.T) {
	f := newFixture(t)
	payment := f.pay(t, 25000, "rent")

	rec := f.do(t, http.MethodPost, "/api/proof-of-payment/generate/"+payment.DebitTransactionID, f.bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The recipient owns the credit side.
	rec = f.do(t, http.MethodPost, "/api/proof-of-payment/generate/"+payment.CreditTransactionID, f.bob, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleGenerateProof_Unknown(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/proof-of-payment/generate/YB00000000XXXXXX", f.alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadAndView(t *testing.T) {
	f := newFixture(t)
	payment := f.pay(t, 25000, "rent")

	rec := f.do(t, http.MethodGet, "/api/proof-of-payment/download/"+payment.DebitTransactionID, f.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = f.do(t, http.MethodGet, "/api/proof-of-payment/view/"+payment.DebitTransactionID, f.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
}

func TestHandleProofStatus(t *testing.T) {
	f := newFixture(t)
	payment := f.pay(t, 25000, "rent")
	path := "/api/proof-of-payment/status/" + payment.DebitTransactionID

	rec := f.do(t, http.MethodGet, path, f.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status delivery.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.ProofGenerated)
	assert.True(t, status.CanGenerateProof)
	assert.Equal(t, "Completed", status.Status)

	f.do(t, http.MethodPost, "/api/proof-of-payment/generate/"+payment.DebitTransactionID, f.alice, nil)

	rec = f.do(t, http.MethodGet, path, f.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.ProofGenerated)
}

func TestHandleBulkGenerate(t *testing.T) {
	f := newFixture(t)
	payment := f.pay(t, 25000, "rent")

	rec := f.do(t, http.MethodPost, "/api/proof-of-payment/bulk-generate", f.alice, delivery.BulkRequest{
		TransactionIDs: []string{
			payment.DebitTransactionID,
			payment.CreditTransactionID, // Bob's side
			"YB00000000XXXXXX",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp delivery.BulkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.NotEmpty(t, resp.Results[0].FileName)
	assert.Empty(t, resp.Results[0].Error)
	assert.Equal(t, "access denied", resp.Results[1].Error)
	assert.Equal(t, "not found", resp.Results[2].Error)
}

func TestHandleBulkGenerate_Limit(t *testing.T) {
	f := newFixture(t)

	ids := make([]string, 11)
	for i := range ids {
		ids[i] = fmt.Sprintf("YB%08d", i)
	}
	rec := f.do(t, http.MethodPost, "/api/proof-of-payment/bulk-generate", f.alice,
		delivery.BulkRequest{TransactionIDs: ids})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/proof-of-payment/bulk-generate", f.alice,
		delivery.BulkRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	f := newFixture(t)
	f.pay(t, 1000, "one")
	f.pay(t, 2000, "two")
	f.pay(t, 3000, "three")

	rec := f.do(t, http.MethodGet, "/api/proof-of-payment/history?page=1&limit=2", f.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp delivery.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Transactions, 2)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 3, resp.TotalTransactions)
	for _, tx := range resp.Transactions {
		assert.Equal(t, "Debit", tx.Direction)
		assert.Equal(t, "1000000001", tx.AccountNumber)
	}
}

func TestHandleVerify_Public(t *testing.T) {
	f := newFixture(t)
	payment := f.pay(t, 25000, "rent")

	// No auth header needed.
	rec := f.do(t, http.MethodGet, "/api/verify/"+payment.DebitTransactionID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp delivery.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "Alice Smith", resp.SenderName)
	assert.Equal(t, int64(25000), resp.Amount)

	rec = f.do(t, http.MethodGet, "/api/verify/YB00000000XXXXXX", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = delivery.VerifyResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Empty(t, resp.TransactionID)
}
