package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/entity"
	"github.com/williamsclintwayne/YourBank-backend/internal/domain/repository"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/history"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/proof"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/transfer"
	"github.com/williamsclintwayne/YourBank-backend/internal/usecase/verify"
)

// userHeader carries the authenticated caller's owner id. Authentication
// itself happens upstream; this service only trusts the header.
const userHeader = "X-User-ID"

type Handler struct {
	transferUC *transfer.Engine
	proofUC    *proof.Service
	verifyUC   *verify.Service
	historyUC  *history.Service
}

func NewHandler(
	transferUC *transfer.Engine,
	proofUC *proof.Service,
	verifyUC *verify.Service,
	historyUC *history.Service,
) *Handler {
	return &Handler{
		transferUC: transferUC,
		proofUC:    proofUC,
		verifyUC:   verifyUC,
		historyUC:  historyUC,
	}
}

type PaymentRequest struct {
	FromAccountID   string `json:"fromAccountId"`
	ToAccountNumber string `json:"toAccountNumber"`
	Amount          int64  `json:"amount"`
	Reference       string `json:"reference"`
}

type PaymentResponse struct {
	DebitTransactionID  string `json:"debitTransactionId"`
	CreditTransactionID string `json:"creditTransactionId"`
	SenderBalance       int64  `json:"senderBalance"`
	BeneficiaryBalance  int64  `json:"beneficiaryBalance"`
}

func (h *Handler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	fromID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fromAccountId")
		return
	}

	res, err := h.transferUC.Execute(r.Context(), transfer.Request{
		FromAccountID:   fromID,
		ToAccountNumber: req.ToAccountNumber,
		Amount:          req.Amount,
		Reference:       req.Reference,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PaymentResponse{
		DebitTransactionID:  res.DebitTransactionID,
		CreditTransactionID: res.CreditTransactionID,
		SenderBalance:       res.SenderBalance,
		BeneficiaryBalance:  res.BeneficiaryBalance,
	})
}

type GenerateResponse struct {
	TransactionID string `json:"transactionId"`
	FileName      string `json:"fileName"`
	DownloadURL   string `json:"downloadUrl"`
}

func (h *Handler) HandleGenerateProof(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := h.authorizedTransaction(w, r)
	if !ok {
		return
	}

	rendered, err := h.proofUC.Render(r.Context(), transactionID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, GenerateResponse{
		TransactionID: transactionID,
		FileName:      rendered.FileName,
		DownloadURL:   "/api/proof-of-payment/download/" + transactionID,
	})
}

func (h *Handler) HandleDownloadProof(w http.ResponseWriter, r *http.Request) {
	h.streamProof(w, r, "attachment")
}

func (h *Handler) HandleViewProof(w http.ResponseWriter, r *http.Request) {
	h.streamProof(w, r, "inline")
}

func (h *Handler) streamProof(w http.ResponseWriter, r *http.Request, disposition string) {
	transactionID, ok := h.authorizedTransaction(w, r)
	if !ok {
		return
	}

	rendered, err := h.proofUC.Render(r.Context(), transactionID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("%s; filename=%q", disposition, rendered.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered.Bytes)))
	_, _ = w.Write(rendered.Bytes)
}

type StatusResponse struct {
	TransactionID    string    `json:"transactionId"`
	Status           string    `json:"status"`
	Amount           int64     `json:"amount"`
	Date             time.Time `json:"date"`
	Reference        string    `json:"reference"`
	ProofGenerated   bool      `json:"proofGenerated"`
	CanGenerateProof bool      `json:"canGenerateProof"`
}

func (h *Handler) HandleProofStatus(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := h.authorizedTransaction(w, r)
	if !ok {
		return
	}

	status, err := h.proofUC.Status(r.Context(), transactionID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		TransactionID:    status.TransactionID,
		Status:           string(status.Status),
		Amount:           status.Amount,
		Date:             status.Date,
		Reference:        status.Reference,
		ProofGenerated:   status.ProofGenerated,
		CanGenerateProof: status.CanGenerateProof,
	})
}

type BulkRequest struct {
	TransactionIDs []string `json:"transactionIds"`
}

type BulkItem struct {
	TransactionID string `json:"transactionId"`
	FileName      string `json:"fileName,omitempty"`
	Error         string `json:"error,omitempty"`
}

type BulkResponse struct {
	Results []BulkItem `json:"results"`
}

func (h *Handler) HandleBulkGenerate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := caller(w, r)
	if !ok {
		return
	}

	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.TransactionIDs) == 0 {
		writeError(w, http.StatusBadRequest, "transactionIds required")
		return
	}
	if len(req.TransactionIDs) > proof.MaxBulkIDs {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("at most %d transaction ids per request", proof.MaxBulkIDs))
		return
	}

	items := make([]BulkItem, 0, len(req.TransactionIDs))
	for _, id := range req.TransactionIDs {
		if err := h.proofUC.Authorize(r.Context(), id, ownerID); err != nil {
			items = append(items, BulkItem{TransactionID: id, Error: publicError(err)})
			continue
		}
		rendered, err := h.proofUC.Render(r.Context(), id)
		if err != nil {
			items = append(items, BulkItem{TransactionID: id, Error: publicError(err)})
			continue
		}
		items = append(items, BulkItem{TransactionID: id, FileName: rendered.FileName})
	}
	writeJSON(w, http.StatusOK, BulkResponse{Results: items})
}

type HistoryItem struct {
	TransactionID    string    `json:"transactionId"`
	AccountNumber    string    `json:"accountNumber"`
	Direction        string    `json:"direction"`
	Amount           int64     `json:"amount"`
	SignedAmount     int64     `json:"signedAmount"`
	Reference        string    `json:"reference"`
	Counterparty     string    `json:"counterparty"`
	BalanceAfter     int64     `json:"balanceAfter"`
	Status           string    `json:"status"`
	Date             time.Time `json:"date"`
	ProofGenerated   bool      `json:"proofGenerated"`
	CanGenerateProof bool      `json:"canGenerateProof"`
}

type HistoryResponse struct {
	Transactions      []HistoryItem `json:"transactions"`
	CurrentPage       int           `json:"currentPage"`
	TotalPages        int           `json:"totalPages"`
	TotalTransactions int           `json:"totalTransactions"`
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := caller(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	result, err := h.historyUC.List(r.Context(), ownerID, page, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}

	items := make([]HistoryItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, HistoryItem{
			TransactionID:    item.TransactionID,
			AccountNumber:    item.AccountNumber,
			Direction:        string(item.Direction),
			Amount:           item.Amount,
			SignedAmount:     item.SignedAmount,
			Reference:        item.Reference,
			Counterparty:     item.Counterparty,
			BalanceAfter:     item.BalanceAfter,
			Status:           string(item.Status),
			Date:             item.Date,
			ProofGenerated:   item.ProofGenerated,
			CanGenerateProof: item.CanGenerateProof,
		})
	}
	writeJSON(w, http.StatusOK, HistoryResponse{
		Transactions:      items,
		CurrentPage:       result.CurrentPage,
		TotalPages:        result.TotalPages,
		TotalTransactions: result.TotalTransactions,
	})
}

type VerifyResponse struct {
	Valid               bool      `json:"valid"`
	Message             string    `json:"message"`
	TransactionID       string    `json:"transactionId,omitempty"`
	Amount              int64     `json:"amount,omitempty"`
	Date                time.Time `json:"date,omitzero"`
	Reference           string    `json:"reference,omitempty"`
	Status              string    `json:"status,omitempty"`
	SenderName          string    `json:"senderName,omitempty"`
	SenderAccountNumber string    `json:"senderAccountNumber,omitempty"`
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	result := h.verifyUC.Verify(r.Context(), chi.URLParam(r, "transactionId"))

	writeJSON(w, http.StatusOK, VerifyResponse{
		Valid:               result.Valid,
		Message:             result.Message,
		TransactionID:       result.TransactionID,
		Amount:              result.Amount,
		Date:                result.Date,
		Reference:           result.Reference,
		Status:              string(result.Status),
		SenderName:          result.SenderName,
		SenderAccountNumber: result.SenderAccountNumber,
	})
}

// authorizedTransaction extracts the route's transaction id and confirms
// the caller owns it.
func (h *Handler) authorizedTransaction(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := caller(w, r)
	if !ok {
		return "", false
	}
	transactionID := chi.URLParam(r, "transactionId")
	if transactionID == "" {
		writeError(w, http.StatusBadRequest, "transactionId required")
		return "", false
	}
	if err := h.proofUC.Authorize(r.Context(), transactionID, ownerID); err != nil {
		writeFailure(w, err)
		return "", false
	}
	return transactionID, true
}

func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(userHeader)
	if raw == "" {
		writeError(w, http.StatusUnauthorized, userHeader+" header required")
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid "+userHeader)
		return uuid.UUID{}, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps domain errors onto HTTP statuses without leaking
// internals.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, proof.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, entity.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, entity.ErrNegativeAmount),
		errors.Is(err, transfer.ErrSameAccount),
		errors.Is(err, transfer.ErrMissingReference),
		errors.Is(err, transfer.ErrMissingBeneficiary),
		errors.Is(err, proof.ErrTooManyIDs):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// publicError is the per-item variant of writeFailure for bulk results.
func publicError(err error) string {
	switch {
	case errors.Is(err, proof.ErrAccessDenied):
		return "access denied"
	case errors.Is(err, repository.ErrNotFound):
		return "not found"
	default:
		return "generation failed"
	}
}
