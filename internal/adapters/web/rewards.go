package web

import (
	"net/http"

	"paddy-books/internal/app"
)

// ── Coins ─────────────────────────────────────────────────────────────────────

func (h *Handler) apiWallet(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetWallet(r.Context(), businessCode(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiCoinHistory(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.CoinHistory(r.Context(), businessCode(r), r.URL.Query().Get("limit"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, txs)
}

func (h *Handler) apiCoinLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.CoinLevels(r.Context()))
}

// apiResolveCoinLevel handles GET .../coins/level?earned=N.
func (h *Handler) apiResolveCoinLevel(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.ResolveCoinLevel(r.Context(), r.URL.Query().Get("earned"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status)
}

func (h *Handler) apiRedemptionCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.RedemptionCatalog(r.Context()))
}

// apiRedeemCoins handles POST .../coins/redeem. The idempotency key may come
// in the body or in an Idempotency-Key header.
func (h *Handler) apiRedeemCoins(w http.ResponseWriter, r *http.Request) {
	var req app.RedeemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	result, err := h.svc.RedeemCoins(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if result.Duplicate {
		writeJSON(w, result)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// ── Loans ─────────────────────────────────────────────────────────────────────

func (h *Handler) apiLoanTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.LoanTiers(r.Context()))
}

// apiResolveTier handles GET .../loans/tier?coins=N&revenue=M.
func (h *Handler) apiResolveTier(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ResolveTier(r.Context(), app.TierRequest{
		Coins:          q.Get("coins"),
		MonthlyRevenue: q.Get("revenue"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiLoanEligibility(w http.ResponseWriter, r *http.Request) {
	offer, err := h.svc.LoanEligibility(r.Context(), businessCode(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, offer)
}

// apiInstallment handles GET .../loans/installment?amount=&months=&rate=&tier=&start=.
func (h *Handler) apiInstallment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ComputeInstallment(r.Context(), app.InstallmentRequest{
		Amount:    q.Get("amount"),
		Months:    q.Get("months"),
		Rate:      q.Get("rate"),
		Tier:      q.Get("tier"),
		StartDate: q.Get("start"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiListLoanApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListLoanApplications(r.Context(), businessCode(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, apps)
}

func (h *Handler) apiApplyForLoan(w http.ResponseWriter, r *http.Request) {
	var req app.LoanApplicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)

	result, err := h.svc.ApplyForLoan(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiEstimateTax handles GET .../tax/estimate?income=&deductions=.
func (h *Handler) apiEstimateTax(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	est, err := h.svc.EstimateTax(r.Context(), app.TaxRequest{
		AnnualIncome: q.Get("income"),
		Deductions:   q.Get("deductions"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, est)
}
