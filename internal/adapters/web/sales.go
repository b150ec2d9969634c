package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paddy-books/internal/app"
)

func (h *Handler) apiGetBusiness(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBusiness(r.Context(), businessCode(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, b)
}

// apiSummary handles GET /api/businesses/{code}/reports/summary?from=&to=.
func (h *Handler) apiSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.GetSummary(r.Context(), businessCode(r), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// ── Sales ─────────────────────────────────────────────────────────────────────

// apiListSales handles GET /api/businesses/{code}/sales?from=&to=&outstanding=true&limit=.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListSales(r.Context(), app.ListSalesRequest{
		BusinessCode: businessCode(r),
		From:         q.Get("from"),
		To:           q.Get("to"),
		Outstanding:  strings.EqualFold(q.Get("outstanding"), "true"),
		Limit:        q.Get("limit"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiRecordSale(w http.ResponseWriter, r *http.Request) {
	var req app.RecordSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)

	result, err := h.svc.RecordSale(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// apiPreviewSale is the confirm step: same body as apiRecordSale, nothing saved.
func (h *Handler) apiPreviewSale(w http.ResponseWriter, r *http.Request) {
	var req app.RecordSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)

	preview, err := h.svc.PreviewSale(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, preview)
}

func (h *Handler) apiGetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.svc.GetSale(r.Context(), businessCode(r), chi.URLParam(r, "ref"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sale)
}

func (h *Handler) apiRecordSalePayment(w http.ResponseWriter, r *http.Request) {
	var req app.SalePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)
	req.Reference = chi.URLParam(r, "ref")

	sale, err := h.svc.RecordSalePayment(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sale)
}

// apiInterpretSale handles POST /api/businesses/{code}/ai/interpret-sale.
func (h *Handler) apiInterpretSale(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InterpretSale(r.Context(), businessCode(r), body.Text)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// ── Expenses ──────────────────────────────────────────────────────────────────

func (h *Handler) apiListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	expenses, err := h.svc.ListExpenses(r.Context(), businessCode(r), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, expenses)
}

func (h *Handler) apiRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req app.RecordExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)

	result, err := h.svc.RecordExpense(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (h *Handler) apiListStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListStock(r.Context(), businessCode(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiCreateStockItem(w http.ResponseWriter, r *http.Request) {
	var req app.CreateStockItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)

	result, err := h.svc.CreateStockItem(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

func (h *Handler) apiGetStockItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetStockItem(r.Context(), businessCode(r), chi.URLParam(r, "item"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) apiRestock(w http.ResponseWriter, r *http.Request) {
	var req app.RestockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)
	req.ItemCode = chi.URLParam(r, "item")

	item, err := h.svc.Restock(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// ── Invoices ──────────────────────────────────────────────────────────────────

// apiListInvoices handles GET /api/businesses/{code}/invoices?status=UNPAID.
func (h *Handler) apiListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.svc.ListInvoices(r.Context(), businessCode(r), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoices)
}

func (h *Handler) apiCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req app.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessCode = businessCode(r)

	result, err := h.svc.CreateInvoice(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

func (h *Handler) apiGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetInvoice(r.Context(), businessCode(r), chi.URLParam(r, "number"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) apiMarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.MarkInvoicePaid(r.Context(), businessCode(r), chi.URLParam(r, "number"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}
