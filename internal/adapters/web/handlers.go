package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paddy-books/internal/app"
	"paddy-books/internal/observability"
)

// Options configures NewHandler. Zero values get defaults.
type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	MaxBodyBytes   int64
	Metrics        *observability.Metrics
	Logger         *slog.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	h := &Handler{
		svc:       svc,
		jwtSecret: opts.JWTSecret,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(Metrics(h.metrics))
	r.Use(Recoverer(h.logger))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(opts.MaxBodyBytes))
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(opts.MaxBodyBytes))

		r.Get("/api/auth/me", h.me)

		r.Route("/api/businesses/{code}", func(r chi.Router) {
			r.Use(h.RequireBusinessAccess)

			r.Get("/", h.apiGetBusiness)
			r.Get("/reports/summary", h.apiSummary)

			// ── Sales ────────────────────────────────────────────────────────
			r.Get("/sales", h.apiListSales)
			r.Post("/sales", h.apiRecordSale)
			r.Post("/sales/preview", h.apiPreviewSale)
			r.Get("/sales/{ref}", h.apiGetSale)
			r.Post("/sales/{ref}/payments", h.apiRecordSalePayment)

			// ── Expenses ─────────────────────────────────────────────────────
			r.Get("/expenses", h.apiListExpenses)
			r.Post("/expenses", h.apiRecordExpense)

			// ── Stock ────────────────────────────────────────────────────────
			r.Get("/stock", h.apiListStock)
			r.Post("/stock", h.apiCreateStockItem)
			r.Get("/stock/{item}", h.apiGetStockItem)
			r.Post("/stock/{item}/restock", h.apiRestock)

			// ── Invoices ─────────────────────────────────────────────────────
			r.Get("/invoices", h.apiListInvoices)
			r.Post("/invoices", h.apiCreateInvoice)
			r.Get("/invoices/{number}", h.apiGetInvoice)
			r.Post("/invoices/{number}/pay", h.apiMarkInvoicePaid)

			// ── Coins ────────────────────────────────────────────────────────
			r.Get("/coins", h.apiWallet)
			r.Get("/coins/history", h.apiCoinHistory)
			r.Get("/coins/levels", h.apiCoinLevels)
			r.Get("/coins/level", h.apiResolveCoinLevel)
			r.Get("/coins/catalog", h.apiRedemptionCatalog)
			r.Post("/coins/redeem", h.apiRedeemCoins)

			// ── Loans ────────────────────────────────────────────────────────
			r.Get("/loans/tiers", h.apiLoanTiers)
			r.Get("/loans/tier", h.apiResolveTier)
			r.Get("/loans/eligibility", h.apiLoanEligibility)
			r.Get("/loans/installment", h.apiInstallment)
			r.Get("/loans/applications", h.apiListLoanApplications)
			r.Post("/loans/applications", h.apiApplyForLoan)

			r.Get("/tax/estimate", h.apiEstimateTax)

			r.Post("/ai/interpret-sale", h.apiInterpretSale)
		})
	})

	h.router = r
	return r
}

// health returns service status and the default business code, if any.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	business, err := h.svc.LoadDefaultBusiness(r.Context())
	code := ""
	if err == nil && business != nil {
		code = business.Code
	}

	type response struct {
		Status   string `json:"status"`
		Business string `json:"business"`
	}

	writeJSON(w, response{Status: "ok", Business: code})
}

// businessCode extracts the {code} URL parameter.
func businessCode(r *http.Request) string {
	return chi.URLParam(r, "code")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
