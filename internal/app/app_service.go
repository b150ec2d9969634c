package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"paddy-books/internal/ai"
	"paddy-books/internal/core"
	"paddy-books/internal/events"
	"paddy-books/internal/observability"
)

// ErrInvalidCredentials hides whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Services bundles the core services the application layer orchestrates.
type Services struct {
	Businesses core.BusinessService
	Users      core.UserService
	Stock      core.StockService
	Sales      core.SaleService
	Expenses   core.ExpenseService
	Invoices   core.InvoiceService
	Wallet     core.CoinWallet
	Loans      core.LoanService
	Reports    core.ReportingService
}

// NewServices wires every core service against one pool.
func NewServices(pool *pgxpool.Pool) Services {
	seq := core.NewSequenceService(pool)
	stock := core.NewStockService(pool)
	sales := core.NewSaleService(pool, stock, seq)
	reports := core.NewReportingService(pool)
	wallet := core.NewCoinWallet(pool, core.NewRewardRules(pool))
	return Services{
		Businesses: core.NewBusinessService(pool),
		Users:      core.NewUserService(pool),
		Stock:      stock,
		Sales:      sales,
		Expenses:   core.NewExpenseService(pool, seq),
		Invoices:   core.NewInvoiceService(pool, seq, sales),
		Wallet:     wallet,
		Loans:      core.NewLoanService(pool, wallet, reports, seq),
		Reports:    reports,
	}
}

// Options are the optional collaborators. Zero values get safe defaults.
type Options struct {
	Agent           ai.SaleInterpreter
	Publisher       events.Publisher
	Metrics         *observability.Metrics
	Logger          *slog.Logger
	DefaultBusiness string
	Now             func() time.Time
}

type appService struct {
	svc             Services
	agent           ai.SaleInterpreter
	publisher       events.Publisher
	metrics         *observability.Metrics
	logger          *slog.Logger
	defaultBusiness string
	now             func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(svc Services, opts Options) ApplicationService {
	s := &appService{
		svc:             svc,
		agent:           opts.Agent,
		publisher:       opts.Publisher,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		defaultBusiness: strings.TrimSpace(opts.DefaultBusiness),
		now:             opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *appService) today() string {
	return s.now().Format("2006-01-02")
}

// publish hands an event to the publisher. Failures are logged and counted,
// never returned: the write they describe has already committed.
func (s *appService) publish(ctx context.Context, eventType, businessCode, reference string, payload any) {
	evt, err := events.New(eventType, businessCode, reference, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build event", "event_type", eventType, "error", err)
		return
	}
	outcome := "ok"
	if err := s.publisher.Publish(ctx, evt); err != nil {
		outcome = "error"
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", eventType, "business", businessCode, "reference", reference, "error", err)
	}
	s.metrics.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// award credits coins for a bookkeeping action and returns how many were
// credited (zero on a repeat key or on failure). A failed award never fails
// the action that earned it.
func (s *appService) award(ctx context.Context, businessCode string, action core.CoinAction, key, description string) int64 {
	res, err := s.svc.Wallet.Award(ctx, businessCode, action, key, description)
	if err != nil {
		s.logger.WarnContext(ctx, "coin award failed",
			"business", businessCode, "action", action, "key", key, "error", err)
		return 0
	}
	if res.Duplicate {
		return 0
	}
	s.metrics.CoinsAwarded.WithLabelValues(string(action)).Add(float64(res.Transaction.Amount))
	s.publish(ctx, events.CoinsAwarded, businessCode, key, res.Transaction)
	return res.Transaction.Amount
}

// ── Business ─────────────────────────────────────────────────────────────────

func (s *appService) LoadDefaultBusiness(ctx context.Context) (*core.Business, error) {
	if s.defaultBusiness != "" {
		return s.svc.Businesses.GetBusiness(ctx, s.defaultBusiness)
	}
	all, err := s.svc.Businesses.ListBusinesses(ctx)
	if err != nil {
		return nil, err
	}
	switch len(all) {
	case 0:
		return nil, fmt.Errorf("no business found, have migrations and the seed run?: %w", core.ErrNotFound)
	case 1:
		return &all[0], nil
	default:
		return nil, fmt.Errorf("%d businesses found; set BUSINESS_CODE to pick one", len(all))
	}
}

func (s *appService) GetBusiness(ctx context.Context, businessCode string) (*core.Business, error) {
	return s.svc.Businesses.GetBusiness(ctx, businessCode)
}

func (s *appService) GetSummary(ctx context.Context, businessCode, from, to string) (*SummaryResult, error) {
	summary, err := s.svc.Reports.GetBusinessSummary(ctx, businessCode, from, to)
	if err != nil {
		return nil, err
	}
	trend, err := s.svc.Reports.MonthlyTrend(ctx, businessCode, 6)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Summary: summary, Trend: trend}, nil
}

// ── Users ────────────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.svc.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.award(ctx, user.BusinessCode, core.ActionDailyLogin, "login:"+s.today(), "Daily login")

	return &UserSession{
		UserID:       user.ID,
		BusinessID:   user.BusinessID,
		BusinessCode: user.BusinessCode,
		Username:     user.Username,
		Role:         user.Role,
	}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.svc.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		BusinessCode: user.BusinessCode,
	}, nil
}
