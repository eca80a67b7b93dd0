package application

import (
	"log/slog"
	"time"

	"github.com/rbxassets/platform/services/payments/internal/ports"
)

type Config struct {
	ServiceName          string
	DefaultCurrency      string
	PlatformFeeRate      float64
	ReconcileGrace       time.Duration
	OutboxFlushBatchSize int
}

type Actor struct {
	SubjectID string
	Role      string
	RequestID string
}

func (a Actor) isAdmin() bool { return a.Role == "admin" }

type CheckoutInput struct {
	ProductID    string
	ProductName  string
	ProductPrice float64
	Currency     string
	BuyerEmail   string
}

type DispatchPayoutInput struct {
	SellerID    string
	SellerEmail string
	Amount      float64
	Currency    string
}

type Service struct {
	cfg      Config
	orders   ports.OrderRepository
	payouts  ports.PayoutRepository
	captures ports.CaptureRepository
	products ports.ProductCounterRepository
	outbox   ports.OutboxRepository

	gateway   ports.PaymentGateway
	publisher ports.EventPublisher
	logger    *slog.Logger
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Orders    ports.OrderRepository
	Payouts   ports.PayoutRepository
	Captures  ports.CaptureRepository
	Products  ports.ProductCounterRepository
	Outbox    ports.OutboxRepository
	Gateway   ports.PaymentGateway
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "Payments-Service"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	if cfg.PlatformFeeRate <= 0 || cfg.PlatformFeeRate >= 1 {
		cfg.PlatformFeeRate = 0.30
	}
	if cfg.ReconcileGrace <= 0 {
		cfg.ReconcileGrace = time.Minute
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		orders:    deps.Orders,
		payouts:   deps.Payouts,
		captures:  deps.Captures,
		products:  deps.Products,
		outbox:    deps.Outbox,
		gateway:   deps.Gateway,
		publisher: deps.Publisher,
		logger:    logger.With("service", cfg.ServiceName, "layer", "application"),
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}
