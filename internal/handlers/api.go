package handlers

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/bot"
	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/notify"
	"github.com/natacion/clubmanager/internal/services"
)

// API holds what the admin handlers share. Every field but DB has a usable default.
type API struct {
	DB     *gorm.DB
	Log    logrus.FieldLogger
	Biller services.Biller
	Notify notify.Sink
	Auth   *AdminAuth

	// Bot answers Telegram webhook updates when set; WebhookSecret guards the endpoint.
	Bot           *bot.Dispatcher
	WebhookSecret string

	DefaultFee decimal.Decimal
	Loc        *time.Location
	Now        func() time.Time
}

func New(gdb *gorm.DB, log logrus.FieldLogger) *API {
	return (&API{DB: gdb, Log: log}).withDefaults()
}

func (a *API) withDefaults() *API {
	if a.Log == nil {
		a.Log = logrus.StandardLogger()
	}
	if a.Biller == nil {
		a.Biller = services.NewOrderBilling(services.DefaultFeeProduct)
	}
	if a.Notify == nil {
		a.Notify = notify.LogSink{Log: a.Log}
	}
	if a.Auth == nil {
		a.Auth = NewAdminAuth("", "", 0)
	}
	if a.DefaultFee.IsZero() {
		a.DefaultFee = models.DefaultPaymentAmount
	}
	if a.Loc == nil {
		a.Loc = time.UTC
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	return a
}

// today is the current calendar day in the club's time zone.
func (a *API) today() time.Time {
	return services.DateOnly(a.Now().In(a.Loc))
}
