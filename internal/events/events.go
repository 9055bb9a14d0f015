package events

import "github.com/natacion/clubmanager/internal/models"

// OnPaymentRegistered is called after a membership payment commits.
// bot sets it to notify the swimmer's linked Telegram chat.
var OnPaymentRegistered func(sw models.Swimmer, order models.SaleOrder)

// OnSeriesGenerated is called after the series of a test were rebuilt.
var OnSeriesGenerated func(testID uint, series int)
