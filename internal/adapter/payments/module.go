package payments

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/bazaar/internal/config"
)

// Module exposes payment provider client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Provider, error) {
	return NewStripeClient(p.Config.PaymentProviderURL, p.Config.PaymentProviderKey, p.Logger)
}
