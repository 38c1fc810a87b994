package tui

import (
	"context"

	"github.com/cattrack/cattrack/internal/config"
	"github.com/cattrack/cattrack/internal/shell"
)

// New builds the CatTrack shell with its dashboard and transactions routes.
// The brand path redirects to the dashboard.
func New(ctx context.Context, cfg config.Config, deps Deps) *shell.Shell {
	f := newFormatter(cfg.UI)

	router := shell.NewRouter()
	router.Register(shell.DashboardPath, newDashboard(ctx, deps, f))
	router.Register(shell.TransactionsPath, newTransactions(ctx, deps, f, cfg.UI.PageSize))
	router.Redirect(shell.BrandPath, shell.DashboardPath)

	opts := []shell.Option{shell.WithLogger(deps.logger())}
	if cfg.UI.StartRoute != "" {
		opts = append(opts, shell.WithStartPath(cfg.UI.StartRoute))
	}
	return shell.New(router, opts...)
}
