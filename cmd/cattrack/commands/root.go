package commands

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cattrack/cattrack/internal/config"
	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/logging"
	"github.com/cattrack/cattrack/internal/service"
	"github.com/cattrack/cattrack/internal/tui"
)

// app is everything a command needs once config and the database are open.
type app struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB
	loc *time.Location
	now func() time.Time

	accounts     *repository.AccountRepo
	categories   *repository.CategoryRepo
	transactions *repository.TransactionRepo
	balances     *repository.BalanceRepo
	periods      *repository.PeriodRepo
	budgets      *repository.BudgetRepo
	groups       *repository.GroupRepo

	categoriser *service.Categoriser
	ingest      *service.IngestService
	reports     *service.ReportService
	balanceSvc  *service.BalanceService
	periodSvc   *service.PeriodService
	maintenance *service.MaintenanceService
	budgetSvc   *service.BudgetService
	groupSvc    *service.GroupService
}

type rootFlags struct {
	config string
	db     string
	route  string
}

// loadConfig resolves config with command line overrides applied.
func (a *app) loadConfig(flags rootFlags) error {
	cfg, err := config.LoadFile(flags.config)
	if err != nil {
		return err
	}
	if flags.db != "" {
		cfg.Database.Path = flags.db
	}
	if flags.route != "" {
		cfg.UI.StartRoute = flags.route
	}
	a.cfg = cfg
	return nil
}

func (a *app) open(ctx context.Context, flags rootFlags) error {
	if err := a.loadConfig(flags); err != nil {
		return err
	}
	cfg := a.cfg

	var err error
	if a.log, err = logging.New(cfg.Log); err != nil {
		return err
	}
	a.loc, err = time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		a.log.Warn("using local timezone", zap.String("timezone", cfg.UI.Timezone), zap.Error(err))
		a.loc = time.Local
	}
	if a.now == nil {
		a.now = time.Now
	}

	if a.db, err = database.Setup(ctx, cfg.Database.Path); err != nil {
		return err
	}
	a.log.Debug("database ready", zap.String("path", cfg.Database.Path))

	a.accounts = repository.NewAccountRepo(a.db)
	a.categories = repository.NewCategoryRepo(a.db)
	a.transactions = repository.NewTransactionRepo(a.db)
	a.balances = repository.NewBalanceRepo(a.db)
	a.periods = repository.NewPeriodRepo(a.db)
	a.budgets = repository.NewBudgetRepo(a.db)
	a.groups = repository.NewGroupRepo(a.db)

	a.categoriser = &service.Categoriser{Transactions: a.transactions, Categories: a.categories}
	a.ingest = &service.IngestService{
		Transactions: a.transactions,
		Accounts:     a.accounts,
		Categoriser:  a.categoriser,
		AutoScore:    cfg.Import.AutoCategoriseScore,
		Logger:       a.log,
	}
	a.reports = &service.ReportService{Transactions: a.transactions}
	a.balanceSvc = &service.BalanceService{Accounts: a.accounts, Balances: a.balances, Transactions: a.transactions}
	a.periodSvc = &service.PeriodService{Periods: a.periods, Logger: a.log, Now: a.clock}
	a.maintenance = &service.MaintenanceService{DB: a.db}
	a.budgetSvc = &service.BudgetService{Budgets: a.budgets, Categories: a.categories, Transactions: a.transactions}
	a.groupSvc = &service.GroupService{Groups: a.groups, Categories: a.categories, Transactions: a.transactions}
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) deps() tui.Deps {
	return tui.Deps{
		Reports:      a.reports,
		Budgets:      a.budgetSvc,
		Balances:     a.balanceSvc,
		Periods:      a.periodSvc,
		Transactions: a.transactions,
		Categories:   a.categories,
		Suggester:    a.categoriser,
		Logger:       a.log,
		Now:          a.clock,
	}
}

// clock is now in the configured timezone, so calendar maths agrees with today.
func (a *app) clock() time.Time {
	return a.now().In(a.loc)
}

// today is the current calendar day in the configured timezone.
func (a *app) today() time.Time {
	return database.Today(a.clock())
}

// NewRoot builds the command tree. Running the root command opens the shell.
func NewRoot() *cobra.Command {
	return newRoot(&app{})
}

func newRoot(a *app) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "cattrack",
		Short:         "Track and categorise transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.log.Info("starting shell", zap.String("route", a.cfg.UI.StartRoute))
			p := tea.NewProgram(tui.New(ctx, a.cfg, a.deps()), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run shell: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default ~/.config/cattrack/config.toml)")
	root.PersistentFlags().StringVar(&flags.db, "db", "", "database path (overrides config)")
	root.Flags().StringVar(&flags.route, "route", "", "route to open first, e.g. /transactions")

	root.AddCommand(
		importCmd(a),
		summaryCmd(a),
		periodsCmd(a),
		categoriesCmd(a),
		balanceCmd(a),
		budgetCmd(a),
		groupsCmd(a),
		transactionsCmd(a),
		splitCmd(a),
		suggestCmd(a),
		resetCmd(a),
		prefsCmd(a),
		sampleCmd(a),
		configCmd(a, &flags),
	)
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	root := NewRoot()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return err
	}
	return nil
}
