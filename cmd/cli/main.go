package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/adiwn/duit/duit-cli/internal/api"
	"github.com/adiwn/duit/duit-cli/internal/config"
	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/export"
	"github.com/adiwn/duit/duit-cli/internal/page"
	"github.com/adiwn/duit/duit-cli/internal/render"
	"github.com/adiwn/duit/duit-cli/internal/service"
	"github.com/adiwn/duit/duit-cli/internal/session"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	var (
		pageName = flag.String("page", "overview", "screen to show: overview or budgeting")
		year     = flag.Int("year", 0, "year to load (default: current)")
		month    = flag.Int("month", 0, "month to load, 1-12 (default: current)")
		exportTo = flag.String("export", "", "write the month's report to this .xlsx file")
		deleteID = flag.Int("delete", 0, "delete the transaction with this id, then show the overview")
		logout   = flag.Bool("logout", false, "forget the stored token and exit")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := session.NewStore(cfg.TokenFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	unsubscribe := store.Subscribe(func(ev session.Event) {
		log.Info().Str("event", string(ev.Kind)).Msg("Session changed")
	})
	defer unsubscribe()

	if *logout {
		if err := store.Clear(); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear session")
		}
		log.Info().Msg("Logged out")
		return
	}

	// DUIT_TOKEN seeds the store when no token is persisted yet.
	if !store.Authenticated() && cfg.Token != "" {
		if err := store.SetToken(cfg.Token); err != nil {
			log.Fatal().Err(err).Msg("Failed to store token")
		}
	}
	if !store.Authenticated() {
		log.Fatal().Msg("Not logged in: set DUIT_TOKEN or provide a token file")
	}

	client := api.NewClient(cfg.APIBaseURL, store,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithRequestsPerMinute(cfg.RequestsPerMinute),
		api.WithLogger(log.Logger),
	)

	period := util.CurrentPeriod()
	if *year != 0 {
		period.Year = *year
	}
	if *month != 0 {
		period.Month = *month
	}

	ctx := context.Background()
	switch *pageName {
	case "overview":
		err = runOverview(ctx, client, store, period, *exportTo, int32(*deleteID))
	case "budgeting":
		err = runBudgeting(ctx, client, store, period)
	default:
		log.Fatal().Str("page", *pageName).Msg("Unknown page, want overview or budgeting")
	}

	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			log.Fatal().Msg("Session expired: log in again or refresh DUIT_TOKEN")
		}
		log.Fatal().Err(err).Str("page", *pageName).Msg("Page failed")
	}
}

func runOverview(ctx context.Context, client *api.Client, store *session.Store, period util.Period, exportTo string, deleteID int32) error {
	p := page.NewOverviewPage(client, client, client, client, store, service.NewAggregationService(), log.Logger)
	if err := p.Load(ctx, period); err != nil {
		return err
	}

	if deleteID != 0 {
		err := p.DeleteTransaction(ctx, deleteID, stdinConfirmer{})
		if errors.Is(err, domain.ErrDeleteDeclined) {
			log.Info().Int32("id", deleteID).Msg("Delete cancelled")
		} else if err != nil {
			return err
		}
	}

	if err := render.Overview(os.Stdout, p.Snapshot()); err != nil {
		return err
	}

	if exportTo != "" {
		return exportReport(ctx, client, store, p.Snapshot(), exportTo)
	}
	return nil
}

func runBudgeting(ctx context.Context, client *api.Client, store *session.Store, period util.Period) error {
	p := page.NewBudgetingPage(client, client, client, store, service.NewBudgetService(), log.Logger)
	if err := p.Load(ctx, period); err != nil {
		return err
	}
	return render.Budgets(os.Stdout, period, p.Rows())
}

// exportReport also needs the budget rows, which live on the budgeting
// screen; it loads that batch for the same period before writing.
func exportReport(ctx context.Context, client *api.Client, store *session.Store, st page.OverviewState, path string) error {
	b := page.NewBudgetingPage(client, client, client, store, service.NewBudgetService(), log.Logger)
	if err := b.Load(ctx, st.Period); err != nil {
		return err
	}
	if err := export.MonthlyReport(path, st.Period, st.Summary, b.Rows()); err != nil {
		return err
	}
	log.Info().Str("file", path).Str("period", st.Period.String()).Msg("Report written")
	return nil
}

// stdinConfirmer asks for a y/N answer on the terminal.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
