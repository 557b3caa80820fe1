package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/practicum-admin-api/internal/app"
	"github.com/noah-isme/practicum-admin-api/internal/console"
	"github.com/noah-isme/practicum-admin-api/internal/models"
	"github.com/noah-isme/practicum-admin-api/internal/viewstate"
	"github.com/noah-isme/practicum-admin-api/pkg/config"
	"github.com/noah-isme/practicum-admin-api/pkg/logger"
)

const closeTimeout = 15 * time.Second

var (
	screen     string
	adminEmail string
	pageSize   int
	logFile    string
	stateFile  string
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Terminal admin console for practicum applications",
	Long: `Browse, filter and bulk-manage applications, institutions, center payments,
consultation memos and the admin activity log.

The console talks to Postgres (and Redis, when the list cache is enabled)
using the same configuration as the API server.`,
	SilenceUsage: true,
	RunE:         runConsole,
}

func init() {
	rootCmd.Flags().StringVar(&screen, "screen", models.KindApplications,
		"Screen shown first ("+strings.Join(screenNames, ", ")+")")
	rootCmd.Flags().StringVar(&adminEmail, "admin-email", os.Getenv("CONSOLE_ADMIN_EMAIL"),
		"Admin email recorded in the activity log (or set CONSOLE_ADMIN_EMAIL)")
	rootCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default: DEFAULT_PAGE_SIZE)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "console.log", "File the console writes its logs to")
	rootCmd.Flags().StringVar(&stateFile, "state-file", "console-state.json",
		"File that keeps filters, pages and selections between sessions (empty disables)")
}

var screenNames = []string{
	models.KindApplications,
	models.KindInstitutions,
	models.KindPayments,
	models.KindMemos,
	models.KindActivityLogs,
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.NewFile(cfg, logFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(context.WithoutCancel(ctx), cfg, logr)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logr.Error("close app", zap.Error(err))
		}
	}()

	email := strings.TrimSpace(adminEmail)
	if !a.Auth.IsAdmin(email) {
		return fmt.Errorf("%q is not an admin; pass --admin-email with an address listed in ADMIN_EMAILS", email)
	}

	size := pageSize
	if size <= 0 {
		size = cfg.Listing.DefaultPageSize
	}

	screens := []console.Screen{
		console.NewApplicationScreen(a.Applications, size),
		console.NewInstitutionScreen(a.Institutions, size),
		console.NewPaymentScreen(a.Payments, size),
		console.NewMemoScreen(a.Memos, size),
		console.NewActivityLogScreen(a.ActivityLogs, size),
	}

	var saved map[string]viewstate.Snapshot
	if stateFile != "" {
		if saved, err = console.LoadSnapshots(stateFile); err != nil {
			logr.Warn("ignoring saved view state", zap.Error(err))
		}
	}

	m, err := console.New(ctx, screens, console.Options{
		Actor:  &models.AdminClaims{Email: email},
		Screen: screen,
		Logger: logr,
		Saved:  saved,
	})
	if err != nil {
		return err
	}

	logr.Info("console started", zap.String("admin", email), zap.String("screen", screen))
	final, err := console.Run(m)
	if stateFile != "" {
		if saveErr := console.SaveSnapshots(stateFile, final.Snapshots()); saveErr != nil {
			logr.Error("save view state", zap.Error(saveErr))
		}
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
