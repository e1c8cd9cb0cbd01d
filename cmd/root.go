package cmd

import (
	"context"
	"fmt"
	"math"
	"time"

	"portfoliorisk/api"
	"portfoliorisk/internal"
	"portfoliorisk/internal/app"
	"portfoliorisk/internal/calculator"
	"portfoliorisk/internal/domain"
	"portfoliorisk/internal/logger"
	"portfoliorisk/internal/util"
	"portfoliorisk/pkg/csvsource"
	treasury_client "portfoliorisk/pkg/treasury"
	"portfoliorisk/pkg/yahoo"

	"github.com/spf13/cobra"
)

var (
	portfolioPath    string
	asOfFlag         string
	riskFreeFlag     float64
	treasuryRateFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "portfoliorisk",
	Short: "Portfolio valuation and risk metrics engine",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portfolioPath, "portfolio", "p", "portfolio.json", "path to the portfolio json file")

	valueCmd.Flags().StringVar(&asOfFlag, "date", "", "valuation date (YYYY-MM-DD), defaults to today")
	sharpeCmd.Flags().Float64Var(&riskFreeFlag, "risk-free", math.NaN(), "annual risk-free rate, e.g. 0.03; defaults to config")
	sharpeCmd.Flags().BoolVar(&treasuryRateFlag, "treasury-rate", false, "use the current 1y treasury yield as the risk-free rate")

	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(sharpeCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
}

type dependencies struct {
	Engine *app.Engine
	Config *util.Config
}

func initializeDependencies() (*dependencies, error) {
	config, err := util.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var provider internal.PriceProvider
	switch config.Provider.Kind {
	case "csv":
		provider = csvsource.NewClient(config.Provider.CsvDir)
	case "yahoo":
		provider = yahoo.NewClient()
	default:
		return nil, fmt.Errorf("unknown provider kind %q", config.Provider.Kind)
	}

	priceService := internal.NewPriceService(provider, config.Engine.MaxLookbackDays)

	engine := app.NewEngine(
		priceService,
		calculator.AlignmentPolicy(config.Engine.Alignment),
		config.Engine.HistoryDays,
	)

	return &dependencies{Engine: engine, Config: config}, nil
}

// today is pinned here, once, at the process boundary. Everything
// below this layer takes dates as arguments.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func newContext() context.Context {
	return context.WithValue(context.Background(), logger.ContextKey, logger.New())
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Compute the portfolio's total market value",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		portfolio, err := domain.LoadPortfolio(portfolioPath)
		if err != nil {
			return err
		}

		asOf := today()
		if asOfFlag != "" {
			asOf, err = util.ParseDate(asOfFlag)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
		}

		result, err := deps.Engine.TotalValue(newContext(), *portfolio, asOf, today())
		if err != nil {
			return err
		}

		fmt.Printf("Total value of the portfolio on %s is: %s\n", result.Date.Format(time.DateOnly), result.Value.StringFixed(2))
		return nil
	},
}

var sharpeCmd = &cobra.Command{
	Use:   "sharpe",
	Short: "Compute the portfolio's daily Sharpe ratio over the trailing history window",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		portfolio, err := domain.LoadPortfolio(portfolioPath)
		if err != nil {
			return err
		}

		riskFree := deps.Config.Engine.RiskFreeRateAnnual
		if !math.IsNaN(riskFreeFlag) {
			riskFree = riskFreeFlag
		}
		if treasuryRateFlag {
			riskFree, err = treasury_client.RiskFreeRateAnnual(today())
			if err != nil {
				return fmt.Errorf("failed to fetch treasury rate: %w", err)
			}
		}

		result, err := deps.Engine.SharpeRatio(newContext(), *portfolio, riskFree, today())
		if err != nil {
			return err
		}

		fmt.Printf("Sharpe ratio of the portfolio is: %f (daily, over %d observations)\n", result.SharpeRatio, result.Observations)
		return nil
	},
}

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Compute each holding's fraction of total portfolio value",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		portfolio, err := domain.LoadPortfolio(portfolioPath)
		if err != nil {
			return err
		}

		weights, err := deps.Engine.Weights(newContext(), *portfolio, today())
		if err != nil {
			return err
		}

		for _, w := range weights {
			fmt.Printf("%-8s %.4f\n", w.Ticker, w.Weight)
		}
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Best-effort diagnostic scan of the portfolio's data quality",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		portfolio, err := domain.LoadPortfolio(portfolioPath)
		if err != nil {
			return err
		}

		report := deps.Engine.Scan(newContext(), *portfolio, today())

		if len(report.Issues) == 0 {
			fmt.Printf("all %d holdings look healthy\n", report.Holdings)
			return nil
		}
		for _, issue := range report.Issues {
			fmt.Printf("%-8s %s\n", issue.Ticker, issue.Issue)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over http",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}

		handler := api.ApiHandler{
			Engine:                    deps.Engine,
			DefaultRiskFreeRateAnnual: deps.Config.Engine.RiskFreeRateAnnual,
		}

		return handler.StartApi(deps.Config.Server.Port)
	},
}
