package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"msme-intel/internal/di"
	"msme-intel/internal/domain"
	"msme-intel/internal/infra/config"
	"msme-intel/internal/usecase"
)

var (
	version = "dev"

	// Global flags
	verbose bool

	// Ask command flags
	noNews bool

	// News command flags
	sector    string
	newsLimit int

	// Ingest command flags
	ingestSectors []string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "intel",
	Short:   "Query the MSME market intelligence pipeline from the command line",
	Version: version,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question against the index and news feed",
	Long: `Answer one question using the full pipeline: intent classification,
document retrieval, news aggregation, and generation.

Examples:
  # Ask about a sector
  intel ask "How is the textile sector performing?"

  # Skip the news branch
  intel ask --no-news "Which companies have the highest revenue?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print aggregated headlines",
	Long: `Fetch and print deduplicated, recency-sorted headlines from all
configured providers.

Examples:
  # Latest general headlines
  intel news

  # Sector-filtered headlines
  intel news --sector Healthcare --limit 5`,
	RunE: runNews,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull current news into the document index",
	RunE:  runIngest,
}

var sectorCmd = &cobra.Command{
	Use:   "sector [name]",
	Short: "Summarize one sector through the full pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runSector,
}

var companyCmd = &cobra.Command{
	Use:   "company [name]",
	Short: "Analyze one company through the full pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompany,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	askCmd.Flags().BoolVar(&noNews, "no-news", false, "skip the news retrieval branch")

	newsCmd.Flags().StringVar(&sector, "sector", "", "filter to one sector")
	newsCmd.Flags().IntVar(&newsLimit, "limit", 10, "maximum headlines to print")

	ingestCmd.Flags().StringSliceVar(&ingestSectors, "sector", nil, "sectors to refresh (default all)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(sectorCmd)
	rootCmd.AddCommand(companyCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func wire() (*di.ApplicationComponents, error) {
	return di.NewApplicationComponents(config.Load(), newLogger())
}

func runAsk(cmd *cobra.Command, args []string) error {
	components, err := wire()
	if err != nil {
		return err
	}

	output, err := components.AnswerUsecase.Execute(cmd.Context(), usecase.AnswerQueryInput{
		Query:       args[0],
		IncludeNews: !noNews,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(output.Answer)
	if verbose {
		fmt.Fprintf(os.Stderr, "\nrequest_id=%s type=%s sectors=%v fallback=%v\n",
			output.RequestID, output.Intent.Type, output.Intent.Sectors, output.Fallback)
	}
	return nil
}

func runNews(cmd *cobra.Command, args []string) error {
	components, err := wire()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var articles []domain.Article
	if sector != "" {
		articles = components.Aggregator.FetchForSector(ctx, sector, newsLimit)
	} else {
		articles = components.Aggregator.FetchAll(ctx, nil, newsLimit)
	}

	if len(articles) == 0 {
		fmt.Println("no articles available")
		return nil
	}

	for _, article := range articles {
		published := "unknown"
		if article.PublishedAt != nil {
			published = article.PublishedAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Printf("[%s] %s (%s)\n", article.Source, article.Title, published)
		if article.Description != "" {
			fmt.Printf("    %s\n", article.Description)
		}
	}
	return nil
}

func runSector(cmd *cobra.Command, args []string) error {
	components, err := wire()
	if err != nil {
		return err
	}

	output, err := components.AnalysisUsecase.SectorSummary(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(output.Answer)
	return nil
}

func runCompany(cmd *cobra.Command, args []string) error {
	components, err := wire()
	if err != nil {
		return err
	}

	output, err := components.AnalysisUsecase.CompanyAnalysis(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(output.Answer)
	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	components, err := wire()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	output, err := components.IngestUsecase.Execute(ctx, usecase.IngestNewsInput{Sectors: ingestSectors})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("fetched %d articles, indexed %d in %s\n",
		output.Fetched, output.Indexed, output.Duration.Round(time.Millisecond))
	return nil
}
