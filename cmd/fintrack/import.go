package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"fintrack/internal/client"
	"fintrack/internal/dto"
	"fintrack/internal/importer"
	"fintrack/internal/logging"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import an OFX or QFX statement",
		Long: `Parse an OFX or QFX statement exported by a bank and create one transaction
per statement line through the API.

Categories are guessed from the payee unless --category is given. Lines whose
FITID was already imported are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().String("category", "", "category name for every imported transaction")
	cmd.Flags().Bool("dry-run", false, "parse and print without creating transactions")
	return cmd
}

// importStats counts the outcome of posting a statement.
type importStats struct {
	Created    int
	Duplicates int
	Failed     int
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	category, _ := cmd.Flags().GetString("category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	logger := logging.WithComponent(slog.Default(), logging.ComponentImporter)
	parsed, err := importer.NewParser(nil, logger).Parse(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d transactions in %d account(s), %d duplicate lines dropped\n",
		len(parsed.Entries), len(parsed.Accounts), parsed.Duplicates)

	if dryRun {
		for _, e := range parsed.Entries {
			fmt.Fprintf(out, "%s  %-7s  %10s  %-30s  %s\n",
				e.Request.Date, e.Request.Type, e.Request.Amount.StringFixed(2), e.Merchant, e.SuggestedCategory)
		}
		return nil
	}

	c, err := apiClient(ctx)
	if err != nil {
		return err
	}
	responses, err := c.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	requests, err := assignCategories(parsed.Entries, toModelCategories(responses), category)
	if err != nil {
		return err
	}

	stats := postTransactions(ctx, c, requests, cmd.ErrOrStderr(), logger)
	fmt.Fprintf(out, "created %d, already imported %d, failed %d\n", stats.Created, stats.Duplicates, stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d transactions could not be imported", stats.Failed)
	}
	return nil
}

func toModelCategories(responses []dto.CategoryResponse) []models.Category {
	categories := make([]models.Category, 0, len(responses))
	for _, r := range responses {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			continue
		}
		categories = append(categories, models.Category{ID: id, Name: r.Name, Color: r.Color, Icon: r.Icon})
	}
	return categories
}

// assignCategories fills each request's category. A forced name must exist;
// suggestions that match no category leave the transaction uncategorized.
func assignCategories(entries []importer.Entry, categories []models.Category, forced string) ([]dto.TransactionRequest, error) {
	var forcedID *uuid.UUID
	if forced != "" {
		if forcedID = importer.Resolve(forced, categories); forcedID == nil {
			return nil, fmt.Errorf("unknown category %q", forced)
		}
	}

	requests := make([]dto.TransactionRequest, 0, len(entries))
	for _, e := range entries {
		req := e.Request
		id := forcedID
		if id == nil {
			id = importer.Resolve(e.SuggestedCategory, categories)
		}
		if id != nil {
			req.Category = id.String()
		}
		requests = append(requests, req)
	}
	return requests, nil
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, req dto.TransactionRequest) (*dto.TransactionResponse, error)
}

func postTransactions(ctx context.Context, c transactionCreator, requests []dto.TransactionRequest, progress io.Writer, logger *slog.Logger) importStats {
	var stats importStats
	bar := newProgressBar(progress, len(requests), "Importing transactions")

	for _, req := range requests {
		if ctx.Err() != nil {
			stats.Failed += len(requests) - stats.Created - stats.Duplicates - stats.Failed
			break
		}
		_, err := c.CreateTransaction(ctx, req)
		var apiErr *client.APIError
		switch {
		case err == nil:
			stats.Created++
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
			stats.Duplicates++
		default:
			stats.Failed++
			logger.Warn("failed to import transaction",
				"external_id", req.ExternalID, "description", req.Description, logging.Err(err))
		}
		_ = bar.Add(1)
	}
	return stats
}
