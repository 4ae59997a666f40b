package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/domain/job"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

// DefaultSheetTab receives exports when no tab is given
const DefaultSheetTab = "Offers"

// SheetsExporter writes offers to a spreadsheet tab
type SheetsExporter interface {
	Export(ctx context.Context, req SheetsExportRequest) (SheetsExportResult, error)
}

// SheetsExportRequest is one batch of offers bound for a tab
type SheetsExportRequest struct {
	SpreadsheetID string
	Tab           string
	ClearTab      bool
	Offers        []domain.JobOffer
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string    `json:"tab" jsonschema:"Target tab name"`
	WrittenRows   int       `json:"written_rows" jsonschema:"How many offer rows were written"`
	CompletedAt   time.Time `json:"completed_at" jsonschema:"Timestamp when export finished"`
	Message       string    `json:"message,omitempty" jsonschema:"Optional status message"`
}

// ExportOffersParams defines the arguments for the export_offers tool
type ExportOffersParams struct {
	Filters       FiltersInput `json:"filters,omitempty" jsonschema:"Search whose page is exported"`
	Page          int          `json:"page,omitempty" jsonschema:"1-based page number"`
	SpreadsheetID string       `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string       `json:"tab,omitempty" jsonschema:"Tab name, default Offers"`
	ClearTab      bool         `json:"clear_tab,omitempty" jsonschema:"Clear the tab and write a header row first"`
}

type exportTool struct {
	service  job.Service
	exporter SheetsExporter
	logger   *logging.Logger
}

// WithExport registers the export_offers tool
func WithExport(service job.Service, exporter SheetsExporter) Option {
	return func(reg *registry) {
		h := exportTool{service: service, exporter: exporter, logger: reg.logger}
		addTool(reg, "export_offers", "Run a search and append the resulting offers to a Google Sheets tab", h.handle)
	}
}

func (t exportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params ExportOffersParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("job service not configured")
	}
	if t.exporter == nil {
		return nil, nil, fmt.Errorf("sheets client not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")
	}
	if strings.TrimSpace(params.SpreadsheetID) == "" {
		return nil, nil, fmt.Errorf("spreadsheet_id is required")
	}

	filters, err := params.Filters.Filters()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid filters: %w", err)
	}

	result, err := t.service.Search(ctx, filters, params.Page)
	if err != nil {
		return nil, nil, err
	}

	tab := strings.TrimSpace(params.Tab)
	if tab == "" {
		tab = DefaultSheetTab
	}

	out, err := t.exporter.Export(ctx, SheetsExportRequest{
		SpreadsheetID: params.SpreadsheetID,
		Tab:           tab,
		ClearTab:      params.ClearTab,
		Offers:        result.Offers,
	})
	if err != nil {
		t.logger.Error("export_offers failed", "err", err, "spreadsheet_id", params.SpreadsheetID)
		return nil, nil, err
	}

	t.logger.Info("offers exported", "spreadsheet_id", out.SpreadsheetID, "tab", out.Tab, "rows", out.WrittenRows)
	msg := fmt.Sprintf("[export_offers] %s (spreadsheet %s, tab %q)", out.Message, out.SpreadsheetID, out.Tab)
	return textResult(msg), out, nil
}
