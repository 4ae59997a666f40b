package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/mcp/tools"
)

var sheetHeader = []any{"Title", "Company", "Location", "Contract", "Experience", "Salary", "URL", "Source", "Published"}

type sheetsWriter interface {
	AppendRows(ctx context.Context, spreadsheetID, tab string, rows [][]any) (int, error)
	ClearTab(ctx context.Context, spreadsheetID, tab string) error
}

// sheetsExporter writes one row per offer
type sheetsExporter struct {
	client sheetsWriter
	now    func() time.Time
}

func newSheetsExporter(client sheetsWriter) *sheetsExporter {
	return &sheetsExporter{client: client, now: time.Now}
}

func (e *sheetsExporter) Export(ctx context.Context, req tools.SheetsExportRequest) (tools.SheetsExportResult, error) {
	result := tools.SheetsExportResult{
		SpreadsheetID: req.SpreadsheetID,
		Tab:           req.Tab,
	}

	rows := make([][]any, 0, len(req.Offers)+1)
	if req.ClearTab {
		if err := e.client.ClearTab(ctx, req.SpreadsheetID, req.Tab); err != nil {
			return result, err
		}
		rows = append(rows, sheetHeader)
	}
	for _, o := range req.Offers {
		rows = append(rows, offerRow(o))
	}

	written, err := e.client.AppendRows(ctx, req.SpreadsheetID, req.Tab, rows)
	if err != nil {
		return result, err
	}
	if req.ClearTab && written > 0 {
		written--
	}

	result.WrittenRows = written
	result.CompletedAt = e.now().UTC()
	if written == 0 {
		result.Message = "no offers to export"
	} else {
		result.Message = fmt.Sprintf("successfully exported %d offer(s)", written)
	}
	return result, nil
}

func offerRow(o domain.JobOffer) []any {
	return []any{
		o.Title,
		o.Company,
		o.Location,
		string(o.ContractType),
		string(o.Experience),
		formatSalary(o.Salary),
		o.URL,
		string(o.Source),
		o.PublishedAt.UTC().Format(time.DateOnly),
	}
}

func formatSalary(s *domain.Salary) string {
	if s == nil {
		return ""
	}

	amount := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	var b strings.Builder
	switch {
	case s.Min > 0 && s.Max > 0 && s.Min != s.Max:
		b.WriteString(amount(s.Min) + "-" + amount(s.Max))
	case s.Max > 0:
		b.WriteString(amount(s.Max))
	case s.Min > 0:
		b.WriteString(amount(s.Min))
	default:
		return ""
	}
	if s.Currency != "" {
		b.WriteString(" " + s.Currency)
	}
	if s.Period != "" {
		b.WriteString("/" + string(s.Period))
	}
	return b.String()
}
