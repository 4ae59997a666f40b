package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/honeycarbs/offerscout/internal/domain"
)

const titleWidth = 48

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderOffers prints one page of offers followed by paging info
func renderOffers(w io.Writer, res domain.SearchResult) {
	if len(res.Offers) == 0 {
		fmt.Fprintln(w, "No offers found.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Published", "Title", "Company", "Location", "Contract", "Salary", "Source"})
	for _, o := range res.Offers {
		t.AppendRow(table.Row{
			o.PublishedAt.Format("2006-01-02"),
			text.Trim(o.Title, titleWidth),
			o.Company,
			o.Location,
			string(o.ContractType),
			salary(o.Salary),
			string(o.Source),
		})
	}
	t.SetCaption("page %d/%d, %d offer(s) in total", res.CurrentPage, res.TotalPages, res.TotalCount)
	t.Render()
}

func renderSearches(w io.Writer, searches []domain.SearchFilters) {
	if len(searches) == 0 {
		fmt.Fprintln(w, "No saved searches.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Query", "Location", "Contracts", "Sources", "Days"})
	for i, f := range searches {
		contracts := make([]string, len(f.ContractTypes))
		for j, c := range f.ContractTypes {
			contracts[j] = string(c)
		}
		sources := make([]string, len(f.Sources))
		for j, s := range f.Sources {
			sources[j] = string(s)
		}
		days := ""
		if f.PublishedWithinDays > 0 {
			days = fmt.Sprint(f.PublishedWithinDays)
		}
		t.AppendRow(table.Row{i + 1, f.Query, f.Location, strings.Join(contracts, ","), strings.Join(sources, ","), days})
	}
	t.Render()
}

func renderStats(w io.Writer, stats domain.CacheStats) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Total", "Fresh", "Expired"})
	t.AppendRow(table.Row{stats.Total, stats.Recent, stats.Expired})
	t.Render()
}

func salary(s *domain.Salary) string {
	if s == nil {
		return "-"
	}
	switch {
	case s.Min > 0 && s.Max > 0 && s.Min != s.Max:
		return fmt.Sprintf("%.0f-%.0f %s/%s", s.Min, s.Max, s.Currency, s.Period)
	case s.Max > 0:
		return fmt.Sprintf("%.0f %s/%s", s.Max, s.Currency, s.Period)
	case s.Min > 0:
		return fmt.Sprintf("%.0f %s/%s", s.Min, s.Currency, s.Period)
	}
	return "-"
}
