package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Houeta/pulsemarket/internal/api"
	"github.com/Houeta/pulsemarket/internal/feed"
	"github.com/Houeta/pulsemarket/internal/filter"
	"github.com/Houeta/pulsemarket/internal/models"
	"github.com/Houeta/pulsemarket/internal/pagination"
	"github.com/Houeta/pulsemarket/internal/parser"
	"gopkg.in/telebot.v4"
)

// Callback uniques of the inline buttons.
const (
	btnPage  = "page"
	btnLimit = "limit"
	btnNoop  = "noop"
)

const descriptionLimit = 140

const (
	textIdle    = "Use /feed to load products."
	textLoading = "Loading products..."
	textEmpty   = "No products match these filters. Try /reset or widen the search."
	textFailed  = "Could not load products: %s\nTry /feed again in a moment."

	fallbackUnavailable = "the marketplace did not answer"
)

func renderFeed(res feed.Result, ceiling int) string {
	var sb strings.Builder

	sb.WriteString(renderFilters(res.Filters, ceiling))
	sb.WriteString("\n\n")

	switch res.Status {
	case feed.Idle:
		sb.WriteString(textIdle)
	case feed.Loading:
		sb.WriteString(textLoading)
	case feed.Empty:
		sb.WriteString(textEmpty)
	case feed.Failed:
		fmt.Fprintf(&sb, textFailed, api.UserMessage(res.Err, fallbackUnavailable))
	case feed.Populated:
		fmt.Fprintf(&sb, "Page %d of %d\n", res.Filters.Page, res.TotalPages())
		offset := (res.Filters.Page - 1) * res.Filters.Limit
		for i, p := range res.Items() {
			sb.WriteString("\n")
			sb.WriteString(renderProduct(offset+i+1, p))
		}
	}

	return sb.String()
}

func renderProduct(n int, p models.Product) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d. %s · %s %s", n, p.Name, p.Price.StringFixed(2), p.CurrencyLabel())
	if p.Stock > 0 {
		fmt.Fprintf(&sb, " · %d in stock", p.Stock)
	}
	if p.IsGhostDrop() {
		sb.WriteString(" · 👻 ghost drop")
	}
	sb.WriteString("\n")

	if desc := truncate(parser.MustPlainText(p.Description), descriptionLimit); desc != "" {
		sb.WriteString("   ")
		sb.WriteString(strings.ReplaceAll(desc, "\n", "\n   "))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderFilters(s filter.State, ceiling int) string {
	var parts []string

	if term := strings.TrimSpace(s.SearchTerm); term != "" {
		parts = append(parts, fmt.Sprintf("search %q", term))
	}
	if s.PriceRange < ceiling {
		parts = append(parts, fmt.Sprintf("up to %d", s.PriceRange))
	}
	for _, sel := range []struct{ name, value string }{
		{"status", s.Status},
		{"category", s.Category},
		{"store", s.StoreID},
		{"currency", s.Currency},
	} {
		if !filter.IsAll(sel.value) {
			parts = append(parts, sel.name+" "+sel.value)
		}
	}
	if s.GhostOnly {
		parts = append(parts, "ghost drops only")
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Filters: none · %d per page", s.Limit)
	}
	return fmt.Sprintf("Filters: %s · %d per page", strings.Join(parts, ", "), s.Limit)
}

// pagerMarkup renders the pager and page size rows. Disabled buttons and the
// current selection answer with a no-op callback.
func pagerMarkup(res feed.Result) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	if res.Status != feed.Populated {
		return markup
	}

	view := pagination.New(res.Filters.Page, res.TotalPages(), res.Filters.Limit)
	if !view.Visible() {
		return markup
	}

	pageBtn := func(label string, page int, enabled bool) telebot.Btn {
		if !enabled {
			return markup.Data(label, btnNoop)
		}
		return markup.Data(label, btnPage, strconv.Itoa(page))
	}

	pages := []telebot.Btn{
		pageBtn("«", 1, view.HasPrev()),
		pageBtn("‹", view.Prev(), view.HasPrev()),
	}
	for _, n := range view.Strip(pagination.DefaultStripWidth) {
		if n == view.Page {
			pages = append(pages, markup.Data(fmt.Sprintf("[%d]", n), btnNoop))
			continue
		}
		pages = append(pages, pageBtn(strconv.Itoa(n), n, view.CanJump(n)))
	}
	pages = append(pages,
		pageBtn("›", view.Next(), view.HasNext()),
		pageBtn("»", view.TotalPages, view.HasNext()),
	)

	limits := make([]telebot.Btn, 0, len(view.LimitChoices()))
	for _, n := range view.LimitChoices() {
		if n == view.Limit {
			limits = append(limits, markup.Data(fmt.Sprintf("[%d]", n), btnNoop))
			continue
		}
		limits = append(limits, markup.Data(strconv.Itoa(n), btnLimit, strconv.Itoa(n)))
	}

	markup.Inline(markup.Row(pages...), markup.Row(limits...))

	return markup
}

func renderProducts(title string, products []models.Product) string {
	if len(products) == 0 {
		return title + "\n\nNothing here yet."
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	for i, p := range products {
		sb.WriteString("\n")
		sb.WriteString(renderProduct(i+1, p))
	}
	return sb.String()
}

func renderChanges(changes *models.Changes) string {
	var sb strings.Builder

	sb.WriteString("The featured slide was updated.\n")
	if len(changes.Added) > 0 {
		sb.WriteString("\nNew:\n")
		for _, p := range changes.Added {
			fmt.Fprintf(&sb, "+ %s · %s %s\n", p.Name, p.Price.StringFixed(2), p.CurrencyLabel())
		}
	}
	if len(changes.Changed) > 0 {
		sb.WriteString("\nPrice changes:\n")
		for _, c := range changes.Changed {
			fmt.Fprintf(&sb, "~ %s · %s → %s %s\n",
				c.New.Name, c.Old.Price.StringFixed(2), c.New.Price.StringFixed(2), c.New.CurrencyLabel())
		}
	}
	if len(changes.Removed) > 0 {
		sb.WriteString("\nGone:\n")
		for _, p := range changes.Removed {
			fmt.Fprintf(&sb, "- %s\n", p.Name)
		}
	}
	sb.WriteString("\nSee them all with /featured.")

	return sb.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func renderGhostDrops(items []models.Product, lat, lng float64) string {
	var sb strings.Builder

	for _, p := range items {
		if !p.IsGhostDrop() {
			continue
		}
		if p.GhostDrop.Contains(lat, lng) {
			fmt.Fprintf(&sb, "✓ %s · you found it!", p.Name)
			if p.GhostDrop.Clue != "" {
				fmt.Fprintf(&sb, " Clue: %s", p.GhostDrop.Clue)
			}
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "· %s · %.0f m away\n", p.Name, p.GhostDrop.Distance(lat, lng))
	}

	if sb.Len() == 0 {
		return "No ghost drops on this page. Try /ghost and /feed first."
	}
	return "Ghost drops on this page:\n" + sb.String()
}
