package macro

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-signal-bot/internal/logger"
	"market-signal-bot/internal/types"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// indicatorPage describes one TradingEconomics page to scrape.
type indicatorPage struct {
	Name string
	URL  string
	Unit string
}

func defaultIndicatorPages() []indicatorPage {
	return []indicatorPage{
		{"GDP Growth", "https://tradingeconomics.com/united-states/gdp-growth", "%"},
		{"Inflation Rate", "https://tradingeconomics.com/united-states/inflation-cpi", "%"},
		{"Unemployment Rate", "https://tradingeconomics.com/united-states/unemployment-rate", "%"},
		{"Interest Rate (Fed)", "https://tradingeconomics.com/united-states/interest-rate", "%"},
		{"Retail Sales (MoM)", "https://tradingeconomics.com/united-states/retail-sales", "%"},
		{"Industrial Production", "https://tradingeconomics.com/united-states/industrial-production", "%"},
	}
}

const fomcCalendarURL = "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm"

// Scraper extracts macro indicators from TradingEconomics pages and the
// next FOMC meeting date from the Federal Reserve calendar. It backs up
// the FRED API path with the same indicator labels.
type Scraper struct {
	pages       []indicatorPage
	calendarURL string
	timeout     time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		pages:       defaultIndicatorPages(),
		calendarURL: fomcCalendarURL,
		timeout:     timeout,
	}
}

// ScrapeIndicators visits each indicator page and extracts the headline
// value. Pages that fail or yield nothing are logged and skipped.
func (s *Scraper) ScrapeIndicators(ctx context.Context) ([]types.MacroIndicator, error) {
	indicators := make([]types.MacroIndicator, 0, len(s.pages))
	for _, page := range s.pages {
		value, err := s.scrapeValue(ctx, page.URL)
		if err != nil {
			logger.Warn(ctx, "Indicator scrape failed", "indicator", page.Name, "error", err)
			continue
		}
		indicators = append(indicators, types.MacroIndicator{
			Name:    page.Name,
			Value:   value,
			Unit:    page.Unit,
			Country: "USA",
			Source:  "TradingEconomics",
		})
	}
	return indicators, nil
}

func (s *Scraper) scrapeValue(ctx context.Context, pageURL string) (string, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(pageURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	var value string
	// The headline value renders in either of these containers depending
	// on the page template.
	for _, selector := range []string{"div.pull-left", "div.datatable-item-value"} {
		c.OnHTML(selector, func(e *colly.HTMLElement) {
			if value == "" {
				value = strings.TrimSpace(e.Text)
			}
		})
	}

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("visit %s: %w", pageURL, err)
	}
	c.Wait()

	if value == "" {
		return "", fmt.Errorf("no indicator value found at %s", pageURL)
	}
	return value, nil
}

// ScrapeFedCalendar returns the next FOMC meeting as a MacroEvent, or an
// empty slice when no parseable meeting row is found.
func (s *Scraper) ScrapeFedCalendar(ctx context.Context) ([]types.MacroEvent, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(s.calendarURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	var events []types.MacroEvent
	c.OnHTML("table.fomc-meeting-calendars", func(e *colly.HTMLElement) {
		if len(events) > 0 {
			return
		}
		e.DOM.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
			if i == 0 {
				return true // header row
			}
			dateText := strings.TrimSpace(row.Find("td").First().Text())
			if dateText == "" {
				return true
			}
			date, ok := parseMeetingDate(dateText)
			if !ok {
				return true
			}
			events = append(events, types.MacroEvent{
				Name:   "FOMC Meeting",
				Date:   date,
				Source: "FederalReserve.gov",
			})
			return false
		})
	})

	if err := c.Visit(s.calendarURL); err != nil {
		return nil, fmt.Errorf("visit fed calendar: %w", err)
	}
	c.Wait()

	if len(events) == 0 {
		logger.Warn(ctx, "No FOMC meeting date found")
	}
	return events, nil
}

// parseMeetingDate handles both single dates ("March 19, 2025") and
// meeting ranges ("March 18-19, 2025"), using the first day of a range.
func parseMeetingDate(text string) (time.Time, bool) {
	if t, err := time.Parse("January 2, 2006", text); err == nil {
		return t, true
	}
	// Range form: "Month D-D, YYYY" → keep the first day.
	if i := strings.Index(text, "-"); i >= 0 {
		if j := strings.Index(text, ","); j > i {
			single := text[:i] + text[j:]
			if t, err := time.Parse("January 2, 2006", single); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
