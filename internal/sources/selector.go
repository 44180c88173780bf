package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/careers-sync/internal/fetch"
	"github.com/jonathan/careers-sync/internal/types"
	"go.uber.org/zap"
)

// defaultMaxPages bounds pagination when max_pages is not configured.
const defaultMaxPages = 200

// Pager fetches parsed pages. *fetch.Client satisfies it.
type Pager interface {
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

// SelectorAdapter scrapes a career site with CSS selectors.
type SelectorAdapter struct {
	cfg    Config
	pager  Pager
	logger *zap.Logger
}

// NewSelectorAdapter creates a SelectorAdapter.
func NewSelectorAdapter(cfg Config, pager Pager, logger *zap.Logger) *SelectorAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectorAdapter{
		cfg:    cfg,
		pager:  pager,
		logger: logger.Named("adapter").With(zap.String("source", cfg.Name)),
	}
}

// Name implements Adapter.
func (a *SelectorAdapter) Name() string {
	return a.cfg.Name
}

// DiscoverURLs implements Adapter. Paginated listings stop at the first page
// that adds no new link or at a 404 past the first page. Any other page
// failure fails the whole discovery: a partial set would expire live postings.
func (a *SelectorAdapter) DiscoverURLs(ctx context.Context) (types.URLSet, error) {
	urls := types.NewURLSet()
	for _, listing := range a.cfg.Discovery.ListingURLs {
		if !strings.Contains(listing, PageToken) {
			if _, err := a.collect(ctx, listing, urls); err != nil {
				return nil, err
			}
			continue
		}

		maxPages := a.cfg.Discovery.MaxPages
		if maxPages <= 0 {
			maxPages = defaultMaxPages
		}
		start := a.cfg.Discovery.StartPage
		for page := start; page < start+maxPages; page++ {
			pageURL := strings.ReplaceAll(listing, PageToken, strconv.Itoa(page))
			added, err := a.collect(ctx, pageURL, urls)
			if err != nil {
				var fe *fetch.Error
				if page > start && errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
					break
				}
				return nil, err
			}
			if added == 0 {
				break
			}
		}
	}

	a.logger.Info("discovered postings", zap.Int("count", urls.Len()))
	return urls, nil
}

// collect adds the posting links of one listing page and returns how many were new.
func (a *SelectorAdapter) collect(ctx context.Context, pageURL string, urls types.URLSet) (int, error) {
	doc, err := a.pager.Document(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch listing %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse listing URL %s: %w", pageURL, err)
	}

	before := urls.Len()
	doc.Find(a.cfg.Discovery.LinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if link, ok := a.resolve(base, href); ok {
			urls.Add(link)
		}
	})

	added := urls.Len() - before
	a.logger.Debug("listing page", zap.String("url", pageURL), zap.Int("added", added))
	return added, nil
}

// resolve makes href absolute, drops its fragment and applies the href filter.
func (a *SelectorAdapter) resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	abs.Fragment = ""
	abs.RawFragment = ""
	link := abs.String()

	if len(a.cfg.Discovery.HrefContains) == 0 {
		return link, true
	}
	for _, sub := range a.cfg.Discovery.HrefContains {
		if strings.Contains(link, sub) {
			return link, true
		}
	}
	return "", false
}

// FetchDetail implements Adapter.
func (a *SelectorAdapter) FetchDetail(ctx context.Context, pageURL string) (*types.RawRecord, error) {
	doc, err := a.pager.Document(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return a.Extract(pageURL, doc), nil
}

// Extract reads a parsed detail page into a raw record. Configured field
// selectors win over label matches; the description falls back to the page's
// main text.
func (a *SelectorAdapter) Extract(pageURL string, doc *goquery.Document) *types.RawRecord {
	raw := types.NewRawRecord(pageURL)

	for key, fs := range a.cfg.Fields {
		sel := doc.Find(fs.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		raw.Set(key, selectionValue(sel, fs.Attr))
	}

	for key, fs := range a.cfg.Lists {
		doc.Find(fs.Selector).Each(func(_ int, s *goquery.Selection) {
			raw.Append(key, selectionValue(s, fs.Attr))
		})
	}

	if a.cfg.Labels != nil {
		a.extractLabels(doc, raw)
	}

	if raw.Get(types.FieldDescription) == "" {
		platform := fetch.DetectPlatform(pageURL)
		raw.Set(types.FieldDescription, fetch.MainText(doc.Selection,
			fetch.PlatformContentSelectors(platform), fetch.PlatformNoiseSelectors(platform)...))
	}
	if raw.Get(types.FieldEmployerName) == "" && a.cfg.EmployerName != "" {
		raw.Set(types.FieldEmployerName, a.cfg.EmployerName)
	}

	return raw
}

func (a *SelectorAdapter) extractLabels(doc *goquery.Document, raw *types.RawRecord) {
	labelSel := a.cfg.Labels.LabelSelector
	if labelSel == "" {
		labelSel = "dt"
	}
	valueSel := a.cfg.Labels.ValueSelector
	if valueSel == "" {
		valueSel = "dd"
	}

	doc.Find(labelSel).Each(func(_ int, label *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(label.Text()))
		if text == "" {
			return
		}
		value := label.NextAllFiltered(valueSel).First()
		if value.Length() == 0 {
			return
		}
		for _, rule := range a.cfg.Labels.Rules {
			if !strings.Contains(text, strings.ToLower(rule.Contains)) {
				continue
			}
			if rule.List {
				raw.Append(rule.Field, listItems(value)...)
			} else {
				raw.Set(rule.Field, fetch.MainText(value, nil))
			}
			return
		}
	})
}

func selectionValue(s *goquery.Selection, attr string) string {
	if attr != "" {
		v, _ := s.Attr(attr)
		return strings.TrimSpace(v)
	}
	return fetch.MainText(s, nil)
}

// listItems returns the <li> texts of s, or its non-empty lines when it has none.
func listItems(s *goquery.Selection) []string {
	var items []string
	if lis := s.Find("li"); lis.Length() > 0 {
		lis.Each(func(_ int, li *goquery.Selection) {
			items = append(items, strings.TrimSpace(li.Text()))
		})
		return items
	}
	for _, line := range strings.Split(fetch.MainText(s, nil), "\n") {
		for _, part := range strings.Split(line, ",") {
			items = append(items, strings.TrimSpace(part))
		}
	}
	return items
}
