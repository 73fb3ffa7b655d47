package pages

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed mappings.yml
var mappingsYAML []byte

// publishedAtLayouts are tried in order when parsing declared publication
// timestamps; pages are wildly inconsistent about the format they emit.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// Extractor downloads a page through the content cache, parses its meta tags,
// and maps them onto the page's Metadata record using the embedded
// keyword-to-field table.
type Extractor struct {
	db       *gorm.DB
	logger   *slog.Logger
	client   *http.Client
	mappings map[string][]string
}

// NewExtractor creates a metadata extractor. The timeout bounds each upstream
// page download.
func NewExtractor(db *gorm.DB, logger *slog.Logger, timeout time.Duration) (*Extractor, error) {
	var mappings map[string][]string
	if err := yaml.Unmarshal(mappingsYAML, &mappings); err != nil {
		return nil, fmt.Errorf("failed to parse metadata mappings: %w", err)
	}

	return &Extractor{
		db:       db,
		logger:   logger,
		client:   &http.Client{Timeout: timeout},
		mappings: mappings,
	}, nil
}

// Refresh extracts metadata for a page, creating its Metadata row on first
// use and updating it in place afterwards.
func (e *Extractor) Refresh(page *Page) (*Metadata, error) {
	body, err := CachedBody(e.db, e.client, page.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for %s: %w", page.URL, err)
	}
	tags := metaTags(doc)

	md, err := MetadataForPage(e.db, page.ID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to load metadata for page %d: %w", page.ID, err)
		}
		md = &Metadata{PageID: page.ID, CreatedAt: time.Now().UTC()}
		if err := e.db.Create(md).Error; err != nil {
			return nil, fmt.Errorf("failed to create metadata for page %d: %w", page.ID, err)
		}
	}

	e.apply(md, tags)

	if err := e.db.Save(md).Error; err != nil {
		return nil, fmt.Errorf("failed to save metadata for page %d: %w", page.ID, err)
	}
	e.logger.Debug("Refreshed page metadata",
		slog.Uint64("page_id", uint64(page.ID)),
		slog.String("url", page.URL),
		slog.Int("tags", len(tags)))
	return md, nil
}

// metaTags collects every declared meta tag, keyed by its property attribute
// falling back to its name attribute. Later declarations win.
func metaTags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, ok := sel.Attr("property")
		if !ok || key == "" {
			key, ok = sel.Attr("name")
		}
		if !ok || key == "" {
			return
		}
		content, _ := sel.Attr("content")
		tags[key] = content
	})
	return tags
}

// apply walks the mapping table and assigns the first matching keyword's
// content to each metadata field.
func (e *Extractor) apply(md *Metadata, tags map[string]string) {
	for field, keywords := range e.mappings {
		for _, keyword := range keywords {
			value, ok := tags[keyword]
			if !ok {
				continue
			}
			e.logger.Debug("Metadata hit",
				slog.String("field", field),
				slog.String("keyword", keyword),
				slog.String("value", value))
			setField(md, field, value)
			break
		}
	}
}

func setField(md *Metadata, field, value string) {
	switch field {
	case "title":
		md.Title = value
	case "site":
		md.Site = value
	case "image":
		md.Image = value
	case "locale":
		md.Locale = normalizeLocale(value)
	case "description":
		md.Description = value
	case "keywords":
		md.Keywords = value
	case "author":
		md.Author = value
	case "viewport":
		md.Viewport = value
	case "published_at":
		if t, ok := parsePublishedAt(value); ok {
			md.PublishedAt = &t
		}
	}
}

// normalizeLocale canonicalizes declared locales (e.g. "en_US" -> "en-US");
// unparseable values pass through untouched.
func normalizeLocale(value string) string {
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return value
	}
	return tag.String()
}

func parsePublishedAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
