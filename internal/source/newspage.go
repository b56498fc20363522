package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/util"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// Briefing-room sections scraped by the news adapter, with the event type
// each implies when the title gives nothing better.
var newsSections = []struct {
	path      string
	eventType model.EventType
}{
	{"briefing-room/speeches-remarks", model.EventSpeech},
	{"briefing-room/statements-releases", model.EventStatement},
	{"briefing-room/press-briefings", model.EventBriefing},
}

const newsListingPages = 3

var (
	articleLinkRe = regexp.MustCompile(`(?is)<a[^>]+href="([^"]*?/briefing-room/[^"#]+)"[^>]*>(.*?)</a>`)

	newsTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`),
		regexp.MustCompile(`(?is)<meta\s+property="og:title"\s+content="([^"]+)"`),
		regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`),
	}
	newsDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<time[^>]+datetime="([^"]+)"`),
		regexp.MustCompile(`(?is)<meta\s+property="article:published_time"\s+content="([^"]+)"`),
		regexp.MustCompile(`(?is)<time[^>]*>(.*?)</time>`),
		regexp.MustCompile(`(?is)class="(?:date|posted-on)"[^>]*>([^<]+)<`),
	}
	newsBodyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<div[^>]+class="[^"]*entry-content[^"]*"[^>]*>(.*?)</div>\s*<(?:footer|aside|div)`),
		regexp.MustCompile(`(?is)<article[^>]*>(.*?)</article>`),
		regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`),
	}

	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`###`),
		regexp.MustCompile(`(?is)Share this:.*`),
		regexp.MustCompile(`(?is)Related Articles.*`),
		regexp.MustCompile(`(?is)Tags:.*`),
	}

	speakerLineRe = regexp.MustCompile(`(?m)^\s*(THE PRESIDENT|THE VICE PRESIDENT|[A-Z][A-Z .'-]{2,40}):`)
)

// NewsAdapter scrapes the executive-branch press pages: listing pages per
// section, then each article page. All parsing is tolerant regex passes with
// fallbacks; hostile markup yields an empty listing, never a crash.
type NewsAdapter struct {
	cfg      model.SourceConfig
	speakers []model.Speaker
	fetcher  *Fetcher
	window   *worker.HourlyWindow
	robots   *util.RobotsChecker
}

// NewNewsAdapter creates the executive-branch-news adapter.
func NewNewsAdapter(cfg model.SourceConfig, speakers []model.Speaker, fetcher *Fetcher, robots *util.RobotsChecker) *NewsAdapter {
	return &NewsAdapter{
		cfg:      cfg,
		speakers: speakers,
		fetcher:  fetcher,
		window:   worker.NewHourlyWindow(cfg.MaxPerHour),
		robots:   robots,
	}
}

func (a *NewsAdapter) Tag() string  { return "wh" }
func (a *NewsAdapter) Name() string { return "White House" }

// Initialize verifies the base URL and warms the robots.txt cache.
func (a *NewsAdapter) Initialize(ctx context.Context) error {
	if a.cfg.BaseURL == "" {
		return fmt.Errorf("news: missing base URL")
	}
	if a.robots != nil {
		_, _, _ = a.robots.CanFetch(ctx, a.cfg.BaseURL+"/")
	}
	return nil
}

// Fetch walks the configured sections, collects article links, and scrapes
// each article into a candidate.
func (a *NewsAdapter) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	result := &FetchResult{}
	seen := make(map[string]bool)

	for _, section := range newsSections {
		links, err := a.listSection(ctx, section.path, result)
		if err != nil {
			return result, err
		}

		for _, link := range links {
			if opts.MaxItems > 0 && len(result.Items) >= opts.MaxItems {
				return result, nil
			}
			if seen[link.url] {
				continue
			}
			seen[link.url] = true

			candidate, err := a.scrapeArticle(ctx, link.url, link.title, section.eventType)
			if err != nil {
				if err == ErrRateLimited {
					return result, err
				}
				recordItemError(result, link.url, err)
				continue
			}
			if candidate != nil {
				result.Items = append(result.Items, *candidate)
			}
		}
	}

	return result, nil
}

type articleLink struct {
	url   string
	title string
}

// listSection fetches up to newsListingPages listing pages of one section.
// A failed page ends pagination for the section but is not fatal.
func (a *NewsAdapter) listSection(ctx context.Context, path string, result *FetchResult) ([]articleLink, error) {
	var links []articleLink

	for page := 1; page <= newsListingPages; page++ {
		pageURL := fmt.Sprintf("%s/%s/", a.cfg.BaseURL, path)
		if page > 1 {
			pageURL = fmt.Sprintf("%s/%s/page/%d/", a.cfg.BaseURL, path, page)
		}

		if a.robots != nil && !a.robots.IsAllowed(ctx, pageURL) {
			break
		}
		if !a.window.Hit() {
			return links, ErrRateLimited
		}

		body, err := a.fetcher.Get(ctx, pageURL)
		if err != nil {
			if err == ErrRateLimited {
				return links, err
			}
			recordItemError(result, pageURL, err)
			break
		}

		for _, m := range articleLinkRe.FindAllStringSubmatch(string(body), -1) {
			href := m[1]
			title := StripHTML(m[2])
			if len(title) <= 10 {
				continue
			}
			if strings.HasPrefix(href, "/") {
				href = a.cfg.BaseURL + href
			}
			links = append(links, articleLink{url: href, title: title})
		}
	}

	return links, nil
}

// scrapeArticle fetches one article page and extracts title, date, speaker,
// and the cleaned transcript text. Returns (nil, nil) for articles whose
// body is too short to be a transcript.
func (a *NewsAdapter) scrapeArticle(ctx context.Context, articleURL, linkTitle string, sectionType model.EventType) (*Candidate, error) {
	if a.robots != nil && !a.robots.IsAllowed(ctx, articleURL) {
		return nil, nil
	}
	if !a.window.Hit() {
		return nil, ErrRateLimited
	}

	body, err := a.fetcher.Get(ctx, articleURL)
	if err != nil {
		return nil, err
	}
	page := string(body)

	title := firstMatch(page, newsTitlePatterns)
	if title == "" {
		title = linkTitle
	}
	title = DecodeEntities(title)

	date := ParseDate(firstMatch(page, newsDatePatterns))

	text := ""
	if raw := firstMatch(page, newsBodyPatterns); raw != "" {
		text = StripHTML(raw)
	}
	if text == "" {
		text = visibleText(page)
	}
	text = stripBoilerplate(text)

	if len(text) < 500 {
		return nil, nil
	}

	eventType := InferEventType(title)
	if eventType == model.EventSpeech && sectionType != model.EventSpeech {
		eventType = sectionType
	}

	return &Candidate{
		Title:       title,
		Date:        date,
		URL:         articleURL,
		Text:        text,
		EventType:   eventType,
		SpeakerHint: a.speakerHint(title, text),
		Metadata:    map[string]any{"section": string(sectionType)},
	}, nil
}

// speakerHint identifies the primary speaker: first by the speaker table's
// match patterns against the title and lead text, then by the transcript's
// own "SPEAKER:" lines.
func (a *NewsAdapter) speakerHint(title, text string) string {
	lead := text
	if len(lead) > 2000 {
		lead = lead[:2000]
	}
	combined := strings.ToLower(title + " " + lead)

	for _, s := range a.speakers {
		for _, pattern := range s.MatchPatterns {
			re, err := regexp.Compile(`(?i)` + pattern)
			if err != nil {
				continue
			}
			if re.MatchString(combined) {
				return s.Name
			}
		}
	}

	if m := speakerLineRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	return ""
}

func stripBoilerplate(text string) string {
	for _, re := range boilerplateRes {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
