package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rostrumlab/rostrum/internal/model"
)

func TestLegislativeFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte(`{"results":[
			{"id":"rec-1","title":"Floor Speech on Trade","date":"2025-02-10","url":"https://example.gov/rec-1","text":"I rise today to speak about trade.","type":"floor"},
			{"id":"rec-2","title":"Hearing Transcript","date":"2025-02-11","url":"https://example.gov/rec-2","text":"","type":"hearing"}
		]}`))
	}))
	defer srv.Close()

	cfg := model.SourceConfig{Enabled: true, BaseURL: srv.URL, APIKey: "k", MaxPerHour: 100}
	speakers := []model.Speaker{{ID: "jd-vance", Name: "JD Vance", SearchTerms: []string{"Vance"}}}
	a := NewLegislativeAdapter(cfg, speakers, NewFetcher(testHTTPConfig()))

	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	result, err := a.Fetch(context.Background(), FetchOptions{MaxItems: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 item error for the empty record, got %d", len(result.Errors))
	}

	item := result.Items[0]
	if item.ExternalID != "rec-1" {
		t.Errorf("ExternalID = %q", item.ExternalID)
	}
	if item.EventType != model.EventFloorSpeech {
		t.Errorf("EventType = %q", item.EventType)
	}
	if item.SpeakerHint != "JD Vance" {
		t.Errorf("SpeakerHint = %q", item.SpeakerHint)
	}
}

func TestLegislativeInitializeRequiresKey(t *testing.T) {
	a := NewLegislativeAdapter(model.SourceConfig{BaseURL: "https://example.gov"}, nil, nil)
	if err := a.Initialize(context.Background()); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestCaptionsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"items":[{"id":"v1","title":"Rally in Tulsa","publishedAt":"2025-04-01T19:00:00Z","url":"https://example.com/v1"}]}`))
		case "/captions":
			_, _ = w.Write([]byte(`<transcript><text start="0" dur="2">we will win</text><text start="2" dur="2">bigly</text></transcript>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := model.SourceConfig{Enabled: true, BaseURL: srv.URL, APIKey: "k", MaxPerHour: 100}
	speakers := []model.Speaker{{
		ID:       "donald-trump",
		Name:     "Donald Trump",
		External: map[string]string{"channelId": "UC123"},
	}}
	a := NewCaptionsAdapter(cfg, speakers, NewFetcher(testHTTPConfig()))

	result, err := a.Fetch(context.Background(), FetchOptions{MaxItems: 5})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}

	item := result.Items[0]
	if item.ExternalID != "v1" {
		t.Errorf("ExternalID = %q", item.ExternalID)
	}
	if item.Text != "we will win bigly" {
		t.Errorf("Text = %q", item.Text)
	}
	if item.Date != "2025-04-01" {
		t.Errorf("Date = %q", item.Date)
	}
	if item.SpeakerHint != "Donald Trump" {
		t.Errorf("SpeakerHint = %q", item.SpeakerHint)
	}
}

func TestCaptionsWindowSaturation(t *testing.T) {
	cfg := model.SourceConfig{Enabled: true, BaseURL: "http://unused", APIKey: "k", MaxPerHour: 1}
	speakers := []model.Speaker{{ID: "x", Name: "X", External: map[string]string{"channelId": "c"}}}
	a := NewCaptionsAdapter(cfg, speakers, NewFetcher(testHTTPConfig()))
	a.window.Hit()

	_, err := a.Fetch(context.Background(), FetchOptions{MaxItems: 5})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestSocialFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/archive/realhandle.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"posts":[
			{"id":"p1","date":"2025-06-01","text":"Nobody has ever seen anything like it!","url":"https://example.social/p1"},
			{"id":"p2","date":"2025-06-02","text":"","url":"https://example.social/p2"}
		]}`))
	}))
	defer srv.Close()

	cfg := model.SourceConfig{Enabled: true, BaseURL: srv.URL, MaxPerHour: 100, Handles: []string{"realhandle"}}
	speakers := []model.Speaker{{
		ID:       "donald-trump",
		Name:     "Donald Trump",
		External: map[string]string{"social": "realhandle"},
	}}
	a := NewSocialAdapter(cfg, speakers, NewFetcher(testHTTPConfig()))

	if err := a.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	result, err := a.Fetch(context.Background(), FetchOptions{MaxItems: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 item error for the empty post, got %d", len(result.Errors))
	}

	item := result.Items[0]
	if item.EventType != model.EventSocialMedia {
		t.Errorf("EventType = %q", item.EventType)
	}
	if item.SpeakerHint != "Donald Trump" {
		t.Errorf("SpeakerHint = %q", item.SpeakerHint)
	}
}

func TestRSSFetchHonorsRequestDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<rss version="2.0"><channel><title>Briefing Room</title>
			<item><title>Remarks on Trade</title><link>https://example.com/1</link>
			<description>&lt;p&gt;We will win on trade.&lt;/p&gt;</description>
			<pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate></item>
			</channel></rss>`))
	}))
	defer srv.Close()

	cfg := model.SourceConfig{
		Enabled:      true,
		MaxPerHour:   100,
		RequestDelay: 30 * time.Millisecond,
		Feeds:        []string{srv.URL + "/a.xml", srv.URL + "/b.xml"},
	}
	a := NewRSSAdapter(cfg, testSpeakers, testHTTPConfig())

	start := time.Now()
	result, err := a.Fetch(context.Background(), FetchOptions{MaxItems: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Date != "2025-06-02" {
		t.Errorf("Date = %q", result.Items[0].Date)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("two feeds with a 30ms delay took %v, want >= 30ms", elapsed)
	}
}

func TestNewsFetch(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/robots.txt":
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
		case r.URL.Path == "/briefing-room/speeches-remarks/":
			_, _ = w.Write([]byte(`<html><body>
				<a href="` + srv.URL + `/briefing-room/remarks-on-trade/">Remarks by President Trump on Trade</a>
			</body></html>`))
		case r.URL.Path == "/briefing-room/remarks-on-trade/":
			body := "<p>THE PRESIDENT: This is the greatest economy in history. "
			for i := 0; i < 30; i++ {
				body += "We are doing things nobody thought possible. "
			}
			body += "</p>"
			_, _ = w.Write([]byte(`<html><body><h1>Remarks by President Trump on Trade</h1>
				<time datetime="2025-03-14T12:00:00Z">March 14, 2025</time>
				<article>` + body + `</article></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := model.SourceConfig{Enabled: true, BaseURL: srv.URL, MaxPerHour: 100}
	a := NewNewsAdapter(cfg, testSpeakers, NewFetcher(testHTTPConfig()), nil)

	result, err := a.Fetch(context.Background(), FetchOptions{MaxItems: 5})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}

	item := result.Items[0]
	if item.Title != "Remarks by President Trump on Trade" {
		t.Errorf("Title = %q", item.Title)
	}
	if item.Date != "2025-03-14" {
		t.Errorf("Date = %q", item.Date)
	}
	if item.SpeakerHint != "Donald Trump" {
		t.Errorf("SpeakerHint = %q", item.SpeakerHint)
	}
}
