// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/clinical-briefing/internal/httputil"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleEfetch = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2025//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_250101.dtd">
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation Status="Publisher" Owner="NLM">
      <PMID Version="1">40000001</PMID>
      <Article PubModel="Print-Electronic">
        <Journal>
          <Title>Gastroenterology</Title>
          <JournalIssue CitedMedium="Internet">
            <PubDate><Year>2025</Year><Month>Mar</Month><Day>14</Day></PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Vonoprazan versus lansoprazole for <i>Helicobacter pylori</i> eradication: a randomized trial.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND" NlmCategory="BACKGROUND">First-line regimens are failing.</AbstractText>
          <AbstractText Label="CONCLUSIONS" NlmCategory="CONCLUSIONS">Vonoprazan was superior &amp; well tolerated.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">40000002</PMID>
      <Article>
        <Journal>
          <Title>Hepatology</Title>
          <JournalIssue>
            <PubDate><MedlineDate>2025 Mar-Apr</MedlineDate></PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Outcomes of H<sub>2</sub> blockers in cirrhosis</ArticleTitle>
        <Abstract>
          <AbstractText>Unstructured abstract text.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID></PMID>
      <Article><ArticleTitle>No identifier</ArticleTitle></Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

// --- ParseArticles ---

func TestParseArticles(t *testing.T) {
	records, err := ParseArticles([]byte(sampleEfetch))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "40000001", first.ID)
	assert.Equal(t, "Vonoprazan versus lansoprazole for Helicobacter pylori eradication: a randomized trial.", first.Title)
	assert.Equal(t, "Gastroenterology", first.Journal)
	assert.Equal(t, "2025 Mar 14", first.Date)
	assert.Equal(t, []types.AbstractSegment{
		{Label: "BACKGROUND", Text: "First-line regimens are failing."},
		{Label: "CONCLUSIONS", Text: "Vonoprazan was superior & well tolerated."},
	}, first.AbstractSegments)

	second := records[1]
	assert.Equal(t, "Outcomes of H2 blockers in cirrhosis", second.Title)
	assert.Equal(t, "2025 Mar-Apr", second.Date)
	assert.Equal(t, []types.AbstractSegment{{Text: "Unstructured abstract text."}}, second.AbstractSegments)
}

func TestParseArticlesEmptySet(t *testing.T) {
	records, err := ParseArticles([]byte(`<PubmedArticleSet></PubmedArticleSet>`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseArticlesMalformed(t *testing.T) {
	_, err := ParseArticles([]byte(`<PubmedArticleSet><PubmedArticle>`))
	assert.Error(t, err)
}

// --- Limit ---

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.FetchConfig
		want rate.Limit
	}{
		{"anonymous", types.FetchConfig{}, 3},
		{"api key", types.FetchConfig{APIKey: "k"}, 10},
		{"explicit override", types.FetchConfig{APIKey: "k", RequestsPerSecond: 1.5}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Limit(tt.cfg))
		})
	}
}

// --- Client ---

func newTestClient(t *testing.T, baseURL string, mutate ...func(*types.FetchConfig)) *Client {
	t.Helper()
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "clinical-briefing-test"},
		BaseURL:    baseURL,
		Tool:       "clinical-briefing",
		MaxRetries: 2,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c := New(cfg, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestClientFetch(t *testing.T) {
	var searchQuery, fetchQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clinical-briefing-test", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/esearch.fcgi":
			searchQuery = r.URL.Query()
			fmt.Fprint(w, `{"header":{"type":"esearch"},"esearchresult":{"count":"2","retmax":"2","idlist":["40000001","40000002"]}}`)
		case "/efetch.fcgi":
			fetchQuery = r.URL.Query()
			fmt.Fprint(w, sampleEfetch)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL+"/", func(cfg *types.FetchConfig) {
		cfg.RecentDays = 7
		cfg.Email = "me@example.com"
		cfg.APIKey = "secret"
	})

	records, err := c.Fetch(context.Background(), types.Category{Name: "GI", Query: "gastroenterology[Journal]", Limit: 15})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "40000001", records[0].ID)

	assert.Equal(t, "pubmed", searchQuery.Get("db"))
	assert.Equal(t, "gastroenterology[Journal]", searchQuery.Get("term"))
	assert.Equal(t, "15", searchQuery.Get("retmax"))
	assert.Equal(t, "pub_date", searchQuery.Get("sort"))
	assert.Equal(t, "json", searchQuery.Get("retmode"))
	assert.Equal(t, "7", searchQuery.Get("reldate"))
	assert.Equal(t, "pdat", searchQuery.Get("datetype"))
	assert.Equal(t, "clinical-briefing", searchQuery.Get("tool"))
	assert.Equal(t, "me@example.com", searchQuery.Get("email"))
	assert.Equal(t, "secret", searchQuery.Get("api_key"))

	assert.Equal(t, "40000001,40000002", fetchQuery.Get("id"))
	assert.Equal(t, "xml", fetchQuery.Get("retmode"))
}

func TestClientSearchDefaults(t *testing.T) {
	var q url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query()
		fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
	}))
	defer ts.Close()

	ids, err := newTestClient(t, ts.URL).Search(context.Background(), "liver", 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, "20", q.Get("retmax"))
	assert.Empty(t, q.Get("reldate"))
	assert.Empty(t, q.Get("email"))
	assert.Empty(t, q.Get("api_key"))
}

func TestClientNoIDsSkipsEfetch(t *testing.T) {
	var efetchCalls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/efetch.fcgi" {
			atomic.AddInt32(&efetchCalls, 1)
		}
		fmt.Fprint(w, `{"esearchresult":{"count":"0","idlist":[]}}`)
	}))
	defer ts.Close()

	records, err := newTestClient(t, ts.URL).FetchRecords(context.Background(), "pancreas", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, atomic.LoadInt32(&efetchCalls))
}

func TestClientEmptyQuery(t *testing.T) {
	_, err := newTestClient(t, "http://127.0.0.1:0").Search(context.Background(), "  ", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty PubMed query")
}

func TestClientEsearchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"ERROR":"Invalid query"}}`)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Search(context.Background(), "((", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid query")
}

func TestClientHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL).Fetch(context.Background(), types.Category{Name: "Liver", Query: "liver"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category Liver")
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"esearchresult":{"idlist":["1"]}}`)
	}))
	defer ts.Close()

	ids, err := newTestClient(t, ts.URL).Search(context.Background(), "gi", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	for i := 0; i < breakerTrips; i++ {
		_, err := c.Search(context.Background(), "gi", 5)
		require.Error(t, err)
		assert.False(t, IsCircuitOpen(err))
	}

	_, err := c.Search(context.Background(), "gi", 5)
	require.Error(t, err)
	assert.True(t, IsCircuitOpen(err))
	assert.Equal(t, int32(breakerTrips), atomic.LoadInt32(&calls))
}

func TestClientContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, ts.URL).Search(ctx, "gi", 5)
	assert.ErrorIs(t, err, context.Canceled)
}
