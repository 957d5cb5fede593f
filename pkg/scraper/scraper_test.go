package scraper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-recipe-scraper/pkg/httpclient"
	"github.com/shouni/go-recipe-scraper/pkg/types"
)

// fakeExtractor は URL ごとに決められたレコードまたはエラーを返します。
type fakeExtractor struct {
	failures map[string]error
	calls    []string
}

func (f *fakeExtractor) FetchAndExtract(ctx context.Context, url string) (types.Recipe, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.failures[url]; ok {
		return types.Recipe{}, err
	}
	r := types.NewRecipe(url)
	r.Name = "name of " + url
	return r, nil
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func urlsOf(table types.Table) []string {
	urls := make([]string, 0, len(table))
	for _, r := range table {
		urls = append(urls, r.URL)
	}
	return urls
}

func TestScrape_PreservesOrder(t *testing.T) {
	urls := []string{"https://e.com/recipe/3", "https://e.com/recipe/1", "https://e.com/recipe/2"}
	fx := &fakeExtractor{}

	table := New(fx, WithLogger(newTestLogger(&bytes.Buffer{}))).Scrape(context.Background(), urls)

	assert.Equal(t, urls, urlsOf(table))
	assert.Equal(t, urls, fx.calls)
}

// 接続エラーのURLはレコードが追加されず、ログが出力され、次のURLに進む
func TestScrape_SkipsFailedFetch(t *testing.T) {
	var logBuf bytes.Buffer
	failing := "https://e.com/recipe/down"
	fx := &fakeExtractor{failures: map[string]error{
		failing: &httpclient.FetchError{URL: failing, Err: errors.New("connection refused")},
	}}

	var results []types.URLResult
	s := New(fx, WithLogger(newTestLogger(&logBuf)), WithResultHook(func(r types.URLResult) {
		results = append(results, r)
	}))

	table := s.Scrape(context.Background(), []string{"https://e.com/recipe/a", failing, "https://e.com/recipe/b"})

	assert.Equal(t, []string{"https://e.com/recipe/a", "https://e.com/recipe/b"}, urlsOf(table))
	assert.Len(t, fx.calls, 3)

	logs := logBuf.String()
	assert.Contains(t, logs, "URLの取得に失敗しました")
	assert.Contains(t, logs, failing)
	assert.Contains(t, logs, "connection refused")

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, failing, results[1].URL)
	assert.NoError(t, results[2].Err)
}

// 取得エラーと解析エラーは異なるメッセージでログに残る
func TestScrape_LogsParseFailureSeparately(t *testing.T) {
	var logBuf bytes.Buffer
	fx := &fakeExtractor{failures: map[string]error{
		"https://e.com/recipe/garbled": errors.New("HTML解析に失敗しました"),
	}}

	table := New(fx, WithLogger(newTestLogger(&logBuf))).Scrape(context.Background(), []string{"https://e.com/recipe/garbled"})

	assert.Empty(t, table)
	logs := logBuf.String()
	assert.Contains(t, logs, "ページの解析に失敗しました")
	assert.NotContains(t, logs, "URLの取得に失敗しました")
}

// 同じURLが2回現れた場合、重複排除せずに2行を追加する
func TestScrape_DuplicateURLs(t *testing.T) {
	u := "https://e.com/recipe/x"
	table := New(&fakeExtractor{}, WithLogger(newTestLogger(&bytes.Buffer{}))).Scrape(context.Background(), []string{u, u})

	require.Len(t, table, 2)
	assert.Equal(t, table[0], table[1])
}

func TestScrape_Limit(t *testing.T) {
	urls := []string{"u1", "u2", "u3", "u4"}
	fx := &fakeExtractor{}

	table := New(fx, WithLimit(2), WithLogger(newTestLogger(&bytes.Buffer{}))).Scrape(context.Background(), urls)

	assert.Equal(t, []string{"u1", "u2"}, urlsOf(table))
	assert.Equal(t, []string{"u1", "u2"}, fx.calls)
}

func TestScrape_ProgressMilestones(t *testing.T) {
	var logBuf bytes.Buffer
	urls := []string{"u1", "u2", "u3", "u4", "u5"}

	New(&fakeExtractor{}, WithProgressEvery(2), WithLogger(newTestLogger(&logBuf))).Scrape(context.Background(), urls)

	logs := logBuf.String()
	assert.Equal(t, 2, strings.Count(logs, "msg=処理件数"))
	assert.Contains(t, logs, "processed=2")
	assert.Contains(t, logs, "processed=4")
	assert.Equal(t, 5, strings.Count(logs, "msg=処理完了"))
}

func TestScrape_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fx := &fakeExtractor{}

	table := New(fx, WithLogger(newTestLogger(&bytes.Buffer{}))).Scrape(ctx, []string{"u1", "u2"})

	assert.Empty(t, table)
	assert.Empty(t, fx.calls)
}

func TestScrape_NoURLs(t *testing.T) {
	table := New(&fakeExtractor{}).Scrape(context.Background(), nil)
	assert.NotNil(t, table)
	assert.Empty(t, table)
}

// 同じ入力に対して2回実行した結果は一致する
func TestScrape_Idempotent(t *testing.T) {
	urls := []string{"u1", "bad", "u2", "u1"}
	fx := &fakeExtractor{failures: map[string]error{"bad": errors.New("boom")}}
	s := New(fx, WithLogger(newTestLogger(&bytes.Buffer{})))

	first := s.Scrape(context.Background(), urls)
	second := s.Scrape(context.Background(), urls)

	assert.ElementsMatch(t, first, second)
}
