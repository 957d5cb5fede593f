// Package pipeline は、サイトマップの読み込みからCSV出力までの一連の処理をまとめて実行します。
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-recipe-scraper/internal/config"
	"github.com/shouni/go-recipe-scraper/pkg/export"
	"github.com/shouni/go-recipe-scraper/pkg/extract"
	"github.com/shouni/go-recipe-scraper/pkg/httpclient"
	"github.com/shouni/go-recipe-scraper/pkg/scraper"
	"github.com/shouni/go-recipe-scraper/pkg/sitemap"
	"github.com/shouni/go-recipe-scraper/pkg/types"
)

// Deps は、Run に外部から注入できる依存関係です。ゼロ値の項目は cfg から生成されます。
type Deps struct {
	Fetcher  extract.Fetcher
	Logger   *slog.Logger
	OnResult func(types.URLResult)
}

// Result は1回の実行結果です。
type Result struct {
	URLs       []string    // 抽出対象となったレシピURL (重複を含む)
	Table      types.Table // 書き出したレコード
	Failed     []string    // 取得または解析に失敗してスキップしたURL
	OutputPath string
}

// CollectURLs は cfg.SitemapDir のサイトマップをすべて読み込み、レシピURLをファイル順に返します。
func CollectURLs(cfg *config.Config) ([]string, error) {
	contents, err := sitemap.LoadSitemaps(cfg.SitemapDir)
	if err != nil {
		return nil, err
	}
	urls, err := sitemap.CollectRecipeURLs(contents, cfg.Marker)
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// Run は、読み込み → URL抽出 → URLごとの取得と抽出 → CSV書き出し を順に実行します。
// サイトマップの読み込み・パースに失敗した場合は、ページを1件も取得せずにエラーを返します。
// URLごとの失敗はスキップされ、Result.Failed に記録されます。
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 1. サイトマップからURLを抽出
	urls, err := CollectURLs(cfg)
	if err != nil {
		return nil, fmt.Errorf("レシピURLの抽出に失敗しました: %w", err)
	}
	logger.Info("レシピURLを抽出しました", "total", len(urls), "sitemap_dir", cfg.SitemapDir)

	// 2. 依存性の初期化 (Fetcher -> Extractor -> Scraper)
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = httpclient.New(cfg.Timeout, httpclient.WithUserAgent(cfg.UserAgent))
	}
	extractor, err := extract.NewExtractor(fetcher)
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	result := &Result{URLs: urls, OutputPath: cfg.Output}
	s := scraper.New(extractor,
		scraper.WithLogger(logger),
		scraper.WithLimit(cfg.Limit),
		scraper.WithProgressEvery(cfg.ProgressEvery),
		scraper.WithResultHook(func(res types.URLResult) {
			if res.Err != nil {
				result.Failed = append(result.Failed, res.URL)
			}
			if deps.OnResult != nil {
				deps.OnResult(res)
			}
		}),
	)

	// 3. URLごとの取得と抽出
	result.Table = s.Scrape(ctx, urls)

	// 4. 全件をまとめて書き出す
	if err := export.WriteCSV(cfg.Output, result.Table); err != nil {
		return nil, err
	}
	logger.Debug("CSVを書き出しました", "path", cfg.Output, "rows", len(result.Table), "failed", len(result.Failed))

	return result, nil
}
