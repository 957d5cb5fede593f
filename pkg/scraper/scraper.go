package scraper

import (
	"context"
	"log/slog"

	"github.com/shouni/go-recipe-scraper/pkg/httpclient"
	"github.com/shouni/go-recipe-scraper/pkg/types"
)

const (
	// DefaultProgressEvery は、処理件数のログを出力する間隔 (成功件数) のデフォルト値です。
	DefaultProgressEvery = 500
)

// RecipeExtractor は、1つのURLからレシピレコードを取得する機能のインターフェースです。
// *extract.Extractor がこれを満たします。
type RecipeExtractor interface {
	FetchAndExtract(ctx context.Context, url string) (types.Recipe, error)
}

// Scraper は、URLを1件ずつ順番に処理し、成功したレコードを表に追加します。
// 並列処理やリトライは行いません。
type Scraper struct {
	extractor     RecipeExtractor
	logger        *slog.Logger
	progressEvery int
	limit         int
	onResult      func(types.URLResult)
}

// Option は Scraper の設定を行うための関数型です。
type Option func(*Scraper)

// WithLogger はログ出力先を設定します。
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgressEvery は、処理件数をログ出力する間隔を設定します。0 以下の場合は出力しません。
func WithProgressEvery(n int) Option {
	return func(s *Scraper) {
		s.progressEvery = n
	}
}

// WithLimit は処理するURL数の上限を設定します。0 以下の場合は全件を処理します。
func WithLimit(n int) Option {
	return func(s *Scraper) {
		s.limit = n
	}
}

// WithResultHook は、各URLの処理完了時に呼ばれる関数を設定します。
func WithResultHook(fn func(types.URLResult)) Option {
	return func(s *Scraper) {
		s.onResult = fn
	}
}

// New は Scraper を初期化します。
func New(extractor RecipeExtractor, opts ...Option) *Scraper {
	s := &Scraper{
		extractor:     extractor,
		logger:        slog.Default(),
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape は urls を先頭から順に処理し、抽出に成功したレコードを処理順に並べた表を返します。
// 取得または解析に失敗したURLはログを出力してスキップし、表には何も追加しません。
// ctx がキャンセルされた場合は、次のURLに進む前に処理を打ち切り、それまでの結果を返します。
func (s *Scraper) Scrape(ctx context.Context, urls []string) types.Table {
	if s.limit > 0 && len(urls) > s.limit {
		urls = urls[:s.limit]
	}

	table := make(types.Table, 0, len(urls))
	processed := 0

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("処理を中断しました", "processed", processed, "error", err)
			break
		}

		recipe, err := s.extractor.FetchAndExtract(ctx, u)
		if err != nil {
			if httpclient.IsFetchError(err) {
				s.logger.Error("URLの取得に失敗しました。スキップします", "url", u, "error", err)
			} else {
				s.logger.Error("ページの解析に失敗しました。スキップします", "url", u, "error", err)
			}
			s.notify(types.URLResult{URL: u, Err: err})
			continue
		}

		table = append(table, recipe)
		processed++
		if s.progressEvery > 0 && processed%s.progressEvery == 0 {
			s.logger.Info("処理件数", "processed", processed)
		}
		s.logger.Info("処理完了", "url", u)
		s.notify(types.URLResult{URL: u, Recipe: recipe})
	}

	return table
}

func (s *Scraper) notify(res types.URLResult) {
	if s.onResult != nil {
		s.onResult(res)
	}
}
