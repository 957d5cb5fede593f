package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shouni/go-recipe-scraper/internal/console"
	"github.com/shouni/go-recipe-scraper/internal/pipeline"
	"github.com/shouni/go-recipe-scraper/pkg/export"
	"github.com/shouni/go-recipe-scraper/pkg/types"
)

func addPreviewFlag(cmd *cobra.Command) {
	cmd.Flags().Int("preview", 0, "書き出したCSVを読み戻し、先頭N件を表として表示します (0 は表示しない)")
}

func newScrapeCmd(setup func(*cobra.Command) (*runtimeEnv, error)) *cobra.Command {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "サイトマップのレシピURLを順番に取得し、CSVに書き出します",
		Long: `サイトマップディレクトリからレシピURLを抽出し、1件ずつ順番に取得・抽出して、
すべてのレコードを最後にまとめてCSVへ書き出します。
取得に失敗したURLはログを出力してスキップします。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return runScrape(cmd, env)
		},
	}
	addPreviewFlag(scrapeCmd)
	return scrapeCmd
}

// runScrape は、パイプライン全体を実行し、結果を表示します。
func runScrape(cmd *cobra.Command, env *runtimeEnv) error {
	cfg, printer := env.cfg, env.printer

	// 1. 実行モードの表示
	printer.Info("%s", modeLine())

	// 2. 割り込みでURLループを中断できるようにする
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// 3. パイプラインの実行
	res, err := pipeline.Run(ctx, cfg, pipeline.Deps{
		Logger: env.logger,
		OnResult: func(r types.URLResult) {
			if r.Err != nil {
				printer.Warning("スキップ: %s", r.URL)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("スクレイピングパイプラインの実行エラー: %w", err)
	}

	// 4. 結果の出力
	printer.Info("レシピURLの総数: %d", len(res.URLs))
	if len(res.Failed) > 0 {
		printer.Warning("%d 件のURLをスキップしました", len(res.Failed))
	}
	printer.Success("%d 件のレシピを %s に保存しました", len(res.Table), res.OutputPath)

	if cfg.Preview > 0 {
		return previewOutput(env, res.OutputPath, cfg.Preview)
	}
	return nil
}

// previewOutput は書き出したCSVを読み戻し、先頭 n 件を表示します。
func previewOutput(env *runtimeEnv, path string, n int) error {
	table, err := export.ReadCSV(path)
	if err != nil {
		return fmt.Errorf("出力ファイルの確認に失敗しました: %w", err)
	}
	env.printer.Header(fmt.Sprintf("%s (先頭 %d 件 / 全 %d 件)", path, min(n, len(table)), len(table)))
	return console.RenderRecipes(env.printer.Out(), table, n)
}
