package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-recipe-scraper/internal/console"
	"github.com/shouni/go-recipe-scraper/internal/pipeline"
)

const defaultShowURLs = 10

func newURLsCmd(setup func(*cobra.Command) (*runtimeEnv, error)) *cobra.Command {
	var show int

	urlsCmd := &cobra.Command{
		Use:   "urls",
		Short: "サイトマップから抽出したレシピURLの件数と先頭N件を表示します",
		Long:  `ページの取得は行わず、サイトマップの読み込みとレシピURLの抽出のみを実行し、その結果を一覧表示します。`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			urls, err := pipeline.CollectURLs(env.cfg)
			if err != nil {
				return fmt.Errorf("レシピURLの抽出に失敗しました: %w", err)
			}

			env.printer.Info("レシピURLの総数: %d", len(urls))
			if len(urls) == 0 || show == 0 {
				return nil
			}
			env.printer.Header(fmt.Sprintf("先頭 %d 件のURL", min(show, len(urls))))
			return console.RenderURLs(env.printer.Out(), urls, show)
		},
	}

	urlsCmd.Flags().IntVar(&show, "show", defaultShowURLs, "表示するURLの件数 (0 は件数のみ)")
	return urlsCmd
}
