package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-recipe-scraper/internal/config"
	"github.com/shouni/go-recipe-scraper/internal/console"
)

// ---- グローバル定数 ----

const (
	appName = "recipe-scraper"

	// executionMode は、URLを1件ずつ順番に処理する実行形態を表します。
	executionMode = "sequential"
)

// runtimeEnv は、コマンドの実行に必要な設定・ロガー・出力先をまとめたものです。
type runtimeEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	printer *console.Printer
}

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
// --verbose と --config は clibase が定義します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// NewRootCmd はルートコマンドとすべてのサブコマンドを生成します。
// サブコマンドを指定しない場合は scrape と同じ処理を実行します。
func NewRootCmd() *cobra.Command {
	var env *runtimeEnv

	// clibase共通処理の後に実行される PersistentPreRunE で、設定とロガーを初期化する
	initAppPreRunE := func(cmd *cobra.Command, args []string) error {
		e, err := newRuntimeEnv(cmd, clibase.Flags.ConfigFile)
		if err != nil {
			return err
		}
		env = e
		return nil
	}

	rootCmd := clibase.NewRootCmd(appName, addAppPersistentFlags, initAppPreRunE)
	rootCmd.Short = "サイトマップからレシピページを収集し、CSVに書き出すツール"
	rootCmd.Long = `サイトマップ (.xml / .xml.gz) のディレクトリからレシピURLを抽出し、
各ページを順番に取得して13項目のレシピ情報を抽出し、1つのCSVファイルに書き出します。

例:
  recipe-scraper                          # sitemaps/ を読み込み Proj_data.csv に書き出す
  recipe-scraper scrape --limit 10        # 先頭10件のみ処理する
  recipe-scraper urls --show 20           # 抽出されたレシピURLを20件表示する`
	rootCmd.Args = cobra.NoArgs
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	setup := func(cmd *cobra.Command) (*runtimeEnv, error) {
		if env == nil {
			return nil, errors.New("実行環境が初期化されていません。PersistentPreRunE を確認してください")
		}
		return env, nil
	}

	// clibase のルートはヘルプを表示するだけなので、scrape を既定の処理として差し替える
	scrapeCmd := newScrapeCmd(setup)
	rootCmd.Run = nil
	rootCmd.RunE = scrapeCmd.RunE
	addPreviewFlag(rootCmd)

	rootCmd.AddCommand(scrapeCmd, newURLsCmd(setup))
	return rootCmd
}

// newRuntimeEnv は設定を読み込み、ロガーと Printer を初期化します。
// --verbose (clibase) は config.Load で verbose キーにバインドされるため、cfg.Verbose に反映されます。
func newRuntimeEnv(cmd *cobra.Command, cfgFile string) (*runtimeEnv, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose || clibase.Flags.Verbose)
	slog.SetDefault(logger)
	logger.Debug("設定を読み込みました",
		"config_file", cfgFile,
		"sitemap_dir", cfg.SitemapDir,
		"output", cfg.Output,
		"marker", cfg.Marker,
		"timeout", cfg.Timeout,
		"limit", cfg.Limit,
	)

	return &runtimeEnv{
		cfg:     cfg,
		logger:  logger,
		printer: console.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), console.ColorsEnabled()),
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// modeLine は、実行形態と実行環境を1行で返します。
func modeLine() string {
	return fmt.Sprintf("実行モード: %s (%s/%s)", executionMode, runtime.GOOS, runtime.GOARCH)
}

// Execute は、ルートコマンドを実行します。エラーが発生した場合は終了コード1で終了します。
// clibase.Execute はエラー内容を表示しないため、ルートの生成のみ clibase に任せています。
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		console.NewPrinter(os.Stdout, os.Stderr, console.ColorsEnabled()).Error("%v", err)
		os.Exit(1)
	}
}
