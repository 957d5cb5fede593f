// Package config は、フラグ・環境変数・設定ファイルを viper で統合した実行設定を提供します。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shouni/go-recipe-scraper/pkg/export"
	"github.com/shouni/go-recipe-scraper/pkg/httpclient"
	"github.com/shouni/go-recipe-scraper/pkg/scraper"
	"github.com/shouni/go-recipe-scraper/pkg/sitemap"
)

// ---- 定数定義 ----

const (
	// EnvPrefix は、環境変数のプレフィックスです (例: RECIPE_SCRAPER_SITEMAP_DIR)。
	EnvPrefix = "RECIPE_SCRAPER"

	// ConfigName は、検索する設定ファイル名 (拡張子なし) です。
	ConfigName = "recipe-scraper"

	// DefaultSitemapDir は、サイトマップファイルを読み込むデフォルトのディレクトリです。
	DefaultSitemapDir = "sitemaps"
)

// 設定キー
const (
	KeySitemapDir    = "sitemap_dir"
	KeyOutput        = "output"
	KeyMarker        = "marker"
	KeyUserAgent     = "user_agent"
	KeyTimeout       = "timeout"
	KeyLimit         = "limit"
	KeyProgressEvery = "progress_every"
	KeyPreview       = "preview"
	KeyVerbose       = "verbose"
)

// flagNames は、設定キーと対応するコマンドラインフラグ名の対応表です。
var flagNames = map[string]string{
	KeySitemapDir:    "sitemap-dir",
	KeyOutput:        "output",
	KeyMarker:        "marker",
	KeyUserAgent:     "user-agent",
	KeyTimeout:       "timeout",
	KeyLimit:         "limit",
	KeyProgressEvery: "progress-every",
	KeyPreview:       "preview",
	KeyVerbose:       "verbose",
}

// Config は1回の実行に必要な設定値です。
type Config struct {
	SitemapDir    string        `mapstructure:"sitemap_dir"`
	Output        string        `mapstructure:"output"`
	Marker        string        `mapstructure:"marker"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"` // 0 はタイムアウトなし
	Limit         int           `mapstructure:"limit"`   // 0 は全件
	ProgressEvery int           `mapstructure:"progress_every"`
	Preview       int           `mapstructure:"preview"`
	Verbose       bool          `mapstructure:"verbose"`
}

// Default は、すべての項目にデフォルト値を設定した Config を返します。
func Default() *Config {
	return &Config{
		SitemapDir:    DefaultSitemapDir,
		Output:        export.DefaultOutputPath,
		Marker:        sitemap.DefaultRecipeMarker,
		UserAgent:     httpclient.DefaultUserAgent,
		ProgressEvery: scraper.DefaultProgressEvery,
	}
}

// RegisterFlags は、設定キーに対応するフラグを fs に定義します。
// フラグのデフォルト値は Default() と一致します。
// --verbose と --config は go-cli-base のルートコマンドが定義するため、ここでは定義しません。
// --verbose は Load で verbose キーにバインドされます。
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(flagNames[KeySitemapDir], d.SitemapDir, "サイトマップファイル (.xml / .xml.gz) を含むディレクトリ")
	fs.StringP(flagNames[KeyOutput], "o", d.Output, "出力CSVファイルのパス")
	fs.String(flagNames[KeyMarker], d.Marker, "レシピURLとして扱うパスの部分文字列")
	fs.String(flagNames[KeyUserAgent], d.UserAgent, "HTTPリクエストに付与するUser-Agent")
	fs.Duration(flagNames[KeyTimeout], d.Timeout, "1リクエストあたりのタイムアウト (0 はタイムアウトなし)")
	fs.Int(flagNames[KeyLimit], d.Limit, "処理するURL数の上限 (0 は全件)")
	fs.Int(flagNames[KeyProgressEvery], d.ProgressEvery, "処理件数をログ出力する間隔")
}

// Load は設定ファイル・環境変数・フラグを読み込み、検証済みの Config を返します。
// 優先順位は フラグ > 環境変数 > 設定ファイル > デフォルト値 です。
// cfgFile が空の場合はカレントディレクトリと $HOME/.config/recipe-scraper から
// recipe-scraper.yaml を探し、見つからなければデフォルト値を使います。
// flags が nil の場合、フラグは参照しません。
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recipe-scraper")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("フラグのバインドに失敗しました (flag: %s): %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の展開に失敗しました: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("設定値が不正です: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeySitemapDir, d.SitemapDir)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyMarker, d.Marker)
	v.SetDefault(KeyUserAgent, d.UserAgent)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyLimit, d.Limit)
	v.SetDefault(KeyProgressEvery, d.ProgressEvery)
	v.SetDefault(KeyPreview, d.Preview)
	v.SetDefault(KeyVerbose, d.Verbose)
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.SitemapDir) == "" {
		return fmt.Errorf("%s は空にできません", KeySitemapDir)
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return fmt.Errorf("%s は空にできません", KeyOutput)
	}
	if cfg.Marker == "" {
		return fmt.Errorf("%s は空にできません", KeyMarker)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("%s は0以上である必要があります: %s", KeyTimeout, cfg.Timeout)
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("%s は0以上である必要があります: %d", KeyLimit, cfg.Limit)
	}
	if cfg.ProgressEvery < 0 {
		return fmt.Errorf("%s は0以上である必要があります: %d", KeyProgressEvery, cfg.ProgressEvery)
	}
	if cfg.Preview < 0 {
		return fmt.Errorf("%s は0以上である必要があります: %d", KeyPreview, cfg.Preview)
	}
	return nil
}
