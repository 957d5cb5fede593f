package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp は、設定ファイルの自動検索に影響されないよう空の一時ディレクトリへ移動します。
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	// ルートコマンドとサブコマンドが定義するフラグ
	fs.BoolP(flagNames[KeyVerbose], "V", false, "")
	fs.Int(flagNames[KeyPreview], 0, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "sitemaps", cfg.SitemapDir)
	assert.Equal(t, "Proj_data.csv", cfg.Output)
	assert.Equal(t, "/recipe/", cfg.Marker)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, 500, cfg.ProgressEvery)
}

func TestLoad_DefaultsFromFlags(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFileDiscovered(t *testing.T) {
	dir := chdirTemp(t)
	content := "sitemap_dir: maps\noutput: out.csv\nlimit: 10\ntimeout: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipe-scraper.yaml"), []byte(content), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "maps", cfg.SitemapDir)
	assert.Equal(t, "out.csv", cfg.Output)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "/recipe/", cfg.Marker)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: file.csv\nmarker: /file/\nlimit: 1\n"), 0o644))

	t.Setenv("RECIPE_SCRAPER_OUTPUT", "env.csv")
	t.Setenv("RECIPE_SCRAPER_LIMIT", "2")
	t.Setenv("RECIPE_SCRAPER_VERBOSE", "true")

	cfg, err := Load(path, newFlags(t, "--limit", "3"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Limit, "フラグが環境変数より優先される")
	assert.Equal(t, "env.csv", cfg.Output, "環境変数が設定ファイルより優先される")
	assert.Equal(t, "/file/", cfg.Marker, "設定ファイルがデフォルト値より優先される")
	assert.True(t, cfg.Verbose)
}

func TestLoad_Flags(t *testing.T) {
	chdirTemp(t)

	fs := newFlags(t,
		"--sitemap-dir", "in",
		"-o", "result.csv",
		"--user-agent", "test-agent",
		"--timeout", "5s",
		"--progress-every", "10",
		"--preview", "3",
		"-V",
	)
	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "in", cfg.SitemapDir)
	assert.Equal(t, "result.csv", cfg.Output)
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.ProgressEvery)
	assert.Equal(t, 3, cfg.Preview)
	assert.True(t, cfg.Verbose)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "設定ファイルの読み込みに失敗しました")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"負の上限", []string{"--limit", "-1"}, KeyLimit},
		{"負のタイムアウト", []string{"--timeout", "-1s"}, KeyTimeout},
		{"負の進捗間隔", []string{"--progress-every", "-5"}, KeyProgressEvery},
		{"負のプレビュー件数", []string{"--preview", "-2"}, KeyPreview},
		{"空のマーカー", []string{"--marker", ""}, KeyMarker},
		{"空の出力先", []string{"-o", " "}, KeyOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)

			_, err := Load("", newFlags(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
