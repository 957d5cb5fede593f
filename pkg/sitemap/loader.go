package sitemap

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	// xmlExt は、読み込み対象となるサイトマップの拡張子です。
	xmlExt = ".xml"
	// gzipExt は、gzip圧縮されたサイトマップの拡張子です。
	gzipExt = ".xml.gz"
)

// IsSitemapFile は、ファイル名がサイトマップとして認識される拡張子を持つかを判定します。
// 拡張子は大文字・小文字を区別します (sitemap.XML は対象外)。
func IsSitemapFile(name string) bool {
	return strings.HasSuffix(name, xmlExt) || strings.HasSuffix(name, gzipExt)
}

// LoadSitemaps は、指定ディレクトリ直下のサイトマップファイルをすべて読み込み、その内容を返します。
// サブディレクトリは探索しません。ディレクトリが存在しない、または読み込めない場合はエラーを返します。
func LoadSitemaps(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("サイトマップディレクトリの読み込みに失敗しました (dir: %s): %w", dir, err)
	}

	var contents [][]byte
	for _, entry := range entries {
		if entry.IsDir() || !IsSitemapFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := readSitemapFile(path)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, nil
}

// readSitemapFile は1ファイルを読み込みます。.xml.gz の場合は展開した内容を返します。
func readSitemapFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("サイトマップファイルの読み込みに失敗しました (file: %s): %w", path, err)
	}

	if !strings.HasSuffix(path, gzipExt) {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzipサイトマップの展開に失敗しました (file: %s): %w", path, err)
	}
	defer zr.Close()

	content, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzipサイトマップの展開に失敗しました (file: %s): %w", path, err)
	}
	return content, nil
}
