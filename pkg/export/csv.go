package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/shouni/go-recipe-scraper/pkg/types"
)

// DefaultOutputPath は、出力CSVファイルのデフォルトのパスです。
const DefaultOutputPath = "Proj_data.csv"

// ErrHeaderMismatch は、読み込んだCSVのヘッダーが types.Columns と一致しない場合のエラーです。
var ErrHeaderMismatch = errors.New("CSVヘッダーが想定する列と一致しません")

// WriteCSV は表全体をCSVとして path に書き出します。既存のファイルは上書きされます。
func WriteCSV(path string, table types.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("出力ファイルの作成に失敗しました (path: %s): %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("出力ファイルのクローズに失敗しました (path: %s): %w", path, closeErr)
		}
	}()

	if err := Write(f, table); err != nil {
		return fmt.Errorf("CSVの書き込みに失敗しました (path: %s): %w", path, err)
	}
	return nil
}

// Write はヘッダー行と各レコードを w に書き込みます。
// 区切り文字や改行を含む値は標準的なCSVの規則に従って引用符で囲まれます。
func Write(w io.Writer, table types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns); err != nil {
		return err
	}
	for _, recipe := range table {
		if err := cw.Write(recipe.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV は WriteCSV で書き出したファイルを読み込み、表として返します。
func ReadCSV(path string) (types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSVファイルのオープンに失敗しました (path: %s): %w", path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("CSVの読み込みに失敗しました (path: %s): %w", path, err)
	}
	return table, nil
}

// Read は r からヘッダー付きのCSVを読み込みます。
func Read(r io.Reader) (types.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(types.Columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: 空のファイルです", ErrHeaderMismatch)
		}
		return nil, err
	}
	if !slices.Equal(header, types.Columns) {
		return nil, fmt.Errorf("%w: %v", ErrHeaderMismatch, header)
	}

	table := types.Table{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		recipe, _ := types.RecipeFromRow(row)
		table = append(table, recipe)
	}
	return table, nil
}
