package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/shouni/go-recipe-scraper/pkg/types"
)

// maxCellWidth は、プレビュー表の1セルに表示する最大文字数です。
const maxCellWidth = 48

// recipePreviewColumns は、レコードのプレビュー表に表示する列です。13列すべては端末幅に収まらないため一部に絞ります。
var recipePreviewColumns = []string{"#", "Recipe Name", "Total Time", "Servings", "Calories", "Protein", "Recipe URL"}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

func render(w io.Writer, header []string, rows [][]string) error {
	table := newTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("表の構築に失敗しました: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("表の描画に失敗しました: %w", err)
	}
	return nil
}

// RenderURLs は、先頭 n 件のURLを1始まりのIDとともに表として出力します。n が0以下の場合は全件を出力します。
func RenderURLs(w io.Writer, urls []string, n int) error {
	urls = head(urls, n)
	rows := make([][]string, 0, len(urls))
	for i, u := range urls {
		rows = append(rows, []string{strconv.Itoa(i + 1), u})
	}
	return render(w, []string{"ID", "URL"}, rows)
}

// RenderRecipes は、先頭 n 件のレコードを主要な列に絞った表として出力します。n が0以下の場合は全件を出力します。
func RenderRecipes(w io.Writer, table types.Table, n int) error {
	table = head(table, n)
	rows := make([][]string, 0, len(table))
	for i, r := range table {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			shorten(r.Name),
			r.TotalTime,
			r.Servings,
			r.Calories,
			r.Protein,
			r.URL,
		})
	}
	return render(w, recipePreviewColumns, rows)
}

func head[S ~[]E, E any](s S, n int) S {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func shorten(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellWidth {
		return s
	}
	return string(runes[:maxCellWidth-3]) + "..."
}
