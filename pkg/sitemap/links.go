package sitemap

import (
	"fmt"
	"strings"
)

// DefaultRecipeMarker は、レシピページのURLに含まれるパス文字列です。
const DefaultRecipeMarker = "/recipe/"

// LinkSource は、リンクのリストを提供できる任意の型を表します。
type LinkSource interface {
	GetLinks() []string
}

// GetAllLinks は LinkSource からリンクを抽出する汎用関数です。
func GetAllLinks(source LinkSource) []string {
	if source == nil {
		return []string{}
	}
	return source.GetLinks()
}

// FilterRecipeURLs は、marker を含むエントリのみを元の順序のまま返します。
// URLとしての妥当性の検証や重複排除は行いません。
func FilterRecipeURLs(locs []string, marker string) []string {
	urls := make([]string, 0, len(locs))
	for _, loc := range locs {
		if strings.Contains(loc, marker) {
			urls = append(urls, loc)
		}
	}
	return urls
}

// CollectRecipeURLs は、複数のサイトマップからレシピURLを集め、ファイル順に連結して返します。
// いずれかのサイトマップのパースに失敗した場合は、その時点でエラーを返します。
func CollectRecipeURLs(contents [][]byte, marker string) ([]string, error) {
	var urls []string
	for i, content := range contents {
		locs, err := ParseLocations(content)
		if err != nil {
			return nil, fmt.Errorf("サイトマップ #%d: %w", i+1, err)
		}
		urls = append(urls, FilterRecipeURLs(locs, marker)...)
	}
	return urls, nil
}
