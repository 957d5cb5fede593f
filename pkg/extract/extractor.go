package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-recipe-scraper/pkg/types"
)

// Extractor は、Fetcher を使ってレシピページの取得と項目抽出を管理します。
type Extractor struct {
	fetcher Fetcher
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	return &Extractor{
		fetcher: fetcher,
	}, nil
}

// FetchAndExtract は指定されたURLのページを取得し、レシピレコードを抽出します。
// 取得に失敗した場合、または取得したHTMLを解析できなかった場合のみエラーを返します。
func (e *Extractor) FetchAndExtract(ctx context.Context, url string) (types.Recipe, error) {
	// 1. Fetcherから生のバイト配列を取得 (通信の責務)
	htmlBytes, err := e.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return types.Recipe{}, err
	}

	// 2. goquery.Documentに変換 (解析の責務)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return types.Recipe{}, fmt.Errorf("HTML解析に失敗しました (URL: %s): %w", url, err)
	}

	return ExtractRecipe(doc, url), nil
}

// ExtractRecipe は goquery.Document からレシピの全項目を抽出します。
// 見つからない項目は types.NotAvailable となり、常に全項目が埋まったレコードを返します。
func ExtractRecipe(doc *goquery.Document, url string) types.Recipe {
	recipe := types.NewRecipe(url)

	recipe.Name = orNotAvailable(extractTitle(doc))
	recipe.Ingredients = orNotAvailable(extractIngredients(doc))
	recipe.Instructions = orNotAvailable(extractInstructions(doc))

	details := doc.Find(detailsSelector).First()
	recipe.PrepTime = orNotAvailable(extractDetail(details, labelPrepTime))
	recipe.CookTime = orNotAvailable(extractDetail(details, labelCookTime))
	recipe.TotalTime = orNotAvailable(extractDetail(details, labelTotalTime))
	recipe.Servings = orNotAvailable(extractDetail(details, labelServings))
	recipe.Yield = orNotAvailable(extractDetail(details, labelYield))

	// 栄養成分表がない場合、4項目すべてが NotAvailable のまま残る
	nutrition := extractNutrition(doc.Find(nutritionSelector).First())
	recipe.Calories = orNotAvailable(nutrition.lookup(nutrientCalories))
	recipe.Fat = orNotAvailable(nutrition.lookup(nutrientFat))
	recipe.Carbs = orNotAvailable(nutrition.lookup(nutrientCarbs))
	recipe.Protein = orNotAvailable(nutrition.lookup(nutrientProtein))

	return recipe
}

// orNotAvailable は、要素が見つかった場合はその値を、見つからなかった場合は types.NotAvailable を返します。
func orNotAvailable(value string, found bool) string {
	if !found {
		return types.NotAvailable
	}
	return value
}
