package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
	"golang.org/x/net/html"
)

// ----------------------------------------------------------------------
// 定数定義 (セレクター関連)
// ----------------------------------------------------------------------
const (
	titleSelector       = "h1"
	ingredientSelector  = "li.mm-recipes-structured-ingredients__list-item"
	instructionSelector = `li[class="comp mntl-sc-block mntl-sc-block-startgroup mntl-sc-block-group--LI"]`
	detailsSelector     = "div.mm-recipes-details__content"
	detailValueClass    = "mm-recipes-details__value"
	nutritionSelector   = "div#mm-recipes-nutrition-facts-summary_1-0"

	ingredientSeparator = ", "
	instructionJoiner   = " "
)

// 詳細パネルのラベル
const (
	labelPrepTime  = "Prep Time:"
	labelCookTime  = "Cook Time:"
	labelTotalTime = "Total Time:"
	labelServings  = "Servings:"
	labelYield     = "Yield:"
)

// 栄養成分表の項目名
const (
	nutrientCalories = "Calories"
	nutrientFat      = "Fat"
	nutrientCarbs    = "Carbs"
	nutrientProtein  = "Protein"
)

var knownNutrients = map[string]bool{
	nutrientCalories: true,
	nutrientFat:      true,
	nutrientCarbs:    true,
	nutrientProtein:  true,
}

// cleanText は要素のテキストの前後の空白を除去します。
func cleanText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// extractTitle は最初の h1 要素のテキストを返します。
func extractTitle(doc *goquery.Document) (string, bool) {
	h1 := doc.Find(titleSelector).First()
	if h1.Length() == 0 {
		return "", false
	}
	return cleanText(h1), true
}

// extractIngredients は材料リストの各項目を ", " で連結します。
// 項目内の span は空でないものだけを半角スペースで連結します。
func extractIngredients(doc *goquery.Document) (string, bool) {
	items := doc.Find(ingredientSelector)
	if items.Length() == 0 {
		return "", false
	}

	parts := make([]string, 0, items.Length())
	items.Each(func(i int, item *goquery.Selection) {
		var spans []string
		item.Find("span").Each(func(j int, span *goquery.Selection) {
			if text := cleanText(span); text != "" {
				spans = append(spans, text)
			}
		})
		parts = append(parts, strings.Join(spans, " "))
	})
	return strings.Join(parts, ingredientSeparator), true
}

// extractInstructions は各手順の最初の段落テキストから改行を取り除き、半角スペースで連結します。
// 段落を持たない手順は無視します。
func extractInstructions(doc *goquery.Document) (string, bool) {
	steps := doc.Find(instructionSelector)
	if steps.Length() == 0 {
		return "", false
	}

	var parts []string
	steps.Each(func(i int, step *goquery.Selection) {
		p := step.Find("p").First()
		if p.Length() == 0 {
			return
		}
		parts = append(parts, strings.ReplaceAll(cleanText(p), "\n", ""))
	})
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, instructionJoiner), true
}

// extractDetail は詳細パネル内で label と一致する div を探し、
// それ以降に文書順で最初に現れる値要素のテキストを返します。
func extractDetail(details *goquery.Selection, label string) (string, bool) {
	if details.Length() == 0 {
		return "", false
	}

	labelNode := details.Find("div").FilterFunction(func(i int, s *goquery.Selection) bool {
		return s.Children().Length() == 0 && cleanText(s) == label
	}).First()
	if labelNode.Length() == 0 {
		return "", false
	}

	value := findNext(labelNode.Nodes[0], func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, detailValueClass)
	})
	if value == nil {
		return "", false
	}
	return cleanText(goquery.NewDocumentFromNode(value).Selection), true
}

// nextInDocument は、文書順で n の次にあるノードを返します。子孫も対象に含みます。
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// findNext は start より後ろで match を満たす最初のノードを返します。
// 探索は start の親要素の外側まで続きます。
func findNext(start *html.Node, match func(*html.Node) bool) *html.Node {
	for n := nextInDocument(start); n != nil; n = nextInDocument(n) {
		if match(n) {
			return n
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// nutritionFacts は、栄養成分表から読み取った「項目名 → 値」の対応です。
// 表が見つからなかった場合は nil です。
type nutritionFacts map[string]string

// lookup は項目名に対応する値を返します。
func (f nutritionFacts) lookup(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// extractNutrition は栄養成分表の各行を読み取ります。
// 1行は2つのセルからなり、既知の項目名を持つセルを名前、もう一方を値として扱います。
func extractNutrition(table *goquery.Selection) nutritionFacts {
	if table.Length() == 0 {
		return nil
	}

	facts := nutritionFacts{}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		first, second := cells.Eq(0), cells.Eq(1)

		// 成分表は「値 | 項目名」の順で並ぶことが多いため、2番目のセルを先に確認する
		if name := textUtils.NormalizeText(second.Text()); knownNutrients[name] {
			facts[name] = cleanText(first)
			return
		}
		if name := textUtils.NormalizeText(first.Text()); knownNutrients[name] {
			facts[name] = cleanText(second)
		}
	})
	return facts
}
