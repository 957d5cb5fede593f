package types

// NotAvailable は、ページ内に該当要素が見つからなかったフィールドに入る値です。
const NotAvailable = "N/A"

// Columns は、出力CSVのヘッダーです。順序は Recipe.Row と一致します。
var Columns = []string{
	"Recipe Name",
	"Recipe URL",
	"Ingredients",
	"Instructions",
	"Prep Time",
	"Cook Time",
	"Total Time",
	"Servings",
	"Yield",
	"Calories",
	"Fat",
	"Carbs",
	"Protein",
}

// Recipe は、1つのレシピページから抽出された13項目のレコードです。
// 各フィールドは抽出されたテキスト、または NotAvailable のいずれかです。
type Recipe struct {
	Name         string
	URL          string
	Ingredients  string
	Instructions string
	PrepTime     string
	CookTime     string
	TotalTime    string
	Servings     string
	Yield        string
	Calories     string
	Fat          string
	Carbs        string
	Protein      string
}

// NewRecipe は、URL以外のすべてのフィールドを NotAvailable で初期化したレコードを返します。
func NewRecipe(url string) Recipe {
	return Recipe{
		Name:         NotAvailable,
		URL:          url,
		Ingredients:  NotAvailable,
		Instructions: NotAvailable,
		PrepTime:     NotAvailable,
		CookTime:     NotAvailable,
		TotalTime:    NotAvailable,
		Servings:     NotAvailable,
		Yield:        NotAvailable,
		Calories:     NotAvailable,
		Fat:          NotAvailable,
		Carbs:        NotAvailable,
		Protein:      NotAvailable,
	}
}

// Row は、Columns の順序でフィールド値を返します。
func (r Recipe) Row() []string {
	return []string{
		r.Name,
		r.URL,
		r.Ingredients,
		r.Instructions,
		r.PrepTime,
		r.CookTime,
		r.TotalTime,
		r.Servings,
		r.Yield,
		r.Calories,
		r.Fat,
		r.Carbs,
		r.Protein,
	}
}

// RecipeFromRow は、Row の逆変換です。列数が Columns と異なる場合は false を返します。
func RecipeFromRow(row []string) (Recipe, bool) {
	if len(row) != len(Columns) {
		return Recipe{}, false
	}
	return Recipe{
		Name:         row[0],
		URL:          row[1],
		Ingredients:  row[2],
		Instructions: row[3],
		PrepTime:     row[4],
		CookTime:     row[5],
		TotalTime:    row[6],
		Servings:     row[7],
		Yield:        row[8],
		Calories:     row[9],
		Fat:          row[10],
		Carbs:        row[11],
		Protein:      row[12],
	}, true
}

// Table は、処理順に並んだレコードの集合です。
type Table []Recipe

// URLResult は、特定のURLの処理結果、またはその処理中に発生したエラーを保持します。
// Scraper の進捗フックに渡されます。
type URLResult struct {
	URL    string // 処理対象のURL
	Recipe Recipe // 抽出されたレコード (Err が nil の場合のみ有効)
	Err    error  // 処理中に発生したエラー
}
