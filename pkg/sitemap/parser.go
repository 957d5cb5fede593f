package sitemap

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// locXPath は、サイトマップ内のすべての location 要素を選択します。
// urlset と sitemapindex のどちらの形式でも同じ式で取得できます。
const locXPath = "//loc"

// ErrInvalidRoot は、文書のトップレベルにルート要素がちょうど1つ存在しない場合のエラーです。
// 空のファイルや、XMLではないテキストファイルもこれに該当します。
var ErrInvalidRoot = errors.New("ルート要素がちょうど1つ存在しません")

// Document は、パース済みのサイトマップ1ファイルを表します。
type Document struct {
	root *xmlquery.Node
}

// Parse は、サイトマップの内容をXMLとしてパースします。
// 不正なXML、またはルート要素が1つでない文書の場合はエラーを返します。
func Parse(content []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("サイトマップのパースに失敗しました: %w", err)
	}
	if err := checkRoot(root); err != nil {
		return nil, fmt.Errorf("サイトマップのパースに失敗しました: %w", err)
	}
	return &Document{root: root}, nil
}

// checkRoot は、トップレベルに要素がちょうど1つあり、空白以外のテキストがないことを確認します。
// xmlquery はこれらを検証しないため、ここで補います。
func checkRoot(doc *xmlquery.Node) error {
	elements := 0
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.ElementNode:
			elements++
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(n.Data) != "" {
				return fmt.Errorf("%w: ルート要素の外側にテキストがあります", ErrInvalidRoot)
			}
		}
	}
	if elements != 1 {
		return fmt.Errorf("%w (要素数: %d)", ErrInvalidRoot, elements)
	}
	return nil
}

// GetLinks は LinkSource インターフェースを満たし、loc 要素のテキストを文書順に返します。
func (d *Document) GetLinks() []string {
	if d == nil || d.root == nil {
		return []string{}
	}

	nodes := xmlquery.Find(d.root, locXPath)
	locs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		locs = append(locs, strings.TrimSpace(n.InnerText()))
	}
	return locs
}

// ParseLocations は、サイトマップの内容からすべての loc エントリを取り出します。
func ParseLocations(content []byte) ([]string, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return GetAllLinks(doc), nil
}
