package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultUserAgent は、すべてのリクエストに付与される固定のUser-Agentです。
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// MaxBodySize は、レスポンスボディの最大読み込みサイズです。
	MaxBodySize = int64(10 * 1024 * 1024) // 10MB

	// maxErrorBodyLen は、エラーメッセージに含めるボディの最大長です。
	maxErrorBodyLen = 256
)

// ErrBodyTooLarge は、レスポンスボディが MaxBodySize を超えた場合のエラーです。
var ErrBodyTooLarge = errors.New("レスポンスボディが大きすぎます")

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchError は、通信エラーまたは2xx以外のステータスコードによるフェッチ失敗を表します。
// 呼び出し側はこのエラー種別のみを捕捉し、該当URLをスキップします。
type FetchError struct {
	URL        string
	StatusCode int // 通信エラーの場合は 0
	Body       []byte
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		if len(e.Body) > 0 {
			return fmt.Sprintf("HTTPステータスコードエラー: %d (URL: %s), ボディ: %s", e.StatusCode, e.URL, truncate(strings.TrimSpace(string(e.Body))))
		}
		return fmt.Sprintf("HTTPステータスコードエラー: %d (URL: %s)", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTPリクエストに失敗しました (URL: %s): %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError は与えられたエラーが FetchError であるかを判断します。
func IsFetchError(err error) bool {
	if err == nil {
		return false
	}
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// Client は、固定ヘッダー付きの単発GETリクエストを実行します。リトライは行いません。
type Client struct {
	httpClient Doer
	userAgent  string
}

// ClientOption は Client の設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent は User-Agent ヘッダーの値を上書きします。空文字の場合は無視されます。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New は新しい Client を生成します。timeout が 0 以下の場合、タイムアウトは設定されません。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout < 0 {
		timeout = 0
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// FetchBytes は url に対してGETリクエストを1回だけ実行し、レスポンスボディを返します。
// 通信エラーおよび2xx以外のステータスは *FetchError として返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if err := checkResponse(url, resp); err != nil {
		return nil, err
	}

	// 上限を1バイト超えて読み、切り詰められたページを成功として返さない
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)}
	}
	if int64(len(body)) > MaxBodySize {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("%w (上限: %d バイト)", ErrBodyTooLarge, MaxBodySize)}
	}
	return body, nil
}

// checkResponse は、ステータスコードが2xxでない場合に *FetchError を返します。
// レスポンスボディを閉じる責務は呼び出し元にあります。
func checkResponse(url string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen+1))
	return &FetchError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
		Err:        fmt.Errorf("unexpected status %s", resp.Status),
	}
}

func truncate(s string) string {
	if len(s) > maxErrorBodyLen {
		return s[:maxErrorBodyLen] + "..."
	}
	return s
}
