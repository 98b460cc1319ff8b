package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/k-negishi/meetup-cli/internal/domain"
)

const (
	// DefaultBaseURL Meetup APIのベースURL
	DefaultBaseURL = "https://api.meetup.com/"

	eventURI  = "2/event"
	groupsURI = "2/groups"
	rsvpsURI  = "2/rsvps"
)

// MeetupClient Meetup REST APIクライアント
type MeetupClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// APIError Meetup APIが2xx以外を返した場合のエラー
type APIError struct {
	StatusCode int
	// Body レスポンスのJSONをデコードした値。JSONでない場合は生の文字列
	Body any
}

func (e *APIError) Error() string {
	detail, ok := e.Body.(string)
	if !ok {
		b, err := json.Marshal(e.Body)
		if err != nil {
			detail = fmt.Sprint(e.Body)
		} else {
			detail = string(b)
		}
	}
	return fmt.Sprintf("Meetup API呼び出しが失敗しました (Status: %d): %s", e.StatusCode, detail)
}

// LookupError グループIDを解決できない場合のエラー
type LookupError struct {
	GroupURLName string
	// Err API呼び出し自体が失敗した場合の原因。検索結果が0件ならnil
	Err error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("グループ %s の検索に失敗しました: %v", e.GroupURLName, e.Err)
	}
	return fmt.Sprintf("グループ %s が見つかりません", e.GroupURLName)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// resultsResponse 一覧系APIのレスポンス構造体
type resultsResponse[T any] struct {
	Results []T `json:"results"`
}

// NewMeetupClient Meetup APIクライアントを作成
func NewMeetupClient(apiKey, baseURL string, logger *slog.Logger) *MeetupClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetupClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ResolveGroup グループのURL名から数値IDを取得
func (c *MeetupClient) ResolveGroup(ctx context.Context, groupURLName string) (int64, error) {
	var resp resultsResponse[domain.Group]
	params := url.Values{"group_urlname": {groupURLName}}
	if err := c.get(ctx, groupsURI, "", params, &resp); err != nil {
		return 0, &LookupError{GroupURLName: groupURLName, Err: err}
	}
	if len(resp.Results) == 0 {
		return 0, &LookupError{GroupURLName: groupURLName}
	}
	return resp.Results[0].ID, nil
}

// CreateEvent グループにイベントを作成し、告知する
func (c *MeetupClient) CreateEvent(ctx context.Context, groupURLName, name, description string, timeMillis *int64) (*domain.Event, error) {
	groupID, err := c.ResolveGroup(ctx, groupURLName)
	if err != nil {
		return nil, fmt.Errorf("グループIDの取得に失敗しました: %w", err)
	}

	form := url.Values{
		"announce":      {"true"},
		"group_id":      {strconv.FormatInt(groupID, 10)},
		"group_urlname": {groupURLName},
	}
	if name != "" {
		form.Set("name", name)
	}
	if description != "" {
		form.Set("description", description)
	}
	if timeMillis != nil {
		form.Set("time", strconv.FormatInt(*timeMillis, 10))
	}

	var event domain.Event
	if err := c.post(ctx, eventURI, "", form, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent 指定された項目だけを部分更新
func (c *MeetupClient) UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	form := url.Values{}
	if update.Name != nil {
		form.Set("name", *update.Name)
	}
	if update.Description != nil {
		form.Set("description", *update.Description)
	}
	if update.Time != nil {
		form.Set("time", strconv.FormatInt(*update.Time, 10))
	}

	var event domain.Event
	if err := c.post(ctx, eventURI, eventID, form, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventDetails イベント本体とRSVP一覧を取得
func (c *MeetupClient) GetEventDetails(ctx context.Context, eventID string) (*domain.EventDetails, error) {
	var event domain.Event
	if err := c.get(ctx, eventURI, eventID, nil, &event); err != nil {
		return nil, err
	}

	var rsvps resultsResponse[domain.RSVP]
	if err := c.get(ctx, rsvpsURI, "", url.Values{"event_id": {eventID}}, &rsvps); err != nil {
		return nil, err
	}

	guests := make(map[int64]string, len(rsvps.Results))
	for _, rsvp := range rsvps.Results {
		guests[rsvp.Member.MemberID] = rsvp.Member.Name
	}

	return &domain.EventDetails{
		Title:       event.Name,
		Description: event.Description,
		Time:        event.Time,
		Duration:    event.Duration,
		EventURL:    event.EventURL,
		Guests:      guests,
	}, nil
}

// requestURL リソースURLに署名フラグとAPIキーを付与
func (c *MeetupClient) requestURL(uri, eventID string, params url.Values) string {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("sign", "true")
	query.Set("key", c.apiKey)
	return c.baseURL + uri + "/" + eventID + "?" + query.Encode()
}

func (c *MeetupClient) get(ctx context.Context, uri, eventID string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(uri, eventID, params), nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	return c.do(req, out)
}

func (c *MeetupClient) post(ctx context.Context, uri, eventID string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.requestURL(uri, eventID, nil),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// do リクエストを送信し、2xxならoutにデコード
func (c *MeetupClient) do(req *http.Request, out any) error {
	c.logger.Debug("Meetup APIリクエスト", "method", req.Method, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Meetup APIリクエストの送信に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み込みに失敗しました: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload any
		if err := json.Unmarshal(body, &payload); err != nil {
			apiErr.Body = string(body)
		} else {
			apiErr.Body = payload
		}
		c.logger.Debug("Meetup APIエラー", "status", resp.StatusCode, "path", req.URL.Path)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("レスポンスのJSON解析に失敗しました: %w", err)
	}
	return nil
}
