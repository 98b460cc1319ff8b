package gateway

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/k-negishi/meetup-cli/internal/domain"
)

// defaultEventDuration Meetup側で開催時間が未設定の場合の長さ
const defaultEventDuration = 3 * time.Hour

// EventsInserter Google Calendarにイベントを登録するインターフェース
type EventsInserter interface {
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
}

// serviceInserter calendar.Service をラップした EventsInserter の実装
type serviceInserter struct {
	service *calendar.Service
}

func (s *serviceInserter) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return s.service.Events.Insert(calendarID, event).Context(ctx).Do()
}

// GoogleCalendarRepository Meetupイベントを Google Calendar に書き出す
type GoogleCalendarRepository struct {
	inserter   EventsInserter
	calendarID string
	timezone   *time.Location
}

// NewGoogleCalendarRepository Google Calendarリポジトリを作成
func NewGoogleCalendarRepository(ctx context.Context, credentialsJSON []byte, calendarID string, timezone *time.Location) (*GoogleCalendarRepository, error) {
	// サービスアカウント認証でCalendar APIクライアントを作成
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %w", err)
	}

	return NewGoogleCalendarRepositoryWithInserter(&serviceInserter{service: service}, calendarID, timezone), nil
}

// NewGoogleCalendarRepositoryWithInserter 任意の EventsInserter でリポジトリを作成
func NewGoogleCalendarRepositoryWithInserter(inserter EventsInserter, calendarID string, timezone *time.Location) *GoogleCalendarRepository {
	if timezone == nil {
		timezone = time.Local
	}
	return &GoogleCalendarRepository{
		inserter:   inserter,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

// ExportEvent イベント詳細を Google Calendar に登録し、登録先のリンクを返す
func (r *GoogleCalendarRepository) ExportEvent(ctx context.Context, details *domain.EventDetails) (string, error) {
	event, err := r.convertToCalendarEvent(details)
	if err != nil {
		return "", err
	}

	created, err := r.inserter.InsertEvent(ctx, r.calendarID, event)
	if err != nil {
		return "", fmt.Errorf("カレンダーへのイベント登録に失敗しました: %w", err)
	}
	return created.HtmlLink, nil
}

// convertToCalendarEvent イベント詳細を Google Calendar のイベントに変換
func (r *GoogleCalendarRepository) convertToCalendarEvent(details *domain.EventDetails) (*calendar.Event, error) {
	if details.Time == 0 {
		return nil, fmt.Errorf("開始時刻が設定されていません")
	}

	start := time.UnixMilli(details.Time).In(r.timezone)
	duration := defaultEventDuration
	if details.Duration > 0 {
		duration = time.Duration(details.Duration) * time.Millisecond
	}
	end := start.Add(duration)

	description := details.Description
	if details.EventURL != "" {
		description += "\n\n" + details.EventURL
	}

	event := &calendar.Event{
		Summary:     details.Title,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	if details.EventURL != "" {
		event.Source = &calendar.EventSource{Title: "Meetup", Url: details.EventURL}
	}
	// time.Local はIANA名を持たないため、その場合はオフセット付き日時だけを送る
	if name := r.timezone.String(); name != "Local" {
		event.Start.TimeZone = name
		event.End.TimeZone = name
	}

	return event, nil
}
