package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/k-negishi/meetup-cli/internal/domain"
	"github.com/k-negishi/meetup-cli/internal/input"
)

// アクション名
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDetails = "details"
	ActionExport  = "export"
)

var (
	// ErrMissingEventID イベントIDが必要なアクションで未指定
	ErrMissingEventID = errors.New("イベントIDが指定されていません (--id)")
	// ErrNothingToUpdate updateで更新項目が一つも指定されていない
	ErrNothingToUpdate = errors.New("更新する項目が指定されていません (--title, --desc, --filedesc, --date)")
	// ErrUnknownAction 対応していないアクション名
	ErrUnknownAction = errors.New("不明なアクションです")
	// ErrExportDisabled Google Calendar設定がない状態でexportを実行
	ErrExportDisabled = errors.New("Google Calendarの設定がないためexportできません (GOOGLE_CREDENTIALS)")
)

// MeetupClient Meetup APIを呼び出すポート
type MeetupClient interface {
	CreateEvent(ctx context.Context, groupURLName, name, description string, timeMillis *int64) (*domain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error)
	GetEventDetails(ctx context.Context, eventID string) (*domain.EventDetails, error)
}

// CalendarExporter イベントを外部カレンダーに書き出すポート
type CalendarExporter interface {
	ExportEvent(ctx context.Context, details *domain.EventDetails) (string, error)
}

// Params CLI・Lambdaから渡される未加工の入力
type Params struct {
	Title           string
	Description     string
	DescriptionFile string
	Date            string
	EventID         string
	Group           string
}

// Input 正規化済みの入力
type Input struct {
	Title       string
	Description string
	// Time エポックミリ秒。未指定ならnil
	Time    *int64
	EventID string
	Group   string
}

// Result アクションの実行結果
type Result struct {
	Event        *domain.Event
	Details      *domain.EventDetails
	CalendarLink string
}

// NormalizeInput 日時・説明文ファイル・URL形式のID/グループを正規化
func NormalizeInput(p Params, loc *time.Location) (Input, error) {
	in := Input{
		Title:   p.Title,
		EventID: input.LastPathSegment(p.EventID),
		Group:   input.LastPathSegment(p.Group),
	}

	if p.Date != "" {
		ms, err := input.ParseDate(p.Date, loc)
		if err != nil {
			return Input{}, err
		}
		in.Time = &ms
	}

	desc, err := input.ResolveDescription(p.Description, p.DescriptionFile)
	if err != nil {
		return Input{}, err
	}
	in.Description = desc

	return in, nil
}

// EventUseCase Meetupイベントの作成・更新・参照ユースケース
type EventUseCase struct {
	client   MeetupClient
	exporter CalendarExporter
	logger   *slog.Logger
}

// NewEventUseCase ユースケースを生成。exporterはnilでもよい
func NewEventUseCase(client MeetupClient, exporter CalendarExporter, logger *slog.Logger) *EventUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventUseCase{
		client:   client,
		exporter: exporter,
		logger:   logger,
	}
}

// Run アクション名に応じて処理を振り分ける
func (uc *EventUseCase) Run(ctx context.Context, action string, in Input) (*Result, error) {
	switch action {
	case ActionCreate:
		event, err := uc.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		return &Result{Event: event}, nil
	case ActionUpdate:
		event, err := uc.Update(ctx, in)
		if err != nil {
			return nil, err
		}
		return &Result{Event: event}, nil
	case ActionDetails:
		details, err := uc.Details(ctx, in)
		if err != nil {
			return nil, err
		}
		return &Result{Details: details}, nil
	case ActionExport:
		details, link, err := uc.Export(ctx, in)
		if err != nil {
			return nil, err
		}
		return &Result{Details: details, CalendarLink: link}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// Create グループにイベントを作成
func (uc *EventUseCase) Create(ctx context.Context, in Input) (*domain.Event, error) {
	uc.logger.Info("イベントを作成します", "group", in.Group, "title", in.Title)

	event, err := uc.client.CreateEvent(ctx, in.Group, in.Title, in.Description, in.Time)
	if err != nil {
		uc.logger.Error("イベントの作成に失敗しました", "group", in.Group, "error", err)
		return nil, err
	}
	return event, nil
}

// Update 指定された項目だけを更新
func (uc *EventUseCase) Update(ctx context.Context, in Input) (*domain.Event, error) {
	if in.EventID == "" {
		return nil, ErrMissingEventID
	}

	update := BuildUpdate(in)
	if update.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	uc.logger.Info("イベントを更新します", "id", in.EventID)

	event, err := uc.client.UpdateEvent(ctx, in.EventID, update)
	if err != nil {
		uc.logger.Error("イベントの更新に失敗しました", "id", in.EventID, "error", err)
		return nil, err
	}
	return event, nil
}

// Details イベント情報と参加者一覧を取得
func (uc *EventUseCase) Details(ctx context.Context, in Input) (*domain.EventDetails, error) {
	if in.EventID == "" {
		return nil, ErrMissingEventID
	}

	details, err := uc.client.GetEventDetails(ctx, in.EventID)
	if err != nil {
		uc.logger.Error("イベント情報の取得に失敗しました", "id", in.EventID, "error", err)
		return nil, err
	}
	return details, nil
}

// Export イベント情報を取得し、Google Calendarに登録
func (uc *EventUseCase) Export(ctx context.Context, in Input) (*domain.EventDetails, string, error) {
	if uc.exporter == nil {
		return nil, "", ErrExportDisabled
	}

	details, err := uc.Details(ctx, in)
	if err != nil {
		return nil, "", err
	}

	link, err := uc.exporter.ExportEvent(ctx, details)
	if err != nil {
		uc.logger.Error("カレンダーへの登録に失敗しました", "id", in.EventID, "error", err)
		return nil, "", err
	}
	return details, link, nil
}

// BuildUpdate 入力のうち指定された項目だけを更新内容にする
func BuildUpdate(in Input) domain.EventUpdate {
	var update domain.EventUpdate
	if in.Title != "" {
		update.Name = &in.Title
	}
	if in.Description != "" {
		update.Description = &in.Description
	}
	if in.Time != nil {
		update.Time = in.Time
	}
	return update
}
