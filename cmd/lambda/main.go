package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/k-negishi/meetup-cli/internal/config"
	"github.com/k-negishi/meetup-cli/internal/domain"
	"github.com/k-negishi/meetup-cli/internal/gateway"
	"github.com/k-negishi/meetup-cli/internal/usecase"
)

// LambdaEvent Lambda実行時のイベント構造体
type LambdaEvent struct {
	Action      string `json:"action"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	ID          string `json:"id,omitempty"`
	Group       string `json:"group,omitempty"`
}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode   int                  `json:"statusCode"`
	Message      string               `json:"message"`
	EventURL     string               `json:"event_url,omitempty"`
	CalendarLink string               `json:"calendar_link,omitempty"`
	Details      *domain.EventDetails `json:"details,omitempty"`
}

// handler Lambda関数のメインハンドラー
func handler(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 設定を読み込み
	cfg, err := config.Load(ctx, "config.json")
	if err != nil {
		return LambdaResponse{StatusCode: 500, Message: "設定読み込みエラー"}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return LambdaResponse{StatusCode: 500, Message: "タイムゾーン設定エラー"}, err
	}

	group := event.Group
	if group == "" {
		group = cfg.DefaultGroup
	}
	in, err := usecase.NormalizeInput(usecase.Params{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		EventID:     event.ID,
		Group:       group,
	}, loc)
	if err != nil {
		return LambdaResponse{StatusCode: 400, Message: err.Error()}, nil
	}

	var exporter usecase.CalendarExporter
	if event.Action == usecase.ActionExport && cfg.GoogleCredentials != "" {
		repo, err := gateway.NewGoogleCalendarRepository(ctx, []byte(cfg.GoogleCredentials), cfg.CalendarID, loc)
		if err != nil {
			return LambdaResponse{StatusCode: 500, Message: "Google Calendar初期化エラー"}, err
		}
		exporter = repo
	}

	client := gateway.NewMeetupClient(cfg.APIKey, cfg.BaseURL, logger)
	uc := usecase.NewEventUseCase(client, exporter, logger)

	result, err := uc.Run(ctx, event.Action, in)
	if isInputError(err) {
		return LambdaResponse{StatusCode: 400, Message: err.Error()}, nil
	}
	if err != nil {
		return LambdaResponse{StatusCode: 500, Message: "Meetup API呼び出しエラー"}, err
	}

	resp := LambdaResponse{StatusCode: 200, Message: "完了", Details: result.Details, CalendarLink: result.CalendarLink}
	if result.Event != nil {
		resp.EventURL = result.Event.EventURL
	}
	return resp, nil
}

// isInputError 呼び出し側の入力に起因するエラーかどうか
func isInputError(err error) bool {
	return errors.Is(err, usecase.ErrMissingEventID) ||
		errors.Is(err, usecase.ErrNothingToUpdate) ||
		errors.Is(err, usecase.ErrUnknownAction) ||
		errors.Is(err, usecase.ErrExportDisabled)
}

func main() {
	lambda.Start(handler)
}
