package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/k-negishi/meetup-cli/internal/config"
	"github.com/k-negishi/meetup-cli/internal/domain"
	"github.com/k-negishi/meetup-cli/internal/gateway"
	"github.com/k-negishi/meetup-cli/internal/usecase"
)

func main() {
	logLevel := new(slog.LevelVar)
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	if err := newApp(logger, logLevel).Run(os.Args); err != nil {
		logger.Error("実行に失敗しました", "error", err)
		os.Exit(1)
	}
}

// newApp CLIアプリケーションを構築
func newApp(logger *slog.Logger, logLevel *slog.LevelVar) *cli.App {
	return &cli.App{
		Name:  "meetup",
		Usage: "Create, modify and display meetup details.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.json", Usage: "path to the JSON file holding the API key"},
		},
		Commands: []*cli.Command{
			eventCommand(usecase.ActionCreate, "create a new event", logger, logLevel),
			eventCommand(usecase.ActionUpdate, "update an event", logger, logLevel),
			eventCommand(usecase.ActionDetails, "get the event info", logger, logLevel),
			eventCommand(usecase.ActionExport, "copy an event into Google Calendar", logger, logLevel),
		},
	}
}

func eventFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "event title"},
		&cli.StringFlag{Name: "desc", Usage: "event description"},
		&cli.StringFlag{Name: "filedesc", Usage: "path to the text file containing event description"},
		&cli.StringFlag{Name: "date", Usage: "event date, for example 2013-11-11 16:16"},
		&cli.StringFlag{Name: "id", Usage: "event id or event url"},
		&cli.StringFlag{Name: "group", Usage: "group url or last part of it (default: " + config.DefaultGroup + ")"},
	}
}

func eventCommand(action, usage string, logger *slog.Logger, logLevel *slog.LevelVar) *cli.Command {
	return &cli.Command{
		Name:  action,
		Usage: usage,
		Flags: eventFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.Context, c.String("config"))
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
			}
			logLevel.Set(cfg.SlogLevel())

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			group := c.String("group")
			if group == "" {
				group = cfg.DefaultGroup
			}
			in, err := usecase.NormalizeInput(usecase.Params{
				Title:           c.String("title"),
				Description:     c.String("desc"),
				DescriptionFile: c.String("filedesc"),
				Date:            c.String("date"),
				EventID:         c.String("id"),
				Group:           group,
			}, loc)
			if err != nil {
				return err
			}

			var exporter usecase.CalendarExporter
			if action == usecase.ActionExport && cfg.GoogleCredentials != "" {
				repo, err := gateway.NewGoogleCalendarRepository(c.Context, []byte(cfg.GoogleCredentials), cfg.CalendarID, loc)
				if err != nil {
					return err
				}
				exporter = repo
			}

			client := gateway.NewMeetupClient(cfg.APIKey, cfg.BaseURL, logger)
			result, err := usecase.NewEventUseCase(client, exporter, logger).Run(c.Context, action, in)
			if err != nil {
				return err
			}

			printResult(c.App.Writer, action, result)
			return nil
		},
	}
}

// printResult アクションごとの結果を標準出力に表示
func printResult(w io.Writer, action string, result *usecase.Result) {
	switch action {
	case usecase.ActionCreate:
		fmt.Fprintln(w, "Created: "+result.Event.EventURL)
	case usecase.ActionUpdate:
		fmt.Fprintln(w, "Event updated.")
	case usecase.ActionDetails:
		printDetails(w, result.Details)
	case usecase.ActionExport:
		fmt.Fprintln(w, "Exported: "+result.CalendarLink)
	}
}

func printDetails(w io.Writer, details *domain.EventDetails) {
	fmt.Fprintf(w, "Title: %s\n", details.Title)
	fmt.Fprintf(w, "Description:\n%s\n", details.Description)

	ids := make([]int64, 0, len(details.Guests))
	for id := range details.Guests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Fprintf(w, "Guests (%d):\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(w, "  %d: %s\n", id, details.Guests[id])
	}
}
