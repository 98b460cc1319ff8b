package input

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DateLayout --date で受け付ける日時フォーマット
const DateLayout = "2006-01-02 15:04"

// ParseDate "YYYY-MM-DD HH:MM" 形式の日時を、locの壁時計時刻としてエポックミリ秒に変換
func ParseDate(value string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return 0, fmt.Errorf("日時の形式が不正です (例: 2013-11-11 16:16): %q", value)
	}
	return t.UnixMilli(), nil
}

// LastPathSegment URLが渡された場合は末尾のパス要素だけを返す
func LastPathSegment(value string) string {
	value = strings.TrimRight(value, "/")
	if i := strings.LastIndex(value, "/"); i >= 0 {
		return value[i+1:]
	}
	return value
}

// ResolveDescription インライン指定を優先し、なければファイルの内容を説明文にする。
// ファイルが指定されていれば、インライン指定があっても読めなければエラー
func ResolveDescription(inline, filePath string) (string, error) {
	if filePath == "" {
		return inline, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("説明文ファイルの読み込みに失敗しました: %w", err)
	}
	if inline != "" {
		return inline, nil
	}
	return string(data), nil
}
