package input

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ParseDate テスト ---

func TestParseDate_WallClock(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)

	ms, err := ParseDate("2013-11-11 16:16", jst)
	require.NoError(t, err)
	assert.Equal(t, int64(1384154160000), ms)
}

func TestParseDate_UTC(t *testing.T) {
	ms, err := ParseDate("2013-11-11 16:16", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, int64(1384186560000), ms)
}

func TestParseDate_DefaultsToLocal(t *testing.T) {
	expected := time.Date(2013, 11, 11, 16, 16, 0, 0, time.Local).UnixMilli()

	ms, err := ParseDate("2013-11-11 16:16", nil)
	require.NoError(t, err)
	assert.Equal(t, expected, ms)
}

func TestParseDate_Invalid(t *testing.T) {
	tests := []string{"", "2013/11/11 16:16", "2013-11-11", "tomorrow", "2013-13-01 10:00", " 2013-11-11 16:16 "}

	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			_, err := ParseDate(value, time.UTC)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "日時の形式が不正です")
		})
	}
}

// --- LastPathSegment テスト ---

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://www.meetup.com/Sydney-Linux-User-Group/events/123/", "123"},
		{"https://www.meetup.com/Sydney-Linux-User-Group/events/123", "123"},
		{"https://www.meetup.com/Sydney-Linux-User-Group/", "Sydney-Linux-User-Group"},
		{"123", "123"},
		{"Sydney-Linux-User-Group", "Sydney-Linux-User-Group"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, LastPathSegment(tt.input))
		})
	}
}

// --- ResolveDescription テスト ---

func TestResolveDescription_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>line1</p>\n<p>line2</p>\n"), 0o600))

	desc, err := ResolveDescription("", path)
	require.NoError(t, err)
	assert.Equal(t, "<p>line1</p>\n<p>line2</p>\n", desc)
}

func TestResolveDescription_InlineWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desc.html")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	desc, err := ResolveDescription("inline", path)
	require.NoError(t, err)
	assert.Equal(t, "inline", desc)
}

func TestResolveDescription_InlineWithMissingFile(t *testing.T) {
	_, err := ResolveDescription("inline", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "説明文ファイルの読み込みに失敗しました")
}

func TestResolveDescription_InlineOnly(t *testing.T) {
	desc, err := ResolveDescription("inline", "")
	require.NoError(t, err)
	assert.Equal(t, "inline", desc)
}

func TestResolveDescription_MissingFile(t *testing.T) {
	_, err := ResolveDescription("", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "説明文ファイルの読み込みに失敗しました")
}

func TestResolveDescription_Neither(t *testing.T) {
	desc, err := ResolveDescription("", "")
	require.NoError(t, err)
	assert.Empty(t, desc)
}
