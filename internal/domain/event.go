package domain

// Event Meetupイベントのドメインエンティティ
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Time 開催日時 (エポックミリ秒)
	Time int64 `json:"time"`
	// Duration 開催時間 (ミリ秒)。未設定の場合は0
	Duration int64  `json:"duration,omitempty"`
	EventURL string `json:"event_url"`
	Group    struct {
		ID      int64  `json:"id"`
		URLName string `json:"urlname"`
	} `json:"group"`
}

// EventUpdate 部分更新する項目。nilの項目は送信しない
type EventUpdate struct {
	Name        *string
	Description *string
	Time        *int64
}

// IsEmpty 更新項目が一つもないかどうか
func (u EventUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Time == nil
}

// EventDetails detailsコマンドで表示するイベント情報
type EventDetails struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Time        int64  `json:"time"`
	Duration    int64  `json:"duration,omitempty"`
	EventURL    string `json:"event_url"`
	// Guests メンバーID -> メンバー名
	Guests map[int64]string `json:"guests"`
}
