package domain

// RSVP イベントへの出欠回答
type RSVP struct {
	Response string `json:"response"`
	Member   Member `json:"member"`
}

// Member RSVPを回答したメンバー
type Member struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
}

// Group Meetupグループ
type Group struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	URLName string `json:"urlname"`
}
