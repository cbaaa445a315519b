package session

import "time"

// Session is a whitelist entry: a token is accepted only while its row exists.
type Session struct {
	Token     string    `gorm:"column:token;primaryKey"`
	AccountID int64     `gorm:"column:account_id;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index;autoCreateTime"`
}
