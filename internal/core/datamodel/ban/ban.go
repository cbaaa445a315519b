package ban

import "time"

type Ban struct {
	AccountID int64     `gorm:"column:account_id;primaryKey;autoIncrement:false"`
	Reason    string    `gorm:"column:reason;not null"`
	CreatedBy string    `gorm:"column:created_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
