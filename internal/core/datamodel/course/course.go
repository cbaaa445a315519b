package course

import "time"

type Course struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	CategoryID  *int64    `gorm:"column:category_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CourseAuthor links a course to the accounts allowed to edit it.
type CourseAuthor struct {
	CourseID  int64 `gorm:"column:course_id;primaryKey;autoIncrement:false"`
	AccountID int64 `gorm:"column:account_id;primaryKey;autoIncrement:false"`
}

type Material struct {
	ID        int64     `gorm:"primaryKey"`
	CourseID  int64     `gorm:"column:course_id;index;not null"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
