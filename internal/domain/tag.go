package domain

import "time"

type Tag struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:32;not null"`
	Slug      string    `json:"slug" gorm:"size:32;not null;uniqueIndex"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
