package dbmysql

import (
	"time"
)

// Photo is a row of the photos collection. ID and CreatedAt are assigned on insert.
type Photo struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ImageURL  string    `gorm:"column:image_url;size:500;not null" json:"image_url"`
	Author    string    `gorm:"column:author;size:100;default:'anonymous'" json:"author"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);autoCreateTime;index" json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}
