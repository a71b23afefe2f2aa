package dbmysql

import (
	"time"
)

// Note is a row of the notes collection. ImageURL is set only by the post and snap flows.
type Note struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	Author    string    `gorm:"column:author;size:100;default:'anonymous'" json:"author"`
	ImageURL  *string   `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);autoCreateTime;index" json:"created_at"`
}

func (Note) TableName() string {
	return "notes"
}
