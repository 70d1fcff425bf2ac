package model

type Comment struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" firestore:"id" json:"id"`
	TaskID  int64  `gorm:"column:task_id;not null;index" firestore:"task_id" json:"task_id"`
	UserID  int64  `gorm:"column:user_id;not null;index" firestore:"user_id" json:"user_id"`
	Content string `gorm:"column:content;type:text;not null" firestore:"content" json:"content"`
}

func (Comment) TableName() string {
	return "comments"
}
