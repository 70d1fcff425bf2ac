package model

type Task struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" firestore:"id" json:"id"`
	Name        string `gorm:"column:name;type:varchar(255);not null" firestore:"name" json:"name"`
	Category    string `gorm:"column:category;type:varchar(255)" firestore:"category" json:"category"`
	Description string `gorm:"column:description;type:text" firestore:"description" json:"description"`
	Priority    *int   `gorm:"column:priority" firestore:"priority" json:"priority"` // nil when unset
	Status      string `gorm:"column:status;type:varchar(100)" firestore:"status" json:"status"`
	UserID      int64  `gorm:"column:user_id;not null;index" firestore:"user_id" json:"user_id"`

	// Relations
	Comments []Comment `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE" firestore:"-" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
