package model

type User struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" firestore:"id" json:"id"`
	Username string `gorm:"column:username;type:varchar(255);uniqueIndex;not null" firestore:"username" json:"username"`
	Password string `gorm:"column:password;type:varchar(255);not null" firestore:"password" json:"-"`

	// Relations
	Tasks    []Task    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" firestore:"-" json:"-"`
	Comments []Comment `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" firestore:"-" json:"-"`
}

func (User) TableName() string {
	return "users"
}
