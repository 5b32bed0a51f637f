package model

// swagger:model User
type User struct {
	BaseModel
	Username   string `gorm:"size:100;unique;not null" json:"username"`
	Password   string `gorm:"size:100;not null" json:"-"`
	IsLecturer bool   `gorm:"default:false" json:"is_lecturer"`
}

func (User) TableName() string {
	return "users"
}
