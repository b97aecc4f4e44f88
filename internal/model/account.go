package model

// Account 登录凭证，ID 与 Profile.ID 一致
type Account struct {
	Model
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
}
