package model

const (
	RoleUser       = 0
	RoleAdmin      = 1
	RoleSuperAdmin = 2
)

type Profile struct {
	Model
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"type:varchar(100)" json:"last_name"`
	AvatarURL    string `gorm:"type:varchar(512)" json:"avatar_url"`
	Phone        string `gorm:"type:varchar(32)" json:"phone"`
	BankAccount  string `gorm:"type:varchar(64)" json:"bank_account"`
	IsAdmin      bool   `gorm:"default:false;not null" json:"is_admin"`
	IsSuperAdmin bool   `gorm:"default:false;not null" json:"is_super_admin"`
}

// RoleID 由两个标志位推导出角色等级
func (p *Profile) RoleID() int {
	switch {
	case p.IsSuperAdmin:
		return RoleSuperAdmin
	case p.IsAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// DisplayName 论坛作者名等冗余字段使用
func (p *Profile) DisplayName() string {
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		return p.Email
	}
	return name
}
