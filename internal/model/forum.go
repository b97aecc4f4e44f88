package model

type ForumCategory struct {
	Model
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

type ForumPost struct {
	Model
	CategoryID string `gorm:"type:varchar(36);index" json:"category_id"`
	Title      string `gorm:"type:varchar(200);not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	AuthorID   string `gorm:"type:varchar(36);index;not null" json:"author_id"`
	AuthorName string `gorm:"type:varchar(200)" json:"author_name"`
	IsLocked   bool   `gorm:"default:false;not null" json:"is_locked"`
	IsPinned   bool   `gorm:"default:false;not null" json:"is_pinned"`
	ReplyCount int    `gorm:"default:0;not null" json:"reply_count"` // 冗余计数，回复时同步自增

	Category ForumCategory `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
}

type ForumReply struct {
	Model
	PostID     string `gorm:"type:varchar(36);index;not null" json:"post_id"`
	AuthorID   string `gorm:"type:varchar(36);not null" json:"author_id"`
	AuthorName string `gorm:"type:varchar(200)" json:"author_name"`
	Content    string `gorm:"type:text;not null" json:"content"`
}
