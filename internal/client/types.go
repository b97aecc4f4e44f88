package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Identity  `json:"user"`
}

type SignUpInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Roles struct {
	IsAdmin      bool `json:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin"`
}

// ProfileRef 按邮箱查到的用户
type ProfileRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    string    `json:"avatar_url"`
	Phone        string    `json:"phone"`
	BankAccount  string    `json:"bank_account"`
	IsAdmin      bool      `json:"is_admin"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type Activity struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	AgeRange    string          `json:"age_range"`
	IsPremium   bool            `json:"is_premium"`
	Status      string          `json:"status"`
	CreatorID   string          `json:"creator_id"`
	CreatorName string          `json:"creator_name"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

const StatusDraft = "draft"

// ActivityInput 创建或更新活动提交的字段，创建人由会话决定
type ActivityInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	AgeRange    string          `json:"age_range"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsPremium   bool            `json:"is_premium"`
	Status      string          `json:"status,omitempty"`
}

type ActivityQuery struct {
	CreatorID string
	Category  string
	Page      int
	PageSize  int
}

type ActivityPage struct {
	Activities []Activity `json:"activities"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

type Schedule struct {
	ID             string           `json:"id"`
	ActivityID     string           `json:"activity_id"`
	Date           string           `json:"date"`
	StartTime      string           `json:"start_time"`
	EndTime        string           `json:"end_time"`
	AvailableSpots int              `json:"available_spots"`
	BookedSpots    int              `json:"booked_spots"`
	PriceOverride  *decimal.Decimal `json:"price_override"`
	CreatedAt      time.Time        `json:"created_at"`
}

type ScheduleInput struct {
	ActivityID     string           `json:"activity_id"`
	Date           string           `json:"date"`
	StartTime      string           `json:"start_time"`
	EndTime        string           `json:"end_time"`
	AvailableSpots int              `json:"available_spots"`
	BookedSpots    int              `json:"booked_spots"`
	PriceOverride  *decimal.Decimal `json:"price_override,omitempty"`
}

type ForumPost struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	IsLocked   bool      `json:"is_locked"`
	IsPinned   bool      `json:"is_pinned"`
	ReplyCount int       `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ForumCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LastWithdrawal struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Status string          `json:"status"`
}

type Balance struct {
	UserID           string          `json:"user_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	LastWithdrawal   *LastWithdrawal `json:"last_withdrawal"`
}

type Withdrawal struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	BankAccount string          `json:"bank_account"`
	CreatedAt   time.Time       `json:"created_at"`
}
