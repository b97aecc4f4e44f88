package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	WithdrawalPending   = "pending"
	WithdrawalCompleted = "completed"
	WithdrawalFailed    = "failed"
)

// LastWithdrawal 最近一次提现摘要，以 JSON 存在余额行上
type LastWithdrawal struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Status string          `json:"status"`
}

// HostBalance 主办方余额，客户端只读，变化只来自提现申请与结算
type HostBalance struct {
	Model
	UserID           string                              `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	AvailableBalance decimal.Decimal                     `gorm:"type:decimal(12,2);not null;default:0" json:"available_balance"`
	PendingBalance   decimal.Decimal                     `gorm:"type:decimal(12,2);not null;default:0" json:"pending_balance"`
	TotalEarnings    decimal.Decimal                     `gorm:"type:decimal(12,2);not null;default:0" json:"total_earnings"`
	LastWithdrawal   *datatypes.JSONType[LastWithdrawal] `json:"last_withdrawal"`
}

type WithdrawalRequest struct {
	Model
	UserID      string          `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status      string          `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	BankAccount string          `gorm:"type:varchar(64)" json:"bank_account"`
}
