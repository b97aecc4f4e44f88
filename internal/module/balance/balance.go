package balance

import (
	"fmt"
	"time"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"
	"activity-marketplace/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 提现失败原因，客户端据此展示提示
const (
	ReasonInvalidAmount       = "invalid_amount"
	ReasonInsufficientBalance = "insufficient_balance"
)

var errInsufficient = errors.New("available balance too low")

type WithdrawReq struct {
	Amount string `json:"amount" binding:"required"`
}

type withdrawalRow struct {
	CreatedAt   time.Time       `excel:"申请时间"`
	Amount      decimal.Decimal `excel:"金额"`
	Status      string          `excel:"状态"`
	BankAccount string          `excel:"银行账户"`
}

// GetBalance 当前用户的余额，没有记录时返回全零
func GetBalance(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	balance := model.HostBalance{UserID: payload.UserID}
	err := database.DB.Where("user_id = ?", payload.UserID).Take(&balance).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("查询余额失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, balance)
}

// Withdraw 提现申请：金额从可用余额转入待结算，余额不足时不写入任何记录
func Withdraw(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req WithdrawReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(ReasonInvalidAmount))
		return
	}
	// 金额精确到分，超出两位小数视为非法，不做舍入
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		response.Fail(c, response.ErrInvalidRequest.WithTips(ReasonInvalidAmount))
		return
	}

	var profile model.Profile
	if err := database.DB.Select("bank_account").Where("id = ?", payload.UserID).Take(&profile).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("查询银行账户失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	request := model.WithdrawalRequest{
		UserID:      payload.UserID,
		Amount:      amount,
		Status:      model.WithdrawalPending,
		BankAccount: profile.BankAccount,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// 条件更新，并发提现时以数据库为准
		result := tx.Model(&model.HostBalance{}).
			Where("user_id = ? AND available_balance >= ?", payload.UserID, amount).
			Updates(map[string]any{
				"available_balance": gorm.Expr("available_balance - ?", amount),
				"pending_balance":   gorm.Expr("pending_balance + ?", amount),
				"last_withdrawal": datatypes.NewJSONType(model.LastWithdrawal{
					Amount: amount,
					Date:   time.Now(),
					Status: model.WithdrawalPending,
				}),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errInsufficient
		}
		return tx.Create(&request).Error
	})
	if errors.Is(err, errInsufficient) {
		log.Warn("可用余额不足", "user_id", payload.UserID, "amount", amount)
		response.Fail(c, response.ErrInsufficientBalance.WithTips(ReasonInsufficientBalance))
		return
	}
	if err != nil {
		log.Error("提现申请失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("提现申请已提交", "id", request.ID, "user_id", payload.UserID, "amount", amount)
	response.Success(c, request)
}

func findWithdrawals(userID string) ([]model.WithdrawalRequest, error) {
	requests := make([]model.WithdrawalRequest, 0)
	err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func ListWithdrawals(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	requests, err := findWithdrawals(payload.UserID)
	if err != nil {
		log.Error("获取提现记录失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, requests)
}

func ExportWithdrawals(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	requests, err := findWithdrawals(payload.UserID)
	if err != nil {
		log.Error("获取提现记录失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]withdrawalRow, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, withdrawalRow{
			CreatedAt:   r.CreatedAt,
			Amount:      r.Amount,
			Status:      r.Status,
			BankAccount: r.BankAccount,
		})
	}
	buf, err := tools.WriteWorkbook("提现记录", rows)
	if err != nil {
		log.Error("生成提现表格失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	tools.SendBuffer(c, buf, fmt.Sprintf("withdrawals-%s.xlsx", time.Now().Format("20060102")), tools.ExcelContentType)
}
