package balance

import (
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errReviewed = errors.New("withdrawal already reviewed")

// ReviewReq 只记录结算结果，不发起实际转账
type ReviewReq struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=completed failed"`
}

// ListPending 待审核的提现申请，先申请的在前
func ListPending(c *gin.Context) {
	requests := make([]model.WithdrawalRequest, 0)
	if err := database.DB.Where("status = ?", model.WithdrawalPending).
		Order("created_at ASC").Find(&requests).Error; err != nil {
		log.Error("获取待审核提现失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, requests)
}

// Review 完成时从待结算扣除；失败时退回可用余额
func Review(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req ReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定审核请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var request model.WithdrawalRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", req.ID).Take(&request).Error; err != nil {
			return err
		}
		// 条件更新，重复审核不会重复记账
		result := tx.Model(&model.WithdrawalRequest{}).
			Where("id = ? AND status = ?", req.ID, model.WithdrawalPending).
			Update("status", req.Status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errReviewed
		}
		request.Status = req.Status

		updates := map[string]any{
			"pending_balance": gorm.Expr("pending_balance - ?", request.Amount),
		}
		if req.Status == model.WithdrawalFailed {
			updates["available_balance"] = gorm.Expr("available_balance + ?", request.Amount)
		}

		var newer int64
		if err := tx.Model(&model.WithdrawalRequest{}).
			Where("user_id = ? AND created_at > ?", request.UserID, request.CreatedAt).
			Count(&newer).Error; err != nil {
			return err
		}
		if newer == 0 {
			updates["last_withdrawal"] = datatypes.NewJSONType(model.LastWithdrawal{
				Amount: request.Amount,
				Date:   request.CreatedAt,
				Status: req.Status,
			})
		}
		return tx.Model(&model.HostBalance{}).Where("user_id = ?", request.UserID).Updates(updates).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("提现申请不存在"))
		return
	case errors.Is(err, errReviewed):
		response.Fail(c, response.ErrConflict.WithTips("该申请已审核"))
		return
	case err != nil:
		log.Error("审核提现失败", "error", err, "id", req.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("提现已审核", "id", request.ID, "status", request.Status, "operator", payload.UserID)
	response.Success(c, request)
}
