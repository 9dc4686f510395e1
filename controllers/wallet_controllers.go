package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/realtime"
	"github.com/yeremiapane/coffee-order-app/services"
	"github.com/yeremiapane/coffee-order-app/utils"
)

type WalletController struct {
	Wallet  *services.WalletService
	Codes   *services.PaymentCodeService
	Gateway *services.TopUpGateway
}

func NewWalletController(wallet *services.WalletService, codes *services.PaymentCodeService, gateway *services.TopUpGateway) *WalletController {
	return &WalletController{Wallet: wallet, Codes: codes, Gateway: gateway}
}

// GetBalance -> wallet and loyalty balances
func (wc *WalletController) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	account, err := wc.Wallet.GetAccount(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Wallet balance", gin.H{
		"wallet_balance": account.WalletBalance,
		"loyalty_points": account.LoyaltyPoints,
	})
}

// TopUp -> start a wallet top-up via mobile money
func (wc *WalletController) TopUp(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req struct {
		Amount      float64 `json:"amount" binding:"required"`
		Phone       string  `json:"phone" binding:"required"`
		Method      string  `json:"method" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := wc.Wallet.TopUp(services.TopUpInput{
		AccountID:   userID,
		Amount:      req.Amount,
		Phone:       req.Phone,
		Method:      req.Method,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.Transaction.Status == models.TransactionStatusSuccess {
		realtime.BroadcastWalletUpdate(*result.Transaction)
	}
	utils.RespondJSON(c, http.StatusCreated, "Top-up created", result)
}

// HandleTopUpCallback -> signed confirmation from the mobile-money
// provider. Re-delivered callbacks are no-ops.
func (wc *WalletController) HandleTopUpCallback(c *gin.Context) {
	var req struct {
		ReferenceID string `json:"reference_id" binding:"required"`
		Status      string `json:"status" binding:"required"`
		Amount      string `json:"amount" binding:"required"`
		Signature   string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if wc.Gateway == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errors.New("top-up gateway not configured"))
		return
	}
	if !wc.Gateway.VerifyCallback(req.ReferenceID, req.Status, req.Amount, req.Signature) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid callback signature"))
		return
	}

	status := models.TransactionStatusFailed
	switch req.Status {
	case "success", "settlement":
		status = models.TransactionStatusSuccess
	case "expired":
		status = models.TransactionStatusExpired
	}

	txn, err := wc.Wallet.ConfirmTopUp(req.ReferenceID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if txn.Status == models.TransactionStatusSuccess {
		realtime.BroadcastWalletUpdate(*txn)
	}
	utils.RespondJSON(c, http.StatusOK, "Top-up confirmed", gin.H{"transaction": txn})
}

// GetTransactions -> the caller's wallet history
func (wc *WalletController) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	txns, err := wc.Wallet.Transactions(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Wallet transactions", txns)
}

// GeneratePaymentCode -> short-lived code authorizing an in-person
// settlement; shown beside the order QR.
func (wc *WalletController) GeneratePaymentCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	code, err := wc.Codes.Generate(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment code generated", gin.H{
		"code":       code.Code,
		"expires_at": code.ExpiresAt,
	})
}
