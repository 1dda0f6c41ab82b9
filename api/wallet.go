package api

import (
	"log/slog"
	"net/http"

	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/service/wallet"
	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	service wallet.WalletUseCase
	log     *slog.Logger
}

type topUpRequest struct {
	Amount int64 `json:"amount"`
}

func NewWalletHandler(service wallet.WalletUseCase, log *slog.Logger) *WalletHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &WalletHandler{service: service, log: log}
}

func (h *WalletHandler) Register(router *gin.RouterGroup) {
	router.GET("/balance", h.balance)
	router.POST("/topup", h.topUp)
}

func (h *WalletHandler) balance(c *gin.Context) {
	b, err := h.service.GetBalance(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *WalletHandler) topUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	b, err := h.service.TopUp(c.Request.Context(), wallet.TopUpInput{UserID: userID(c), Amount: req.Amount})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
