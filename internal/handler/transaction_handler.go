package handler

import (
	"net/http"
	"strconv"

	"expense_manager/internal/model"
	"expense_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles a user's own transaction requests
type TransactionHandler struct {
	service service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	transaction, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, transaction)
}

func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 10)

	result, err := h.service.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.service.GetByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, transaction)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req model.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	transaction, err := h.service.Update(c.Request.Context(), userID, transactionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, transactionID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (h *TransactionHandler) DashboardSummary(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	summary, err := h.service.DashboardSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, summary)
}

// parsePositiveInt parses s as a positive integer, falling back to def for
// missing, malformed or non-positive values
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// RegisterTransactionRoutes registers the user-facing transaction routes.
// Ownership is enforced in the service/repository layers; authMW only proves
// identity.
func (h *TransactionHandler) RegisterTransactionRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	txRoutes := rg.Group("/transactions")
	txRoutes.Use(authMW)
	{
		txRoutes.POST("", h.Create)
		txRoutes.GET("", h.List)
		txRoutes.GET("/summary", h.DashboardSummary)
		txRoutes.GET("/:id", h.GetByID)
		txRoutes.PUT("/:id", h.Update)
		txRoutes.DELETE("/:id", h.Delete)
	}
}
