package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"expense_manager/internal/model"
	"expense_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the admin dashboard requests
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req model.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user ID")
		return
	}

	var req model.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "User and their transactions deleted successfully"})
}

func (h *AdminHandler) CreateTransactionFor(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user ID")
		return
	}

	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	transaction, err := h.service.CreateTransactionFor(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, transaction)
}

func (h *AdminHandler) ListAllTransactions(c *gin.Context) {
	transactions, err := h.service.ListAllTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, transactions)
}

func (h *AdminHandler) UpdateTransaction(c *gin.Context) {
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

	transaction, err := h.service.UpdateTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, transaction)
}

func (h *AdminHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.service.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func (h *AdminHandler) ExportTransactionsCSV(c *gin.Context) {
	csvBuffer, err := h.service.ExportTransactionsCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("transactions_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", csvBuffer.Bytes())
}

// RegisterAdminRoutes registers the admin dashboard routes. adminMW is the
// centralized role guard; every route here requires it.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("/users", h.ListUsers)
		adminRoutes.POST("/users", h.CreateUser)
		adminRoutes.PUT("/users/:id", h.UpdateUser)
		adminRoutes.DELETE("/users/:id", h.DeleteUser)
		adminRoutes.POST("/users/:id/transactions", h.CreateTransactionFor)
		adminRoutes.GET("/transactions", h.ListAllTransactions)
		adminRoutes.PUT("/transactions/:id", h.UpdateTransaction)
		adminRoutes.DELETE("/transactions/:id", h.DeleteTransaction)
		adminRoutes.GET("/transactions/export/csv", h.ExportTransactionsCSV)
	}
}
