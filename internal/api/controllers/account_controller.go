package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"captionly/internal/models/request_models"
	"captionly/internal/services"
	"captionly/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	creditService  services.CreditService
}

func NewAccountController(accountService services.AccountServiceInterface, creditService services.CreditService) *AccountController {
	return &AccountController{
		accountService: accountService,
		creditService:  creditService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a new free account with the signup credit grant
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /accounts/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.CreateAccount(c.Request.Context(), &req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Account created successfully")
}

// Login godoc
// @Summary Log in
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Router /accounts/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, "Logged in successfully")
}

// Me godoc
// @Summary Current account summary
// @Description Role and credit balance for display
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (a *AccountController) Me(c *gin.Context) {
	accountID, ok := requireAccountID(c)
	if !ok {
		return
	}

	summary, err := a.creditService.GetAccountSummary(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summary, "")
}

// MyTransactions godoc
// @Summary Ledger history for the current account
// @Tags Accounts
// @Produce json
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /accounts/me/transactions [get]
func (a *AccountController) MyTransactions(c *gin.Context) {
	accountID, ok := requireAccountID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := a.creditService.ListTransactions(c.Request.Context(), accountID, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entries, "")
}

// requireAccountID pulls the authenticated account id set by the JWT
// middleware. Core services below this point only ever see the explicit
// id, never the session.
func requireAccountID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("account_id")
	if raw == "" {
		utils.RespondError(c, http.StatusUnauthorized, "account_id missing from token")
		return uuid.Nil, false
	}
	accountID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "account_id in token is not valid")
		return uuid.Nil, false
	}
	return accountID, true
}
