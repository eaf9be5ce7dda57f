package controllers

import (
	"net/http"
	"strconv"

	apperrors "storefront-service/common/errors"
	"storefront-service/common/logger"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// APIController exposes the storefront flows as JSON. Errors are attached with
// c.Error and rendered by the error middleware.
type APIController struct {
	catalog      *services.Catalog
	carts        *services.CartService
	checkout     *services.CheckoutService
	verification *services.VerificationService
	orders       *services.OrderService
}

func NewAPIController(
	catalog *services.Catalog,
	carts *services.CartService,
	checkout *services.CheckoutService,
	verification *services.VerificationService,
	orders *services.OrderService,
) *APIController {
	return &APIController{
		catalog:      catalog,
		carts:        carts,
		checkout:     checkout,
		verification: verification,
		orders:       orders,
	}
}

type addItemRequest struct {
	ItemID int `json:"item_id" binding:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse is the JSON view of a session cart.
type CartResponse struct {
	Items     []models.CartEntry `json:"items"`
	Count     int                `json:"count"`
	ItemCount int                `json:"item_count"`
	Total     decimal.Decimal    `json:"total"`
}

func newCartResponse(cart *models.Cart) CartResponse {
	return CartResponse{
		Items:     cart.Entries(),
		Count:     cart.Len(),
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}
}

func (a *APIController) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": a.catalog.Items()})
}

func (a *APIController) Cart(c *gin.Context) {
	cart, err := a.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (a *APIController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	cart, err := a.carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), req.ItemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (a *APIController) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	cart, err := a.carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), itemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// UpdateQuantity sets an entry's quantity. Values below 1 leave the cart unchanged.
func (a *APIController) UpdateQuantity(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	cart, err := a.carts.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), itemID, *req.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (a *APIController) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)

	cart, err := a.carts.Get(ctx, sessionID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	link, err := a.checkout.Initiate(ctx, cart)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := a.carts.Clear(ctx, sessionID); err != nil {
		logger.Warn(c, "Failed to clear cart after checkout", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

// VerifyPayment returns the verification status. Failed verifications are still
// answered with the status body; a transaction the backend reports as unpaid
// gets 402.
func (a *APIController) VerifyPayment(c *gin.Context) {
	status, err := a.verification.Verify(c.Request.Context(), c.Request.URL.Query())
	if err == nil && !status.IsSuccess {
		err = apperrors.ErrPaymentUnverified
	}
	if err != nil {
		appErr := apperrors.From(err)
		_ = c.Error(appErr)
		c.JSON(appErr.Code, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (a *APIController) Orders(c *gin.Context) {
	orders, err := a.orders.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
