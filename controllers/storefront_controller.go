package controllers

import (
	"net/http"
	"strconv"

	apperrors "storefront-service/common/errors"
	"storefront-service/common/logger"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"
	"storefront-service/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const checkoutFailedMessage = "Payment processing failed. Please try again."

// StorefrontController serves the HTML pages.
type StorefrontController struct {
	catalog      *services.Catalog
	carts        *services.CartService
	checkout     *services.CheckoutService
	verification *services.VerificationService
	orders       *services.OrderService
}

func NewStorefrontController(
	catalog *services.Catalog,
	carts *services.CartService,
	checkout *services.CheckoutService,
	verification *services.VerificationService,
	orders *services.OrderService,
) *StorefrontController {
	return &StorefrontController{
		catalog:      catalog,
		carts:        carts,
		checkout:     checkout,
		verification: verification,
		orders:       orders,
	}
}

func (s *StorefrontController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Menu renders the menu; ?cart=open also shows the cart panel.
func (s *StorefrontController) Menu(c *gin.Context) {
	cart, err := s.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		s.cartFailed(c, err, "")
		return
	}
	s.renderMenu(c, http.StatusOK, cart, c.Query("cart") == "open", "")
}

func (s *StorefrontController) renderMenu(c *gin.Context, status int, cart *models.Cart, open bool, message string) {
	c.HTML(status, templates.MenuPage, gin.H{
		"Menu":     s.catalog.Items(),
		"Cart":     cart,
		"CartOpen": open,
		"Error":    message,
	})
}

// cartFailed re-renders the menu with the cart panel open and the error shown in it.
func (s *StorefrontController) cartFailed(c *gin.Context, err error, message string) {
	appErr := apperrors.From(err)
	_ = c.Error(appErr)
	if message == "" {
		message = appErr.Message
	}

	cart, getErr := s.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if getErr != nil {
		cart = models.NewCart(middleware.GetSessionID(c))
	}
	s.renderMenu(c, appErr.Code, cart, true, message)
}

func (s *StorefrontController) AddToCart(c *gin.Context) {
	itemID, err := strconv.Atoi(c.PostForm("item_id"))
	if err != nil {
		s.cartFailed(c, apperrors.ErrInvalidInput, "")
		return
	}
	if _, err := s.carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), itemID); err != nil {
		s.cartFailed(c, err, "")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *StorefrontController) RemoveFromCart(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		s.cartFailed(c, apperrors.ErrInvalidInput, "")
		return
	}
	if _, err := s.carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), itemID); err != nil {
		s.cartFailed(c, err, "")
		return
	}
	c.Redirect(http.StatusSeeOther, "/?cart=open")
}

func (s *StorefrontController) UpdateQuantity(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		s.cartFailed(c, apperrors.ErrInvalidInput, "")
		return
	}
	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		s.cartFailed(c, apperrors.ErrInvalidInput, "")
		return
	}
	if _, err := s.carts.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), itemID, quantity); err != nil {
		s.cartFailed(c, err, "")
		return
	}
	c.Redirect(http.StatusSeeOther, "/?cart=open")
}

// Checkout hands the cart to the backend and sends the browser to the hosted
// payment page. The session cart is dropped once the hand-off succeeded.
func (s *StorefrontController) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		s.cartFailed(c, err, "")
		return
	}

	link, err := s.checkout.Initiate(ctx, cart)
	if err != nil {
		message := checkoutFailedMessage
		if apperrors.From(err).Is(apperrors.ErrEmptyCart) {
			message = ""
		}
		s.cartFailed(c, err, message)
		return
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		logger.Warn(c, "Failed to clear cart after checkout", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, link)
}

// PaymentSuccess is the landing page the gateway redirects to.
func (s *StorefrontController) PaymentSuccess(c *gin.Context) {
	status, err := s.verification.Verify(c.Request.Context(), c.Request.URL.Query())

	code := http.StatusOK
	if err != nil {
		appErr := apperrors.From(err)
		_ = c.Error(appErr)
		code = appErr.Code
	}
	if status.Redirect != nil {
		c.Header("Refresh", status.Redirect.RefreshHeader())
	}
	c.HTML(code, templates.PaymentSuccessPage, gin.H{"Status": status})
}

func (s *StorefrontController) Orders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context())
	if err != nil {
		appErr := apperrors.From(err)
		_ = c.Error(appErr)
		c.HTML(appErr.Code, templates.OrdersPage, gin.H{"Error": appErr.Message})
		return
	}
	c.HTML(http.StatusOK, templates.OrdersPage, gin.H{"Orders": orders})
}
