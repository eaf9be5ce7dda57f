package routes

import (
	apperrors "storefront-service/common/errors"
	"storefront-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, pages *controllers.StorefrontController, api *controllers.APIController) {
	r.GET("/health", pages.Health)
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	// Pages
	r.GET("/", pages.Menu)
	r.POST("/cart/add", pages.AddToCart)
	r.POST("/cart/remove/:item_id", pages.RemoveFromCart)
	r.POST("/cart/quantity/:item_id", pages.UpdateQuantity)
	r.POST("/checkout", pages.Checkout)
	r.GET("/payment-success", pages.PaymentSuccess)
	r.GET("/orders", pages.Orders)

	// JSON API
	group := r.Group("/api")
	{
		group.GET("/menu", api.Menu)
		group.GET("/cart", api.Cart)
		group.POST("/cart/items", api.AddItem)
		group.DELETE("/cart/items/:item_id", api.RemoveItem)
		group.PUT("/cart/items/:item_id", api.UpdateQuantity)
		group.POST("/checkout", api.Checkout)
		group.GET("/verify-payment", api.VerifyPayment)
		group.GET("/orders", api.Orders)
	}
}
