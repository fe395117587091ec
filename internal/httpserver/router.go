package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/dmarchuk/storefront/internal/middleware/auth"
)

type Deps struct {
	OrderHandler   *OrderHTTP
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP

	JWTSecret []byte

	PayPalClientID       string
	StripePublishableKey string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := authmw.New(d.JWTSecret)

	users := e.Group("/api/users")
	users.POST("", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.GET("/profile", d.AuthHandler.Profile, mw.RequireAuth)
	users.PUT("/profile", d.AuthHandler.UpdateProfile, mw.RequireAuth)

	orders := e.Group("/api/orders", mw.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/mine", d.OrderHandler.MyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id/pay", d.OrderHandler.ConfirmPayment)

	ordersAdmin := e.Group("/api/orders", mw.RequireAdmin)
	ordersAdmin.GET("", d.OrderHandler.ListOrders)
	ordersAdmin.PATCH("/:id/deliver", d.OrderHandler.ConfirmDelivery)

	products := e.Group("/api/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, mw.RequireAdmin)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, mw.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, mw.RequireAdmin)

	e.GET("/api/config/paypal", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"client_id": d.PayPalClientID})
	})
	e.GET("/api/config/stripe", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"publishable_key": d.StripePublishableKey})
	})
}
