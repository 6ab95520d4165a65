package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/controllers"
	"github.com/siravitrin-eng/the-pos-67079349/middleware"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

// Register wires every HTTP route. The storefront and editor surfaces
// sit behind the session gate; auth endpoints are rate limited.
func Register(
	r *gin.Engine,
	auth services.AuthService,
	authCtrl *controllers.AuthController,
	catalogCtrl *controllers.CatalogController,
	cartCtrl *controllers.CartController,
	inventoryCtrl *controllers.InventoryController,
	uploadCtrl *controllers.UploadController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/federated", authCtrl.Federated)
		authGroup.POST("/guest", authCtrl.Guest)
		authGroup.POST("/logout", authCtrl.Logout)
	}

	session := r.Group("/")
	session.Use(middleware.RequireAuth(auth))
	{
		session.GET("/auth/me", authCtrl.Me)
		session.PUT("/auth/profile", authCtrl.UpdateProfile)

		session.GET("/catalog", catalogCtrl.GetCatalog)
		session.GET("/catalog/stream", catalogCtrl.Stream)
		session.GET("/catalog/image-history", catalogCtrl.ImageHistory)

		cart := session.Group("/cart")
		{
			cart.GET("", cartCtrl.GetCart)
			cart.POST("/items", cartCtrl.AddItem)
			cart.PATCH("/items/:product_id", cartCtrl.UpdateQuantity)
			cart.DELETE("", cartCtrl.ClearCart)
			cart.POST("/checkout", cartCtrl.Checkout)
		}

		session.POST("/products", inventoryCtrl.CreateProduct)
		session.PUT("/products/:id", inventoryCtrl.UpdateProduct)
		session.POST("/products/seed", inventoryCtrl.Seed)

		session.GET("/selection", inventoryCtrl.GetSelection)
		session.POST("/selection/toggle", inventoryCtrl.ToggleSelect)
		session.POST("/selection/toggle-all", inventoryCtrl.ToggleSelectAll)

		session.POST("/delete-intents", inventoryCtrl.RequestDelete)
		session.POST("/delete-intents/:id/confirm", inventoryCtrl.ConfirmDelete)
		session.POST("/delete-intents/:id/abort", inventoryCtrl.AbortDelete)

		session.POST("/uploads", uploadCtrl.Upload)
	}
}
