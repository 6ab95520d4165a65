package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/middleware"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

type CartController struct {
	cart services.CartService
}

func NewCartController(cart services.CartService) *CartController {
	return &CartController{cart: cart}
}

// GetCart returns the session's cart with its totals.
func (cc *CartController) GetCart(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)

	summary, svcErr := cc.cart.Get(c.Request.Context(), sessionID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddItem adds one unit of a product to the cart.
func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	sessionID := c.GetString(middleware.SessionIDKey)
	summary, svcErr := cc.cart.Add(c.Request.Context(), sessionID, req.ProductID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateQuantity applies a signed delta to one line. The delta is a
// pointer so an explicit zero is distinguishable from an absent field.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	var req struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	sessionID := c.GetString(middleware.SessionIDKey)
	summary, svcErr := cc.cart.UpdateQuantity(c.Request.Context(), sessionID, c.Param("product_id"), *req.Delta)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ClearCart empties the cart. The confirm query parameter carries the
// user's answer to the clear prompt; without it nothing changes.
func (cc *CartController) ClearCart(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	answer := c.Query("confirm") == "true"
	confirm := services.ConfirmerFunc(func(string) bool { return answer })

	cleared, svcErr := cc.cart.Clear(c.Request.Context(), sessionID, confirm)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	if !cleared {
		c.JSON(http.StatusOK, gin.H{"message": "Cart unchanged"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Checkout returns the finalize-transaction summary. Display only: no
// settlement happens and the cart is left as-is.
func (cc *CartController) Checkout(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)

	summary, svcErr := cc.cart.Checkout(c.Request.Context(), sessionID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"message": "Finalize Transaction is a display stub; no settlement occurs",
	})
}
