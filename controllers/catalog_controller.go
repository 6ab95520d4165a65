package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

type CatalogController struct {
	store *services.CatalogStore
}

func NewCatalogController(store *services.CatalogStore) *CatalogController {
	return &CatalogController{store: store}
}

// GetCatalog returns the filtered in-stock storefront view. A denied
// catalog renders as 403, never as an empty list.
func (cc *CatalogController) GetCatalog(c *gin.Context) {
	category := models.Category(c.DefaultQuery("category", string(models.CategoryAll)))
	search := c.Query("search")

	products, svcErr := cc.store.Filtered(category, search)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Stream delivers full-snapshot catalog events over SSE until the client
// disconnects. Subscription teardown is deterministic: the unsubscribe
// runs before the handler returns.
func (cc *CatalogController) Stream(c *gin.Context) {
	updates, unsubscribe := cc.store.Subscribe()
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-updates:
			if !ok {
				return false
			}
			if update.State == services.CatalogLive {
				c.SSEvent("snapshot", update)
			} else {
				c.SSEvent("error", update)
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ImageHistory returns the deduplicated, capped list of previously used
// image URLs derived from the current projection.
func (cc *CatalogController) ImageHistory(c *gin.Context) {
	products, state := cc.store.Projection()
	if state == services.CatalogForbidden {
		respondError(c, services.NewAccessDeniedError(nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": services.ImageHistory(products)})
}
