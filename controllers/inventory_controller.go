package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/middleware"
	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

type InventoryController struct {
	inventory services.InventoryService
	store     *services.CatalogStore
	flows     *services.ConfirmFlowRegistry
}

func NewInventoryController(inventory services.InventoryService, store *services.CatalogStore, flows *services.ConfirmFlowRegistry) *InventoryController {
	return &InventoryController{
		inventory: inventory,
		store:     store,
		flows:     flows,
	}
}

// CreateProduct validates and inserts a catalog record. The response
// carries the stored record; the live subscription echoes it to views.
func (ic *InventoryController) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	product, svcErr := ic.inventory.Create(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct overwrites all editable fields of a record.
func (ic *InventoryController) UpdateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if svcErr := ic.inventory.Update(c.Request.Context(), c.Param("id"), &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// Seed inserts sample products.
func (ic *InventoryController) Seed(c *gin.Context) {
	if svcErr := ic.inventory.Seed(c.Request.Context()); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sample data seeded"})
}

// ToggleSelect flips one product id in the session's bulk selection.
func (ic *InventoryController) ToggleSelect(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	flow := ic.sessionFlow(c)
	c.JSON(http.StatusOK, gin.H{"selected": flow.ToggleSelect(req.ProductID)})
}

// ToggleSelectAll selects the whole catalog, or clears the selection
// when everything is already selected.
func (ic *InventoryController) ToggleSelectAll(c *gin.Context) {
	products, state := ic.store.Projection()
	if state == services.CatalogForbidden {
		respondError(c, services.NewAccessDeniedError(nil))
		return
	}

	allIDs := make([]string, 0, len(products))
	for _, p := range products {
		allIDs = append(allIDs, p.ID)
	}

	flow := ic.sessionFlow(c)
	c.JSON(http.StatusOK, gin.H{"selected": flow.ToggleSelectAll(allIDs)})
}

// GetSelection returns the session's current bulk selection.
func (ic *InventoryController) GetSelection(c *gin.Context) {
	flow := ic.sessionFlow(c)
	c.JSON(http.StatusOK, gin.H{"selected": flow.SelectedIDs()})
}

// RequestDelete opens a confirmation intent for a single, bulk, or
// clear-all delete.
func (ic *InventoryController) RequestDelete(c *gin.Context) {
	var req struct {
		Kind     models.IntentKind `json:"kind" binding:"required"`
		TargetID string            `json:"target_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	products, _ := ic.store.Projection()
	catalogIDs := make([]string, 0, len(products))
	for _, p := range products {
		catalogIDs = append(catalogIDs, p.ID)
	}

	flow := ic.sessionFlow(c)
	intent, svcErr := flow.Request(req.Kind, req.TargetID, catalogIDs)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"intent": intent})
}

// ConfirmDelete executes the pending intent. Repeat confirms while the
// delete runs are ignored.
func (ic *InventoryController) ConfirmDelete(c *gin.Context) {
	flow := ic.sessionFlow(c)
	if svcErr := flow.Confirm(c.Request.Context(), c.Param("id")); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete completed"})
}

// AbortDelete cancels the pending intent with no side effect.
func (ic *InventoryController) AbortDelete(c *gin.Context) {
	flow := ic.sessionFlow(c)
	if svcErr := flow.Abort(c.Param("id")); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delete aborted"})
}

func (ic *InventoryController) sessionFlow(c *gin.Context) *services.ConfirmFlow {
	return ic.flows.Flow(c.GetString(middleware.SessionIDKey))
}
