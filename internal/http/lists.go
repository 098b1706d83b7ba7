package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ListsController struct {
	store ListStore
}

func NewListsController(store ListStore) *ListsController {
	return &ListsController{store: store}
}

// GET /api/lists
func (lc *ListsController) GetLists(c *gin.Context) {
	lists, err := lc.store.GetLists()
	if err != nil {
		respondInternalError(c, err, "get lists")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"lists": lists, "count": len(lists)})
}

// GET /api/lists/:id
func (lc *ListsController) GetList(c *gin.Context) {
	list, err := lc.store.GetList(c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "list", "get list")
		return
	}
	c.IndentedJSON(http.StatusOK, list)
}

// CreateList creates an empty list and returns it.
// POST /api/lists {"name": "Summer", "description": ""}
func (lc *ListsController) CreateList(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondBadRequest(c, "name is required")
		return
	}

	id, err := lc.store.CreateList(req.Name, req.Description)
	if err != nil {
		respondInternalError(c, err, "create list")
		return
	}
	list, err := lc.store.GetList(id)
	if err != nil {
		respondInternalError(c, err, "load created list")
		return
	}
	respondCreated(c, list)
}

// DELETE /api/lists/:id
func (lc *ListsController) DeleteList(c *gin.Context) {
	if err := lc.store.DeleteList(c.Param("id")); err != nil {
		respondInternalError(c, err, "delete list")
		return
	}
	respondSuccess(c, "list deleted")
}

// AddToList appends a book. Re-adding a book keeps its position.
// POST /api/lists/:id/books {"book_id": "gutenberg-84"}
func (lc *ListsController) AddToList(c *gin.Context) {
	var req struct {
		BookID string `json:"book_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	listID := c.Param("id")
	if _, err := lc.store.GetList(listID); err != nil {
		respondStoreError(c, err, "list", "add to list")
		return
	}
	if err := lc.store.AddToList(listID, req.BookID); err != nil {
		respondInternalError(c, err, "add to list")
		return
	}
	respondSuccess(c, "book added to list")
}

// DELETE /api/lists/:id/books/:bookID
func (lc *ListsController) RemoveFromList(c *gin.Context) {
	if err := lc.store.RemoveFromList(c.Param("id"), c.Param("bookID")); err != nil {
		respondInternalError(c, err, "remove from list")
		return
	}
	respondSuccess(c, "book removed from list")
}
