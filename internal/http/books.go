package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bearthen/library/internal/entities"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// GetBooks returns all books, or a filtered subset.
// GET /api/books?category=fiction
// GET /api/books?since=1700000000
func (bc *BooksController) GetBooks(c *gin.Context) {
	var (
		books []entities.Book
		err   error
	)

	switch {
	case c.Query("category") != "":
		books, err = bc.store.GetByCategory(c.Query("category"))
	case c.Query("since") != "":
		since, perr := strconv.ParseInt(c.Query("since"), 10, 64)
		if perr != nil {
			respondBadRequest(c, "invalid since")
			return
		}
		books, err = bc.store.GetSince(since)
	default:
		books, err = bc.store.GetBooks()
	}
	if err != nil {
		respondInternalError(c, err, "get books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetRecentlyRead returns books by last_read.
// GET /api/books/recent?limit=5
func (bc *BooksController) GetRecentlyRead(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	books, err := bc.store.GetRecentlyRead(limit)
	if err != nil {
		respondInternalError(c, err, "get recently read")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.store.GetBook(c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "book", "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// AddBook stores a new book. An existing ID is a conflict; nothing is
// overwritten.
// POST /api/books
func (bc *BooksController) AddBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid book: "+err.Error())
		return
	}
	if book.ID == "" {
		respondBadRequest(c, "id is required")
		return
	}

	added, err := bc.store.AddBook(&book)
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}
	if !added {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "book already exists"})
		return
	}
	respondCreated(c, book)
}

// DELETE /api/books/:id
func (bc *BooksController) RemoveBook(c *gin.Context) {
	if err := bc.store.RemoveBook(c.Param("id")); err != nil {
		respondStoreError(c, err, "book", "remove book")
		return
	}
	respondSuccess(c, "book removed")
}

type positionRequest struct {
	CFI     string `json:"cfi"`
	Percent *int   `json:"percent" binding:"required"`
}

// UpdatePosition records the reader location.
// PUT /api/books/:id/position {"cfi": "epubcfi(...)", "percent": 42}
func (bc *BooksController) UpdatePosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "percent is required")
		return
	}
	if err := bc.store.UpdatePosition(c.Param("id"), req.CFI, *req.Percent); err != nil {
		respondStoreError(c, err, "book", "update position")
		return
	}
	respondSuccess(c, "position updated")
}

// PUT /api/books/:id/percent {"percent": 42}
func (bc *BooksController) UpdateReadPercent(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "percent is required")
		return
	}
	if err := bc.store.UpdateReadPercent(c.Param("id"), *req.Percent); err != nil {
		respondStoreError(c, err, "book", "update read percent")
		return
	}
	respondSuccess(c, "read percent updated")
}

// PUT /api/books/:id/finished
func (bc *BooksController) MarkFinished(c *gin.Context) {
	if err := bc.store.MarkFinished(c.Param("id")); err != nil {
		respondStoreError(c, err, "book", "mark finished")
		return
	}
	respondSuccess(c, "book marked finished")
}

type pathRequest struct {
	Path string `json:"path"`
}

// UpdateCoverLocal records a downloaded cover. An empty path clears it.
// PUT /api/books/:id/cover {"path": "/data/assets/cover_84.jpg"}
func (bc *BooksController) UpdateCoverLocal(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := bc.store.UpdateCoverLocal(c.Param("id"), req.Path); err != nil {
		respondStoreError(c, err, "book", "update cover")
		return
	}
	respondSuccess(c, "cover updated")
}

// UpdateFilePath records a downloaded EPUB. An empty path clears it.
// PUT /api/books/:id/file {"path": "/data/assets/book_84.epub"}
func (bc *BooksController) UpdateFilePath(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := bc.store.UpdateFilePath(c.Param("id"), req.Path); err != nil {
		respondStoreError(c, err, "book", "update file path")
		return
	}
	respondSuccess(c, "file path updated")
}
