package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthorsController struct {
	store AuthorGetter
}

func NewAuthorsController(store AuthorGetter) *AuthorsController {
	return &AuthorsController{store: store}
}

// GET /api/authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	author, err := ac.store.GetAuthor(c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "author", "get author")
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}
