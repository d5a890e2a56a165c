package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/apperr"
	"github.com/user/movieshelf/internal/middleware"
	"github.com/user/movieshelf/internal/service"
	"github.com/user/movieshelf/internal/utils"
)

type addFavoriteRequest struct {
	Title string `json:"title" binding:"required,notblank,max=200"`
}

type listFavoritesQuery struct {
	Title    string `form:"title"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ListFavorites 分页获取收藏
func (h *Handler) ListFavorites(c *gin.Context) {
	var q listFavoritesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, "page and pageSize must be integers")
		return
	}

	favorites, err := h.Favorites.List(c.Request.Context(), middleware.GetUserID(c), q.Title, q.Page, q.PageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, favorites)
}

// GetFavorite 获取单条收藏
func (h *Handler) GetFavorite(c *gin.Context) {
	favorite, err := h.Favorites.GetByID(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, favorite)
}

// AddFavorite 按片名添加收藏，已存在时返回 409 和已有记录
func (h *Handler) AddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, validationMessage(err))
		return
	}

	favorite, err := h.Favorites.Add(c.Request.Context(), middleware.GetUserID(c), req.Title)
	if apperr.Is(err, apperr.CodeConflict) && favorite != nil {
		utils.ErrorWithData(c, http.StatusConflict, err.Error(), favorite)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Created(c, favorite)
}

// RemoveFavorite 删除收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	removed, err := h.Favorites.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !removed {
		h.fail(c, service.ErrFavoriteNotFound)
		return
	}
	utils.Success(c, nil)
}
