package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vectormag-cms/helper"
	"vectormag-cms/middleware"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created successfully", article)
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	h.listArticles(c, false)
}

func (h *ArticleHandler) GetPublicArticles(c *gin.Context) {
	h.listArticles(c, true)
}

func (h *ArticleHandler) listArticles(c *gin.Context, isPublic bool) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	var actor services.Actor
	if !isPublic {
		actor = middleware.ActorFrom(c)
	}

	articles, total, err := h.articleService.GetArticles(c.Request.Context(), params, actor, isPublic)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	page, limit := params.Page, params.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	h.Helper.SendSuccess(c, "Success", map[string]interface{}{
		"articles":   articles,
		"pagination": h.Helper.GeneratePaging(c, page, limit, int(total)),
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", article)
}

func (h *ArticleHandler) GetPublicArticle(c *gin.Context) {
	article, err := h.articleService.GetPublishedArticle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated successfully", article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article deleted successfully", h.Helper.EmptyJsonMap())
}

// ApplyBlockOps runs a batch of block operations against the article's
// document. The whole batch fails if any operation does.
func (h *ArticleHandler) ApplyBlockOps(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	var req models.BlockOpsRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.ApplyBlockOps(c.Request.Context(), id, req.Ops, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Blocks updated successfully", article)
}

func (h *ArticleHandler) PreviewArticle(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	if article.ContentError != "" {
		h.Helper.SendServiceError(c, fmt.Errorf("article %d: %w", id, services.ErrContentUnavailable))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(article.HTML))
}

func (h *ArticleHandler) ExportArticle(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	page, filename, err := h.articleService.ExportArticle(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", page)
}

func (h *ArticleHandler) GetRevisions(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	revisions, err := h.articleService.GetRevisions(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", revisions)
}

func (h *ArticleHandler) RestoreRevision(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("rev"))
	if err != nil || number < 1 {
		h.Helper.SendBadRequest(c, "Invalid revision number", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.RestoreRevision(c.Request.Context(), id, number, middleware.ActorFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Revision restored successfully", article)
}
