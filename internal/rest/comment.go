package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/shop-comments/domain"
	"github.com/Guyuepp/shop-comments/internal/rest/request"
	"github.com/Guyuepp/shop-comments/internal/rest/response"
)

// CommentHandler represent the httphandler for comments
type CommentHandler struct {
	Service domain.CommentUsecase
	log     logrus.FieldLogger
}

func NewCommentHandler(svc domain.CommentUsecase, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{
		Service: svc,
		log:     log,
	}
}

// Register mounts the comment routes on r.
func (h *CommentHandler) Register(r gin.IRouter) {
	r.GET("/products/:productId/comments", h.FetchProductComments)
	r.POST("/products/:productId/comments", h.CreateComment)
	r.GET("/products/:productId/rating", h.GetRatingSummary)

	r.GET("/comments/:commentId", h.GetByID)
	r.PUT("/comments/:commentId", h.UpdateComment)
	r.DELETE("/comments/:commentId", h.DeleteComment)
	r.GET("/comments/:commentId/thread", h.GetThread)
	r.GET("/comments/:commentId/replies", h.FetchReplies)
	r.GET("/comments/:commentId/replies/count", h.GetReplyCount)
	r.POST("/comments/:commentId/like", h.Like)
	r.POST("/comments/:commentId/unlike", h.Unlike)
	r.GET("/comments/:commentId/likes", h.GetLikes)

	r.GET("/users/:userId/comments", h.FetchUserComments)
}

// FetchProductComments lists the top-level comments of a product
func (h *CommentHandler) FetchProductComments(c *gin.Context) {
	p, ok := h.bindPagination(c)
	if !ok {
		return
	}
	res, err := h.Service.ListProductComments(c.Request.Context(), c.Param("productId"), p)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentPageFromDomain(res))
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Error: err.Error()})
		return
	}

	comment, err := h.Service.Create(c.Request.Context(), req.ToDomain(c.Param("productId")))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCommentFromDomain(comment))
}

func (h *CommentHandler) GetRatingSummary(c *gin.Context) {
	summary, err := h.Service.GetRatingSummary(c.Request.Context(), c.Param("productId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewRatingSummaryFromDomain(summary))
}

// GetByID will get comment by given id
func (h *CommentHandler) GetByID(c *gin.Context) {
	comment, err := h.Service.GetComment(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(comment))
}

// GetThread returns the comment, a page of replies, the reply count and likes in one call
func (h *CommentHandler) GetThread(c *gin.Context) {
	p, ok := h.bindPagination(c)
	if !ok {
		return
	}
	thread, err := h.Service.GetCommentThread(c.Request.Context(), c.Param("commentId"), p)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentThreadFromDomain(thread))
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var req request.CommentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Error: err.Error()})
		return
	}

	comment, err := h.Service.Update(c.Request.Context(), c.Param("commentId"), req.UserID, req.Content, req.Rating)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(comment))
}

// DeleteComment takes the caller from the userId query parameter
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("commentId"), c.Query("userId")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) FetchReplies(c *gin.Context) {
	p, ok := h.bindPagination(c)
	if !ok {
		return
	}
	res, err := h.Service.GetReplies(c.Request.Context(), c.Param("commentId"), p)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentPageFromDomain(res))
}

func (h *CommentHandler) GetReplyCount(c *gin.Context) {
	count, err := h.Service.GetReplyCount(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Like adds a like record if not exists
func (h *CommentHandler) Like(c *gin.Context) {
	var req request.Like
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Error: err.Error()})
		return
	}
	if err := h.Service.Like(c.Request.Context(), c.Param("commentId"), req.UserID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment liked"})
}

// Unlike removes a like record if exists
func (h *CommentHandler) Unlike(c *gin.Context) {
	var req request.Like
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Error: err.Error()})
		return
	}
	if err := h.Service.Unlike(c.Request.Context(), c.Param("commentId"), req.UserID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment unliked"})
}

func (h *CommentHandler) GetLikes(c *gin.Context) {
	likes, err := h.Service.GetLikes(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (h *CommentHandler) FetchUserComments(c *gin.Context) {
	p, ok := h.bindPagination(c)
	if !ok {
		return
	}
	res, err := h.Service.ListUserComments(c.Request.Context(), c.Param("userId"), p)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentPageFromDomain(res))
}

func (h *CommentHandler) bindPagination(c *gin.Context) (domain.Pagination, bool) {
	var req request.Pagination
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Error: err.Error()})
		return domain.Pagination{}, false
	}
	p, err := req.ToDomain()
	if err != nil {
		writeError(c, h.log, err)
		return domain.Pagination{}, false
	}
	return p, true
}
