package handlers

import (
	"net/http"
	"strings"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// PostHandler serves posts and everything hanging off them: comments,
// reactions and donations.
type PostHandler struct {
	svc            *service.Service
	maxUploadBytes int64
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(svc *service.Service, maxUploadBytes int64) *PostHandler {
	return &PostHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// ListPosts godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param author query string false "Author ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} service.List[models.Post]
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	filter := service.PostFilter{Page: page}
	if raw := c.Query("author"); raw != "" {
		author, err := uuid.Parse(raw)
		if err != nil {
			fail(c, apierr.Invalid("invalid author", apierr.Violation{
				Field: "author", Rule: "uuid", Message: "author must be a UUID",
			}))
			return
		}
		filter.AuthorID = &author
	}

	posts, err := h.svc.ListPosts(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} middleware.Envelope
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Publish a post
// @Description Accepts JSON, or a multipart form with an optional image
// @Tags posts
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param body body service.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} middleware.Envelope
// @Failure 403 {object} middleware.Envelope
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.CreatePostRequest
	var image *service.Upload

	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		upload, closeFile, err := formFile(c, "image", h.maxUploadBytes, false)
		if err != nil {
			fail(c, err)
			return
		}
		defer closeFile()
		image = upload

		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			fail(c, apierr.Invalid("invalid form").Wrap(err))
			return
		}
	} else if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), actor, req, image)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost changes a post. Only its author or a moderator may do so.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdatePostRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), actor, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post and its hosted image.
func (h *PostHandler) DeletePost(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) ListComments(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment godoc
// @Summary Comment on a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body service.CommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 403 {object} middleware.Envelope
// @Failure 404 {object} middleware.Envelope
// @Router /posts/{id}/comments [post]
func (h *PostHandler) CreateComment(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req service.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), actor, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// React sets the caller's reaction to a post, replacing any earlier one.
func (h *PostHandler) React(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req service.ReactRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	reaction, err := h.svc.React(c.Request.Context(), actor, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reaction)
}

func (h *PostHandler) Unreact(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.Unreact(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) ReactionSummary(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	summary, err := h.svc.ReactionSummary(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Donate godoc
// @Summary Donate to a post
// @Description Records a pending donation and returns the payment client secret
// @Tags donations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body service.DonationRequest true "Donation"
// @Success 201 {object} service.DonationResult
// @Failure 404 {object} middleware.Envelope
// @Failure 409 {object} middleware.Envelope
// @Router /posts/{id}/donations [post]
func (h *PostHandler) Donate(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req service.DonationRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	result, err := h.svc.Donate(c.Request.Context(), actor, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PostHandler) ListDonations(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		fail(c, err)
		return
	}

	donations, err := h.svc.ListDonations(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}
