package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/internal/service"
	"github.com/pawmart/PetShopGo/pkg/httputil"
	"github.com/pawmart/PetShopGo/pkg/validator"
)

// ReviewHandler handles HTTP requests for ratings, comments, and votes.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitRatingRequest is the JSON request body for submitting a star rating.
type SubmitRatingRequest struct {
	UserName string `json:"user_name" validate:"required,min=1,max=100"`
	Value    int    `json:"value" validate:"required,gte=1,lte=5"`
}

// AddCommentRequest is the JSON request body for adding a comment.
type AddCommentRequest struct {
	UserName string `json:"user_name" validate:"required,min=1,max=100"`
	Body     string `json:"body" validate:"required,min=1,max=1000"`
}

// UpdateCommentRequest is the JSON request body for editing a comment.
type UpdateCommentRequest struct {
	UserName string `json:"user_name" validate:"required,min=1,max=100"`
	Body     string `json:"body" validate:"required,min=1,max=1000"`
}

// VoteRequest is the JSON request body for voting on a comment.
type VoteRequest struct {
	UserName  string `json:"user_name" validate:"required,min=1,max=100"`
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// --- Rating Handlers ---

// ListRatings handles GET /api/v1/products/{id}/ratings
// @Summary List a product's ratings
// @Tags reviews
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/{id}/ratings [get]
func (h *ReviewHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ratings, err := h.reviews.ListRatings(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ratings})
}

// SubmitRating handles POST /api/v1/products/{id}/ratings
// @Summary Submit a star rating
// @Description Records the caller's 1-5 star rating; a repeat submission
// replaces their earlier rating.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body SubmitRatingRequest true "Rating to submit"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id}/ratings [post]
func (h *ReviewHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rating, err := h.reviews.SubmitRating(r.Context(), &service.SubmitRatingInput{
		ProductID: id.String(),
		UserName:  req.UserName,
		Value:     req.Value,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rating})
}

// GetRatingStats handles GET /api/v1/products/{id}/rating-stats
// @Summary Get a product's rating aggregates, badge, and display rating
// @Tags reviews
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id}/rating-stats [get]
func (h *ReviewHandler) GetRatingStats(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	summary, err := h.reviews.GetStatsSummary(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// --- Comment Handlers ---

// ListComments handles GET /api/v1/products/{id}/comments
// @Summary List a product's comments with vote tallies
// @Tags reviews
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/{id}/comments [get]
func (h *ReviewHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	comments, err := h.reviews.ListComments(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comments})
}

// AddComment handles POST /api/v1/products/{id}/comments
// @Summary Add a comment
// @Description Adds a comment; its sentiment is scored from the body before
// persisting.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body AddCommentRequest true "Comment to add"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id}/comments [post]
func (h *ReviewHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.reviews.AddComment(r.Context(), &service.AddCommentInput{
		ProductID: id.String(),
		UserName:  req.UserName,
		Body:      req.Body,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}

// UpdateComment handles PUT /api/v1/comments/{id}
// @Summary Edit a comment
// @Description Rewrites the body and re-scores its sentiment. Only the
// comment's author may edit it.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Comment UUID"
// @Param request body UpdateCommentRequest true "New comment body"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/comments/{id} [put]
func (h *ReviewHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.reviews.UpdateComment(r.Context(), id.String(), req.UserName, req.Body)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// DeleteComment handles DELETE /api/v1/comments/{id}
// @Summary Delete a comment
// @Description Deletes a comment and its votes. Only the comment's author
// may delete it; their name is passed as the user_name query parameter.
// @Tags reviews
// @Produce json
// @Param id path string true "Comment UUID"
// @Param user_name query string true "Comment author"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/comments/{id} [delete]
func (h *ReviewHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userName := r.URL.Query().Get("user_name")
	if userName == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "user_name is required"},
		})
		return
	}

	if err := h.reviews.DeleteComment(r.Context(), id.String(), userName); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// VoteComment handles POST /api/v1/comments/{id}/vote
// @Summary Vote on a comment
// @Description Applies an up or down vote and returns the new tally. A
// repeat vote in the same direction is rejected with 409; an opposite vote
// switches the voter's existing vote.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Comment UUID"
// @Param request body VoteRequest true "Vote to apply"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/comments/{id}/vote [post]
func (h *ReviewHandler) VoteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	direction := domain.VoteUp
	if req.Direction == "down" {
		direction = domain.VoteDown
	}

	result, err := h.reviews.VoteComment(r.Context(), &service.VoteInput{
		CommentID: id.String(),
		UserName:  req.UserName,
		Direction: direction,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
