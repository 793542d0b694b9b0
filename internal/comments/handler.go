package comments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/senolsoyleyici/poemsite/internal/middleware"
	"github.com/senolsoyleyici/poemsite/internal/telemetry/metrics"
	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"
	"github.com/senolsoyleyici/poemsite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type commentsRepo interface {
	Add(ctx context.Context, comment *Comment) error
	All(ctx context.Context) ([]*Comment, error)
	ApprovedForPoem(ctx context.Context, poemID int) ([]*Comment, error)
	SetApproved(ctx context.Context, id int, approved bool) (*Comment, error)
	Delete(ctx context.Context, id int) error
}

// poemChecker confirms the poem a comment points to actually exists
type poemChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type newCommentRequest struct {
	PoemID  int    `json:"poemId"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

type approveCommentRequest struct {
	Approved bool `json:"approved"`
}

type Handler struct {
	repo           commentsRepo
	poems          poemChecker
	metricsManager *metrics.Manager
}

func NewHandler(
	repo commentsRepo,
	poems poemChecker,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		poems:          poems,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	// submissions come from anonymous visitors, keep a lid on them
	rateLimited := middleware.RateLimit(rateLimiter, "new-comment", allowedPerMin, handler.metricsManager)
	router.Handle(
		"/comments",
		rateLimited(http.HandlerFunc(handler.handleNewComment)),
	).Methods("POST", "OPTIONS").Name("new-comment")

	router.HandleFunc("/comments", handler.handleAll).Methods("GET").Name("all-comments")
	router.HandleFunc("/comments/{id}/approve", handler.handleApprove).Methods("PUT", "OPTIONS").Name("approve-comment")
	router.HandleFunc("/comments/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-comment")
	router.HandleFunc("/poems/{id}/comments", handler.handlePoemComments).Methods("GET").Name("poem-comments")
}

func (handler *Handler) handleNewComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "comments.handler.new")
	defer span.End()

	var newCommentReq newCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&newCommentReq); err != nil {
		log.Warnf("add new comment, decode request: %s", err)
		pkg.WriteJSONError(w, "add comment failed", http.StatusBadRequest)
		return
	}

	if newCommentReq.Name == "" || newCommentReq.Comment == "" {
		pkg.WriteJSONError(w, "error, name or comment empty", http.StatusBadRequest)
		return
	}

	poemExists, err := handler.poems.Exists(ctx, newCommentReq.PoemID)
	if err != nil {
		log.Errorf("add new comment, check poem %d: %s", newCommentReq.PoemID, err)
		pkg.WriteJSONError(w, "add comment failed", http.StatusInternalServerError)
		return
	}
	if !poemExists {
		pkg.WriteJSONError(w, "poem not found", http.StatusNotFound)
		return
	}

	newComment := &Comment{
		PoemID:    newCommentReq.PoemID,
		Name:      newCommentReq.Name,
		Comment:   newCommentReq.Comment,
		CreatedAt: time.Now(),
		Approved:  false,
	}

	if err := handler.repo.Add(ctx, newComment); err != nil {
		// the poem can get deleted between the check above and the insert
		if pkg.IsForeignKeyViolationError(err) {
			pkg.WriteJSONError(w, "poem not found", http.StatusNotFound)
			return
		}
		log.Errorf("add new comment failed: %s", err)
		pkg.WriteJSONError(w, "add comment failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterComments.Inc()
	log.Tracef("new comment %d on poem %d, awaiting approval", newComment.ID, newComment.PoemID)

	respBytes, err := json.Marshal(newComment)
	if err != nil {
		log.Errorf("marshal new comment: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "comments.handler.all")
	defer span.End()

	allComments, err := handler.repo.All(ctx)
	if err != nil {
		log.Errorf("get all comments: %s", err)
		pkg.WriteJSONError(w, "failed to get comments", http.StatusInternalServerError)
		return
	}

	if allComments == nil {
		allComments = []*Comment{}
	}

	respBytes, err := json.Marshal(allComments)
	if err != nil {
		log.Errorf("marshal all comments: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handlePoemComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "comments.handler.poemComments")
	defer span.End()

	poemID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	poemExists, err := handler.poems.Exists(ctx, poemID)
	if err != nil {
		log.Errorf("get comments, check poem %d: %s", poemID, err)
		pkg.WriteJSONError(w, "failed to get comments", http.StatusInternalServerError)
		return
	}
	if !poemExists {
		pkg.WriteJSONError(w, "poem not found", http.StatusNotFound)
		return
	}

	approvedComments, err := handler.repo.ApprovedForPoem(ctx, poemID)
	if err != nil {
		log.Errorf("get comments for poem %d: %s", poemID, err)
		pkg.WriteJSONError(w, "failed to get comments", http.StatusInternalServerError)
		return
	}

	if approvedComments == nil {
		approvedComments = []*Comment{}
	}

	respBytes, err := json.Marshal(approvedComments)
	if err != nil {
		log.Errorf("marshal comments for poem %d: %s", poemID, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "comments.handler.approve")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var approveReq approveCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&approveReq); err != nil {
		log.Warnf("approve comment %d, decode request: %s", id, err)
		pkg.WriteJSONError(w, "approve comment failed", http.StatusBadRequest)
		return
	}

	updatedComment, err := handler.repo.SetApproved(ctx, id, approveReq.Approved)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			pkg.WriteJSONError(w, "comment not found", http.StatusNotFound)
			return
		}
		log.Errorf("approve comment %d: %s", id, err)
		pkg.WriteJSONError(w, "approve comment failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("comment %d approved=%t by %s", id, approveReq.Approved, middleware.AdminUsername(ctx))

	respBytes, err := json.Marshal(updatedComment)
	if err != nil {
		log.Errorf("marshal comment %d: %s", id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "comments.handler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			pkg.WriteJSONError(w, "comment not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete comment %d: %s", id, err)
		pkg.WriteJSONError(w, "delete comment failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("comment %d deleted by %s", id, middleware.AdminUsername(ctx))

	pkg.WriteJSONResponseOK(w, `{"message":"comment deleted"}`)
}
