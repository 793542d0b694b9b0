package poems

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/senolsoyleyici/poemsite/internal/middleware"
	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"
	"github.com/senolsoyleyici/poemsite/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const allPoemsCacheKey = "poems::all"

var allPoemsCacheExpire = int((5 * time.Minute).Seconds())

type poemsRepo interface {
	Add(ctx context.Context, poem *Poem) error
	Get(ctx context.Context, id int) (*Poem, error)
	Exists(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Poem, error)
}

// viewsCounter bumps and returns the per-poem view count
type viewsCounter interface {
	IncrementPoemViews(ctx context.Context, poemID int) (int64, error)
}

type newPoemRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type poemResponse struct {
	*Poem
	Views int64 `json:"views"`
}

type Handler struct {
	repo  poemsRepo
	views viewsCounter
	cache *freecache.Cache
}

func NewHandler(repo poemsRepo, views viewsCounter) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		repo:  repo,
		views: views,
		cache: freecache.NewCache(megabyte),
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/poems", handler.handleAll).Methods("GET").Name("all-poems")
	router.HandleFunc("/poems", handler.handleNewPoem).Methods("POST", "OPTIONS").Name("new-poem")
	router.HandleFunc("/poems/{id}", handler.handleGetPoem).Methods("GET").Name("get-poem")
	router.HandleFunc("/poems/{id}", handler.handleDeletePoem).Methods("DELETE", "OPTIONS").Name("delete-poem")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "poems.handler.all")
	defer span.End()

	if cachedPoems, err := handler.cache.Get([]byte(allPoemsCacheKey)); err == nil {
		log.Tracef("all poems served from cache")
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cachedPoems)
		return
	}

	allPoems, err := handler.repo.All(ctx)
	if err != nil {
		log.Errorf("get all poems: %s", err)
		pkg.WriteJSONError(w, "failed to get poems", http.StatusInternalServerError)
		return
	}

	if allPoems == nil {
		allPoems = []*Poem{}
	}

	allPoemsJson, err := json.Marshal(allPoems)
	if err != nil {
		log.Errorf("marshal all poems: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(allPoemsCacheKey), allPoemsJson, allPoemsCacheExpire); err != nil {
		log.Errorf("failed to cache all poems: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, allPoemsJson)
}

func (handler *Handler) handleGetPoem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "poems.handler.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	poem, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPoemNotFound) {
			pkg.WriteJSONError(w, "poem not found", http.StatusNotFound)
			return
		}
		log.Errorf("get poem %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to get poem", http.StatusInternalServerError)
		return
	}

	views, err := handler.views.IncrementPoemViews(ctx, id)
	if err != nil {
		// the poem still gets served, just without a fresh count
		log.Errorf("increment views for poem %d: %s", id, err)
	}

	respBytes, err := json.Marshal(poemResponse{
		Poem:  poem,
		Views: views,
	})
	if err != nil {
		log.Errorf("marshal poem %d: %s", id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleNewPoem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "poems.handler.new")
	defer span.End()

	var newPoemReq newPoemRequest
	if err := json.NewDecoder(r.Body).Decode(&newPoemReq); err != nil {
		log.Errorf("add new poem, decode request: %s", err)
		pkg.WriteJSONError(w, "add poem failed", http.StatusBadRequest)
		return
	}

	if newPoemReq.Title == "" || newPoemReq.Content == "" {
		pkg.WriteJSONError(w, "error, poem title or content empty", http.StatusBadRequest)
		return
	}

	newPoem := &Poem{
		Title:     newPoemReq.Title,
		Content:   newPoemReq.Content,
		CreatedAt: time.Now(),
	}

	if err := handler.repo.Add(ctx, newPoem); err != nil {
		log.Errorf("add new poem failed: %s", err)
		pkg.WriteJSONError(w, "add poem failed", http.StatusInternalServerError)
		return
	}

	handler.cache.Del([]byte(allPoemsCacheKey))

	log.Tracef("new poem %d: [%s] added by %s", newPoem.ID, newPoem.Title, middleware.AdminUsername(ctx))

	respBytes, err := json.Marshal(newPoem)
	if err != nil {
		log.Errorf("marshal new poem: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

func (handler *Handler) handleDeletePoem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "poems.handler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrPoemNotFound) {
			pkg.WriteJSONError(w, "poem not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete poem %d: %s", id, err)
		pkg.WriteJSONError(w, "delete poem failed", http.StatusInternalServerError)
		return
	}

	handler.cache.Del([]byte(allPoemsCacheKey))

	log.Tracef("poem %d deleted by %s", id, middleware.AdminUsername(ctx))

	pkg.WriteJSONResponseOK(w, `{"message":"poem deleted"}`)
}
