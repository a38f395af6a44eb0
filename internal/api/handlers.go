package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/cards"
	"github.com/youruser/decklist/internal/deck"
	"github.com/youruser/decklist/internal/lookup"
	"github.com/youruser/decklist/internal/render"
	"github.com/youruser/decklist/internal/store"
	"github.com/youruser/decklist/internal/util"
)

// Options configures a Handler.
type Options struct {
	Store    store.Persistence
	Catalog  lookup.Catalog
	Resolver *lookup.Resolver
	// HTTP fetches card art for share images.
	HTTP   util.HTTPDoer
	QRSize int
	MaxArt int
	// MaxSessions caps concurrent search sessions; zero keeps the default.
	MaxSessions int
	Logger      *zap.Logger
}

// Handler serves the decklist API. Edits to one block are serialized; the
// engine itself is lock-free and every edit replaces the stored payload whole.
type Handler struct {
	store    store.Persistence
	catalog  lookup.Catalog
	resolver *lookup.Resolver
	sessions *lookup.Sessions
	http     util.HTTPDoer
	qrSize   int
	maxArt   int
	logger   *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*blockLock
}

// blockLock serializes edits to one block. refs counts holders and waiters;
// the entry is dropped when it reaches zero.
type blockLock struct {
	mu   sync.Mutex
	refs int
}

// NewHandler builds a Handler from opts.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = lookup.NewResolver(opts.Catalog, 0, logger)
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = util.NewHTTPClient(0)
	}
	qrSize := opts.QRSize
	if qrSize <= 0 {
		qrSize = 400
	}
	return &Handler{
		store:    opts.Store,
		catalog:  opts.Catalog,
		resolver: resolver,
		sessions: lookup.NewSessions(resolver, lookup.WithMaxSessions(opts.MaxSessions)),
		http:     httpClient,
		qrSize:   qrSize,
		maxArt:   opts.MaxArt,
		logger:   logger.With(zap.String("component", "api")),
		locks:    map[string]*blockLock{},
	}
}

func (h *Handler) lock(id string) func() {
	h.locksMu.Lock()
	l, ok := h.locks[id]
	if !ok {
		l = &blockLock{}
		h.locks[id] = l
	}
	l.refs++
	h.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		h.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.locks, id)
		}
		h.locksMu.Unlock()
	}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	sessionID := c.DefaultQuery("session", "default")
	results, current, err := h.sessions.Get(sessionID).Search(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": results, "current": current})
}

func (h *Handler) classify(c *gin.Context) {
	sideboard, _ := strconv.ParseBool(c.Query("sideboard"))
	c.JSON(http.StatusOK, gin.H{"category": deck.Classify(c.Query("type"), sideboard)})
}

type createRequest struct {
	DecklistName       *string `json:"decklistName"`
	DecklistPlayerName string  `json:"decklistPlayerName"`
}

func (h *Handler) createDecklist(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	payload := deck.NewPayload().WithPlayerName(req.DecklistPlayerName)
	if req.DecklistName != nil {
		payload = payload.WithName(*req.DecklistName)
	}
	id, err := h.store.Create(payload)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("decklist block created", zap.String("id", id))
	c.JSON(http.StatusCreated, gin.H{"id": id, "payload": payload})
}

func (h *Handler) getDecklist(c *gin.Context) {
	payload, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) putDecklist(c *gin.Context) {
	var payload deck.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := deck.FromPayload(payload); err != nil {
		h.writeError(c, err)
		return
	}
	id := c.Param("id")
	defer h.lock(id)()
	if _, err := h.store.Get(id); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.Put(id, payload); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type patchRequest struct {
	DecklistName       *string `json:"decklistName"`
	DecklistPlayerName *string `json:"decklistPlayerName"`
}

func (h *Handler) patchDecklist(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.update(c, func(p deck.Payload) (deck.Payload, any, error) {
		if req.DecklistName != nil {
			p = p.WithName(*req.DecklistName)
		}
		if req.DecklistPlayerName != nil {
			p = p.WithPlayerName(*req.DecklistPlayerName)
		}
		return p, nil, nil
	})
}

func (h *Handler) deleteDecklist(c *gin.Context) {
	id := c.Param("id")
	defer h.lock(id)()
	if err := h.store.Delete(id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) leaveDecklist(c *gin.Context) {
	id := c.Param("id")
	defer h.lock(id)()
	deleted, err := h.store.DeleteIfEmpty(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type addRequest struct {
	Name      string `json:"name"`
	Query     string `json:"query"`
	Sideboard bool   `json:"sideboard"`
}

func (h *Handler) addCard(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" && req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name or query is required"})
		return
	}
	mode := lookup.Mode{Sideboard: req.Sideboard}
	ctx := c.Request.Context()
	h.updateDecklist(c, func(d deck.Decklist) (deck.Decklist, any, error) {
		if req.Name != "" {
			next, placed, err := h.resolver.Place(ctx, req.Name, mode, d)
			return next, placed, err
		}
		next, placed, err := h.resolver.ResolveAndPlace(ctx, req.Query, mode, d, lookup.First)
		return next, placed, err
	})
}

type countRequest struct {
	Category   string `json:"category" binding:"required"`
	Name       string `json:"name" binding:"required"`
	FullRemove bool   `json:"fullRemove"`
}

func (h *Handler) incrementCard(c *gin.Context) {
	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.updateDecklist(c, func(d deck.Decklist) (deck.Decklist, any, error) {
		next, err := deck.Increment(d, deck.Category(req.Category), req.Name)
		return next, nil, err
	})
}

func (h *Handler) decrementCard(c *gin.Context) {
	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.updateDecklist(c, func(d deck.Decklist) (deck.Decklist, any, error) {
		next, err := deck.Decrement(d, deck.Category(req.Category), req.Name, req.FullRemove)
		return next, nil, err
	})
}

// update applies fn to the stored payload under the block lock and writes the
// result back whole. extra, when non-nil, is returned alongside the payload.
func (h *Handler) update(c *gin.Context, fn func(deck.Payload) (deck.Payload, any, error)) {
	id := c.Param("id")
	defer h.lock(id)()

	payload, err := h.store.Get(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	next, extra, err := fn(payload)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.Put(id, next); err != nil {
		h.writeError(c, err)
		return
	}
	resp := gin.H{"payload": next}
	if extra != nil {
		resp["placed"] = extra
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateDecklist(c *gin.Context, fn func(deck.Decklist) (deck.Decklist, any, error)) {
	h.update(c, func(p deck.Payload) (deck.Payload, any, error) {
		d, err := deck.FromPayload(p)
		if err != nil {
			return p, nil, err
		}
		next, extra, err := fn(d)
		if err != nil {
			return p, nil, err
		}
		return p.WithDecklist(next), extra, nil
	})
}

func (h *Handler) loadDecklist(c *gin.Context) (deck.Payload, deck.Decklist, bool) {
	payload, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return payload, nil, false
	}
	d, err := deck.FromPayload(payload)
	if err != nil {
		h.writeError(c, err)
		return payload, nil, false
	}
	return payload, d, true
}

func (h *Handler) tree(c *gin.Context) {
	payload, d, ok := h.loadDecklist(c)
	if !ok {
		return
	}
	main, side := d.Totals()
	c.JSON(http.StatusOK, gin.H{
		"decklistName":       payload.DecklistName,
		"decklistPlayerName": payload.DecklistPlayerName,
		"nodes":              deck.ToRenderTree(d, deck.Categories),
		"mainCount":          main,
		"sideboardCount":     side,
		"empty":              d.IsEmpty(),
	})
}

func (h *Handler) render(c *gin.Context) {
	payload, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	tree := render.Render(payload, h.logger.With(zap.String("id", c.Param("id"))))
	if c.Query("format") != "html" {
		c.JSON(http.StatusOK, tree)
		return
	}
	out, err := render.HTML(tree)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func (h *Handler) export(c *gin.Context) {
	payload, d, ok := h.loadDecklist(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, deck.ExportText(payload.DecklistName, payload.DecklistPlayerName, d))
}

// writeError maps engine, store and catalog errors onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var apiErr *cards.APIError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, deck.ErrNotFound), errors.Is(err, lookup.ErrNoMatch):
		status = http.StatusNotFound
	case errors.Is(err, deck.ErrMalformedPayload), errors.Is(err, deck.ErrUnknownCategory):
		status = http.StatusBadRequest
	case errors.Is(err, cards.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		if apiErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
