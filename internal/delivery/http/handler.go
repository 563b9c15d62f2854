package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priceai/backend/internal/domain"
	"github.com/priceai/backend/internal/infrastructure/auth"
	"github.com/priceai/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search      *usecase.SearchService
	collections *usecase.CollectionService
	orders      *usecase.OrderService
	auth        *auth.Service
	store       domain.UserStore
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	collections *usecase.CollectionService,
	orders *usecase.OrderService,
	authService *auth.Service,
	store domain.UserStore,
) *Handler {
	return &Handler{
		search:      search,
		collections: collections,
		orders:      orders,
		auth:        authService,
		store:       store,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "priceai-backend",
		"version": "1.0.0",
	})
}

// Search handles GET /api/v1/search/:query. Store filtering and price
// sorting are applied server-side; the lowest price always reflects the
// full unfiltered set. The stale-fetch guard is scoped to the caller's
// view: the session token when signed in, or an explicit ?view= id.
// Anonymous callers without a view id are never guarded against each
// other.
func (h *Handler) Search(c *gin.Context) {
	query := c.Param("query")
	store := c.Query("store")
	sortState := usecase.ParseSortState(c.Query("sort"))

	viewID := bearerToken(c)
	if viewID == "" {
		viewID = c.Query("view")
	}

	set, err := h.search.Search(c.Request.Context(), viewID, query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty"})
		case errors.Is(err, domain.ErrStaleResponse):
			c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer search"})
		case errors.Is(err, domain.ErrNoResults):
			// An empty result set is a valid page, not a failure.
			c.JSON(http.StatusOK, usecase.BuildResponse(query, nil, store, sortState))
		default:
			log.Printf("[HTTP] Search failed for %q: %v", query, err)
			c.JSON(http.StatusOK, usecase.BuildResponse(query, nil, store, sortState))
		}
		return
	}

	c.JSON(http.StatusOK, usecase.BuildResponse(query, set, store, sortState))
}

// signupRequest is the signup payload.
type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /api/v1/auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// loginRequest is the login payload.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		if user := h.auth.UserForToken(token); user != nil {
			h.collections.Forget(user.ID)
		}
		h.search.ForgetView(token)
		h.auth.Logout(token)
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// Me handles GET /api/v1/me.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

// collectionRequest carries the record being toggled/removed.
type collectionRequest struct {
	domain.ProductRecord
}

// ListCollection handles GET for /wishlist and /cart.
func (h *Handler) ListCollection(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.collections.List(c.Request.Context(), currentUser(c), field)
		if err != nil {
			h.writeCollectionError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{field: items})
	}
}

// ToggleCollection handles POST for /wishlist and /cart: adds the record
// if absent, removes it if present.
func (h *Handler) ToggleCollection(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req collectionRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Source == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a product record with name and source is required"})
			return
		}

		added, err := h.collections.Toggle(c.Request.Context(), currentUser(c), field, req.ProductRecord)
		if err != nil {
			h.writeCollectionError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"added": added, "identity": req.ProductRecord.Identity()})
	}
}

// RemoveFromCollection handles DELETE for /wishlist and /cart.
func (h *Handler) RemoveFromCollection(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req collectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a product record is required"})
			return
		}

		if err := h.collections.Remove(c.Request.Context(), currentUser(c), field, req.ProductRecord); err != nil {
			h.writeCollectionError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": true})
	}
}

// checkoutRequest is the checkout payload.
type checkoutRequest struct {
	Method string `json:"method" binding:"required"`
}

// Checkout handles POST /api/v1/checkout.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment method is required"})
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), currentUser(c), req.Method)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.writeCollectionError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// Orders handles GET /api/v1/orders.
func (h *Handler) Orders(c *gin.Context) {
	orders, err := h.orders.History(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeCollectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Invoice handles GET /api/v1/orders/:id/invoice.
func (h *Handler) Invoice(c *gin.Context) {
	text, err := h.orders.Invoice(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.writeCollectionError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

// AdminListUsers handles GET /api/v1/admin/users.
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// writeCollectionError maps service errors to HTTP responses.
func (h *Handler) writeCollectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please sign in first"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPersistenceFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary storage failure, please retry"})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
