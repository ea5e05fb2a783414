package recommendations

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"recommendations-backend/internal/shared/server/respond"
)

const jsonContentType = "application/json"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations", h.list)
	rg.GET("/recommendations/relationship", h.relationship)
	rg.GET("/recommendations/:id", h.related)
	rg.GET("/recommendations/:id/active", h.activeRelated)
	rg.GET("/recommendations/:id/type/:typeid", h.relatedByType)
	rg.GET("/recommendations/:id/:relId", h.get)

	rg.POST("/recommendations", h.create)
	rg.POST("/recommendations/:id/:relId", h.createForPath)
	rg.PUT("/recommendations/:id/:relId", h.update)
	rg.PUT("/recommendations/:id/:relId/toggle", h.toggle)

	rg.DELETE("/recommendations/:id", h.deleteFiltered)
	rg.DELETE("/recommendations/:id/all", h.deleteAll)
	rg.DELETE("/recommendations/:id/:relId", h.deletePair)
}

func (h *Handler) list(c *gin.Context) {
	recs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list recommendations")
		return
	}
	respond.OK(c, toResponses(recs))
}

func (h *Handler) related(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	groups, err := h.Svc.Related(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err, "failed to load related products")
		return
	}
	respond.OK(c, groups)
}

func (h *Handler) activeRelated(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	groups, err := h.Svc.ActiveRelated(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err, "failed to load active related products")
		return
	}
	respond.OK(c, groups)
}

func (h *Handler) relatedByType(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	typeID, err := ParseTypeID(c.Param("typeid"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, fmt.Sprintf("type %q recommendations for product %d not found", c.Param("typeid"), productID))
		return
	}
	listing, err := h.Svc.RelatedByType(c.Request.Context(), productID, typeID)
	if err != nil {
		writeError(c, err, "failed to load related products")
		return
	}
	respond.OK(c, listing)
}

func (h *Handler) get(c *gin.Context) {
	productID, relatedID, ok := pathPair(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Get(c.Request.Context(), productID, relatedID)
	if err != nil {
		writeError(c, err, "failed to load recommendation")
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) relationship(c *gin.Context) {
	rec, found, err := h.Svc.Relationship(c.Request.Context(), c.Query("product1"), c.Query("product2"))
	if err != nil {
		writeError(c, err, "failed to look up relationship")
		return
	}
	if !found {
		respond.NoContent(c)
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) create(c *gin.Context) {
	in, ok := bindInput(c, nil, nil)
	if !ok {
		return
	}
	h.finishCreate(c, in)
}

func (h *Handler) createForPath(c *gin.Context) {
	productID, relatedID, ok := pathPair(c)
	if !ok {
		return
	}
	in, ok := bindInput(c, &productID, &relatedID)
	if !ok {
		return
	}
	h.finishCreate(c, in)
}

func (h *Handler) finishCreate(c *gin.Context, in Input) {
	rec, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to create recommendation")
		return
	}
	c.Header("Location", fmt.Sprintf("/recommendations/%d/%d", rec.ProductID, rec.RelatedProductID))
	respond.JSON(c, http.StatusCreated, toResponse(rec))
}

func (h *Handler) update(c *gin.Context) {
	productID, relatedID, ok := pathPair(c)
	if !ok {
		return
	}
	in, ok := bindInput(c, &productID, &relatedID)
	if !ok {
		return
	}
	rec, err := h.Svc.Update(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to update recommendation")
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) toggle(c *gin.Context) {
	productID, relatedID, ok := pathPair(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Toggle(c.Request.Context(), productID, relatedID)
	if err != nil {
		writeError(c, err, "failed to toggle recommendation")
		return
	}
	respond.OK(c, StatusResponse{Status: rec.Status})
}

func (h *Handler) deleteFiltered(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.Svc.DeleteFiltered(c.Request.Context(), productID, c.Query("type_id"), c.Query("status")); err != nil {
		writeError(c, err, "failed to delete recommendations")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) deleteAll(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.Svc.DeleteAllForProduct(c.Request.Context(), productID); err != nil {
		writeError(c, err, "failed to delete recommendations")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) deletePair(c *gin.Context) {
	productID, relatedID, ok := pathPair(c)
	if !ok {
		return
	}
	if _, err := h.Svc.DeletePair(c.Request.Context(), productID, relatedID); err != nil {
		writeError(c, err, "failed to delete recommendation")
		return
	}
	respond.NoContent(c)
}

// pathID parses a product id route parameter. A malformed id does not
// address any resource, so it is reported as 404.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := ParseID(raw)
	if err != nil {
		respond.Error(c, http.StatusNotFound, fmt.Sprintf("product id %q not found", raw))
		return 0, false
	}
	if name == "id" {
		c.Set("productId", id)
	} else {
		c.Set("relatedProductId", id)
	}
	return id, true
}

func pathPair(c *gin.Context) (int64, int64, bool) {
	productID, ok := pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	relatedID, ok := pathID(c, "relId")
	if !ok {
		return 0, 0, false
	}
	return productID, relatedID, true
}

// bindInput enforces the JSON content type, decodes and validates the body,
// then merges it with any path ids.
func bindInput(c *gin.Context, pathProductID, pathRelatedID *int64) (Input, bool) {
	if c.ContentType() != jsonContentType {
		respond.Error(c, http.StatusUnsupportedMediaType, "Content-Type must be "+jsonContentType)
		return Input{}, false
	}

	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return Input{}, false
	}
	if err := req.check(); err != nil {
		writeError(c, err, "invalid request body")
		return Input{}, false
	}
	in, err := req.input(pathProductID, pathRelatedID)
	if err != nil {
		writeError(c, err, "invalid request body")
		return Input{}, false
	}
	return in, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		respond.Error(c, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, fallback)
	}
}
