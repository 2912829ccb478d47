package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"inventory-catalog/internal/cache"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/repository"
)

const listTTL = 2 * time.Minute

// Spec describes how one entity kind is validated, stored and enveloped.
type Spec[T models.Entity] struct {
	Noun     string
	Validate func(T) error
	ToDoc    func(T) bson.M
	// ListKey wraps list responses; empty sends a bare array.
	ListKey string
	// ItemKey wraps create and update responses; empty sends the bare document.
	ItemKey string
}

// CatalogHandler serves CRUD for one entity kind.
type CatalogHandler[T models.Entity] struct {
	kind    models.Kind
	repo    repository.Repository
	cache   *cache.Cache
	uploads *Uploads
	spec    Spec[T]
}

// NewCatalogHandler builds a handler; uploads may be nil for kinds without images.
func NewCatalogHandler[T models.Entity](repo repository.Repository, c *cache.Cache, uploads *Uploads, spec Spec[T]) *CatalogHandler[T] {
	var zero T
	return &CatalogHandler[T]{
		kind:    zero.EntityKind(),
		repo:    repo,
		cache:   c,
		uploads: uploads,
		spec:    spec,
	}
}

func (h *CatalogHandler[T]) Kind() models.Kind { return h.kind }

func (h *CatalogHandler[T]) listPrefix() string { return string(h.kind) + ":list:" }

func (h *CatalogHandler[T]) invalidate() {
	if h.cache != nil {
		h.cache.DeleteByPrefix(h.listPrefix())
	}
}

// GET /api/<kind>
func (h *CatalogHandler[T]) List(c *gin.Context) {
	q := repository.ListQuery{Search: strings.TrimSpace(c.Query("q"))}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	q.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if q.PageSize > 100 {
		q.PageSize = 100
	}

	cacheKey := fmt.Sprintf("%sq=%s_p%d_s%d", h.listPrefix(), q.Search, q.Page, q.PageSize)
	if h.cache != nil {
		if body, found := h.cache.GetBytes(cacheKey); found {
			c.Data(http.StatusOK, codec.ContentTypeJSON, body)
			return
		}
	}

	docs, total, err := h.repo.FindAll(c.Request.Context(), q)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}

	var response any = docs
	if h.spec.ListKey != "" {
		response = gin.H{"message": "ok", "total": total, h.spec.ListKey: docs}
	}

	body, err := codec.JSON.Marshal(response)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}
	if h.cache != nil {
		h.cache.Set(cacheKey, body, listTTL)
	}
	c.Data(http.StatusOK, codec.ContentTypeJSON, body)
}

// GET /api/<kind>/:id
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	doc, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// POST /api/<kind>
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	doc, err := h.readDocument(c)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}

	created, err := h.repo.Create(c.Request.Context(), doc)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}
	h.invalidate()
	h.respondItem(c, http.StatusCreated, h.spec.Noun+" created", created)
}

// PUT /api/<kind>/:id replaces the whole document. A product sent without an
// image keeps the stored one.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}

	doc, err := h.readDocument(c)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}
	if _, sent := doc["image"]; !sent && h.uploads != nil {
		if img, ok := existing["image"]; ok {
			doc["image"] = img
		}
	}

	updated, err := h.repo.Replace(c.Request.Context(), id, doc)
	if err != nil {
		fail(c, h.spec.Noun, err)
		return
	}
	h.invalidate()
	h.respondItem(c, http.StatusOK, h.spec.Noun+" updated", updated)
}

// DELETE /api/<kind>/:id (soft delete)
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	if err := h.repo.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.spec.Noun, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusOK, SuccessResponse{Message: h.spec.Noun + " deleted"})
}

func (h *CatalogHandler[T]) respondItem(c *gin.Context, status int, message string, doc bson.M) {
	if h.spec.ItemKey == "" {
		c.JSON(status, doc)
		return
	}
	c.JSON(status, gin.H{"message": message, h.spec.ItemKey: doc})
}

// readDocument decodes a JSON or multipart body into a validated document.
func (h *CatalogHandler[T]) readDocument(c *gin.Context) (bson.M, error) {
	raw := codec.Document{}
	imageURL := ""

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if h.uploads == nil {
			return nil, badRequest("multipart bodies are not accepted here")
		}
		form, err := c.MultipartForm()
		if err != nil {
			return nil, badRequest("malformed multipart body")
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				raw[k] = vs[0]
			}
		}
		if files := form.File[codec.ImageField]; len(files) > 0 {
			imageURL, err = h.uploads.Save(c, files[0])
			if err != nil {
				return nil, err
			}
		}
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		if err := codec.JSON.Unmarshal(body, &raw); err != nil {
			return nil, badRequest("malformed JSON body")
		}
	}

	raw = codec.NormalizeDocument(raw)
	for _, k := range []string{"id", repository.FieldCreatedAt, repository.FieldUpdatedAt} {
		delete(raw, k)
	}
	e, err := codec.Normalize[T](raw)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	if h.spec.Validate != nil {
		if err := h.spec.Validate(e); err != nil {
			return nil, err
		}
	}

	doc := h.spec.ToDoc(e)
	if imageURL != "" {
		doc["image"] = imageURL
	}
	return doc, nil
}
