package handler

import (
	"net/http"

	"service-catalog/internal/services"
	"service-catalog/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var q httpdto.ListCategoriesQuery
	if !bindQuery(c, &q) {
		return
	}
	tenantID, err := httpdto.OptionalUUID("tenantId", q.TenantID)
	if err != nil {
		fail(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), caller, tenantID, q.Offset, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.Page[httpdto.CategoryResponse]{
		Offset:     page.Offset,
		Limit:      page.Limit,
		TotalCount: page.Total,
		Data:       httpdto.FromCategorySlice(page.Items),
	}))
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Category")
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromCategory(item)))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req httpdto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), caller, services.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Location", "/api/categories/"+item.ID.String())
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromCategory(item)))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Category")
	if !ok {
		return
	}
	var req httpdto.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), caller, id, services.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromCategory(item)))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Category")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
