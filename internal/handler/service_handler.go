package handler

import (
	"net/http"

	"service-catalog/internal/catalog"
	"service-catalog/internal/services"
	"service-catalog/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	service    *services.ServiceService
	categories *services.CategoryService
}

func NewServiceHandler(service *services.ServiceService, categories *services.CategoryService) *ServiceHandler {
	return &ServiceHandler{service: service, categories: categories}
}

func (h *ServiceHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	// access is decided on the raw tenant and customer-only parameters,
	// before anything else in the query is parsed
	tenantID, err := httpdto.OptionalUUID("tenantId", c.Query("tenantId"))
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := catalog.AuthorizeServiceFilter(caller, tenantID, queryPtr(c, "address"), queryPtr(c, "businessName")); err != nil {
		fail(c, err)
		return
	}

	var q httpdto.ListServicesQuery
	if !bindQuery(c, &q) {
		return
	}
	req, err := q.ToFilterRequest()
	if err != nil {
		fail(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), caller, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.Page[httpdto.ServiceResponse]{
		Offset:     page.Offset,
		Limit:      page.Limit,
		TotalCount: page.Total,
		Data:       httpdto.FromServiceSlice(page.Items),
	}))
}

func (h *ServiceHandler) GetByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Service")
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromService(item)))
}

func (h *ServiceHandler) GetCategory(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Service")
	if !ok {
		return
	}
	item, err := h.categories.GetForService(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromCategory(item)))
}

func (h *ServiceHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req httpdto.CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), caller, services.CreateServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           *req.Price,
		DurationMinutes: req.DurationMinutes,
		CategoryID:      req.CategoryID,
		IsActive:        req.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Location", "/api/services/"+item.ID.String())
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromService(item)))
}

func (h *ServiceHandler) Update(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Service")
	if !ok {
		return
	}
	var req httpdto.UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), caller, id, services.UpdateServiceInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		CategoryID:      req.CategoryID,
		IsActive:        req.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromService(item)))
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Service")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
