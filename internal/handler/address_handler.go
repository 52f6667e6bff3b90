package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
	"github.com/kaiqkt/auth-registry-api/pkg/response"
)

// AddressHandler wires HTTP endpoints to the address service.
type AddressHandler struct {
	service *service.AddressService
}

// NewAddressHandler creates a new handler.
func NewAddressHandler(svc *service.AddressService) *AddressHandler {
	return &AddressHandler{service: svc}
}

// CreateOrUpdate godoc
// @Summary Create or update an address
// @Tags Address
// @Accept json
// @Param payload body models.Address true "Address payload"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /user/address [post]
func (h *AddressHandler) CreateOrUpdate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid address payload"))
		return
	}

	if err := h.service.CreateOrUpdate(c.Request.Context(), claims.UserID(), address); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// FindAll godoc
// @Summary List the user's addresses
// @Tags Address
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/address [get]
func (h *AddressHandler) FindAll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	addresses, err := h.service.FindAll(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, addresses)
}

// Find godoc
// @Summary Find one address
// @Tags Address
// @Produce json
// @Param addressId path string true "Address id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/address/{addressId} [get]
func (h *AddressHandler) Find(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	address, err := h.service.Find(c.Request.Context(), claims.UserID(), c.Param("addressId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, address)
}

// Delete godoc
// @Summary Delete an address
// @Tags Address
// @Param addressId path string true "Address id"
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /user/address/{addressId} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID(), c.Param("addressId")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
