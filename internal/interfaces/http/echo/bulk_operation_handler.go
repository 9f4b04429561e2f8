package echo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/admin-bulkops/internal/application/bulk"
)

// ActorHeader carries the acting admin's email, stamped upstream by the
// gateway's auth layer.
const ActorHeader = "X-Admin-Actor"

type BulkOperationHandler struct {
	validate  app.ValidateOperation
	submit    app.SubmitOperation
	get       app.GetOperation
	list      app.ListOperations
	cancel    app.CancelOperation
	supported app.ListSupportedOperations
}

type bulkOperationRequest struct {
	Type       string   `json:"type"`
	EntityType string   `json:"entityType"`
	EntityIDs  []string `json:"entityIds"`
	Confirmed  bool     `json:"confirmed"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewBulkOperationHandler(
	validate app.ValidateOperation,
	submit app.SubmitOperation,
	get app.GetOperation,
	list app.ListOperations,
	cancel app.CancelOperation,
	supported app.ListSupportedOperations,
) *BulkOperationHandler {
	return &BulkOperationHandler{
		validate:  validate,
		submit:    submit,
		get:       get,
		list:      list,
		cancel:    cancel,
		supported: supported,
	}
}

func (h *BulkOperationHandler) Validate(c echo.Context) error {
	var req bulkOperationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.validate.Execute(c.Request().Context(), app.ValidateOperationInput{
		Type:       req.Type,
		EntityType: req.EntityType,
		EntityIDs:  req.EntityIDs,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to validate bulk operation",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *BulkOperationHandler) Submit(c echo.Context) error {
	var req bulkOperationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.submit.Execute(c.Request().Context(), app.SubmitOperationInput{
		Type:        req.Type,
		EntityType:  req.EntityType,
		EntityIDs:   req.EntityIDs,
		Confirmed:   req.Confirmed,
		RequestedBy: c.Request().Header.Get(ActorHeader),
	})
	if err != nil {
		return submitError(c, err)
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func submitError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrMissingActor):
		return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
			Code:    "missing_actor",
			Message: "X-Admin-Actor header is required",
		}})
	case errors.Is(err, app.ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, apiResponse{Error: &errorBody{
			Code:    "not_authorized",
			Message: "actor may not run this operation",
		}})
	case errors.Is(err, app.ErrNoEntityIDs):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "empty_selection",
			Message: "entityIds must not be empty",
		}})
	case errors.Is(err, app.ErrTooManyItems):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "too_many_items",
			Message: "too many items for one operation",
		}})
	case errors.Is(err, app.ErrUnsupportedEntity):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "unsupported_entity",
			Message: "unsupported entity type",
		}})
	case errors.Is(err, app.ErrUnknownOperation):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "unknown_operation",
			Message: "unknown operation type for this entity",
		}})
	case errors.Is(err, app.ErrConfirmationRequired):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "confirmation_required",
			Message: "operation requires confirmed=true",
		}})
	case errors.Is(err, app.ErrProtectedEntities):
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "protected_entities",
			Message: "selection contains protected accounts",
		}})
	default:
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to submit bulk operation",
		}})
	}
}

func (h *BulkOperationHandler) Get(c echo.Context) error {
	out, err := h.get.Execute(c.Request().Context(), app.GetOperationInput{
		ID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidOperationID) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_operation_id",
				Message: "id must be a valid UUID",
			}})
		}
		if errors.Is(err, app.ErrOperationNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "bulk operation not found",
			}})
		}

		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get bulk operation",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *BulkOperationHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	out, err := h.list.Execute(c.Request().Context(), app.ListOperationsInput{
		Limit: limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to list bulk operations",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *BulkOperationHandler) Cancel(c echo.Context) error {
	out, err := h.cancel.Execute(c.Request().Context(), app.CancelOperationInput{
		ID:          c.Param("id"),
		RequestedBy: c.Request().Header.Get(ActorHeader),
	})
	if err != nil {
		if errors.Is(err, app.ErrMissingActor) {
			return c.JSON(http.StatusUnauthorized, apiResponse{Error: &errorBody{
				Code:    "missing_actor",
				Message: "X-Admin-Actor header is required",
			}})
		}
		if errors.Is(err, app.ErrInvalidOperationID) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_operation_id",
				Message: "id must be a valid UUID",
			}})
		}
		if errors.Is(err, app.ErrOperationNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "bulk operation not found",
			}})
		}
		if errors.Is(err, app.ErrOperationFinished) {
			return c.JSON(http.StatusConflict, apiResponse{Error: &errorBody{
				Code:    "already_finished",
				Message: "bulk operation already finished",
			}})
		}

		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to cancel bulk operation",
		}})
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *BulkOperationHandler) Supported(c echo.Context) error {
	out, err := h.supported.Execute(c.Request().Context(), app.ListSupportedOperationsInput{
		EntityType: c.QueryParam("entityType"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to list supported operations",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
