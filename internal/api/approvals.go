package api

import (
	"github.com/labstack/echo/v4"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/auth"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"net/http"
)

// EntityHandlers serves one kind of global entity. Categories and destinations share the same workflow.
type EntityHandlers struct {
	*Handler
	kind models.EntityKind
}

func (h *Handler) Entities(kind models.EntityKind) EntityHandlers {
	return EntityHandlers{Handler: h, kind: kind}
}

func (h EntityHandlers) ListApproved(c echo.Context) error {
	return h.listByStatus(c, models.ApprovalApproved)
}

func (h EntityHandlers) ListPending(c echo.Context) error {
	return h.listByStatus(c, models.ApprovalPending)
}

func (h EntityHandlers) ListRejected(c echo.Context) error {
	return h.listByStatus(c, models.ApprovalRejected)
}

func (h EntityHandlers) listByStatus(c echo.Context, status models.ApprovalStatus) error {
	entities, err := h.approvals.ListByStatus(c.Request().Context(), h.kind, status)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, entities)
}

func (h EntityHandlers) ListSeller(c echo.Context) error {
	entities, err := h.approvals.ListSellerEntities(c.Request().Context(), auth.PrincipalFrom(c), h.kind)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, entities)
}

func (h EntityHandlers) Get(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	entity, err := h.approvals.Get(c.Request().Context(), h.kind, id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, entity)
}

func (h EntityHandlers) Submit(c echo.Context) error {
	var req models.EntityRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	entity, err := h.approvals.Submit(c.Request().Context(), auth.PrincipalFrom(c), h.kind, &req)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusCreated, entity)
}

func (h EntityHandlers) Update(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}
	var req models.EntityUpdateRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	entity, err := h.approvals.Update(c.Request().Context(), auth.PrincipalFrom(c), h.kind, id, &req)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, entity)
}

func (h EntityHandlers) Approve(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	entity, err := h.approvals.Approve(c.Request().Context(), auth.PrincipalFrom(c), h.kind, id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, entity)
}

func (h EntityHandlers) Reject(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}
	var req models.RejectRequest
	if ae := h.decode(c, &req); ae != nil {
		return utils.RenderError(c, *ae)
	}

	entity, err := h.approvals.Reject(c.Request().Context(), auth.PrincipalFrom(c), h.kind, id, req.Reason)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, entity)
}

func (h EntityHandlers) ToggleActive(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	pref, err := h.approvals.ToggleActive(c.Request().Context(), auth.PrincipalFrom(c), h.kind, id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, pref)
}

func (h EntityHandlers) AddToList(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	pref, err := h.approvals.AddToSellerList(c.Request().Context(), auth.PrincipalFrom(c), h.kind, id)
	if err != nil {
		return renderError(c, err)
	}
	return utils.RenderResponse(c, http.StatusOK, pref)
}

func (h EntityHandlers) RemoveFromList(c echo.Context) error {
	id, ae := pathID(c, "id")
	if ae != nil {
		return utils.RenderError(c, *ae)
	}

	if err := h.approvals.RemoveFromSellerList(c.Request().Context(), auth.PrincipalFrom(c), h.kind, id); err != nil {
		return renderError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
