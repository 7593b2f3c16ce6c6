package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/auth"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/repository"
)

// GroupStore is implemented by repository.GroupRepo.
type GroupStore interface {
	Create(ctx context.Context, name string, creatorID int64) (model.Group, error)
	GetByID(ctx context.Context, id int64) (model.Group, error)
	GetByCode(ctx context.Context, code string) (model.Group, error)
	ListForUser(ctx context.Context, userID int64) ([]model.Group, error)
	Join(ctx context.Context, userID int64, code string) (model.Group, error)
	Leave(ctx context.Context, userID, groupID int64) (int64, error)
	Members(ctx context.Context, groupID int64) ([]model.GroupMember, error)
	Delete(ctx context.Context, groupID, userID int64) (int64, error)
}

type GroupHandler struct {
	Groups GroupStore
	Log    *zap.Logger
}

func NewGroupHandler(g GroupStore, log *zap.Logger) *GroupHandler {
	return &GroupHandler{Groups: g, Log: orNop(log)}
}

type createGroupReq struct {
	GroupName string `json:"group_name" validate:"required,min=3,max=100"`
}

type joinGroupReq struct {
	GroupCode string `json:"group_code" validate:"required,len=6"`
}

// Create makes a new group with the caller as creator and first member.
func (h *GroupHandler) Create(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	var req createGroupReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	g, err := h.Groups.Create(ctx, strings.TrimSpace(req.GroupName), uid)
	if err != nil {
		return serverError(c, h.Log, "Failed to create group", err)
	}
	h.Log.Info("group created", zap.Int64("group_id", g.GroupID), zap.Int64("creator_id", uid))
	return c.JSON(http.StatusCreated, g)
}

// Join adds the caller to the group identified by code.
func (h *GroupHandler) Join(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	var req joinGroupReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	g, err := h.Groups.Join(ctx, uid, strings.ToUpper(req.GroupCode))
	switch {
	case errors.Is(err, repository.ErrGroupNotFound):
		return errorJSON(c, http.StatusNotFound, "Group not found with that code")
	case errors.Is(err, repository.ErrAlreadyMember):
		return errorJSON(c, http.StatusBadRequest, "You are already a member of this group")
	case err != nil:
		return serverError(c, h.Log, "Failed to join group", err)
	}
	return c.JSON(http.StatusOK, g)
}

// Mine lists the caller's groups.
func (h *GroupHandler) Mine(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	gs, err := h.Groups.ListForUser(ctx, uid)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch your groups", err)
	}
	return c.JSON(http.StatusOK, gs)
}

func (h *GroupHandler) Get(c echo.Context) error {
	id, ok := positiveParam(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid group_id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, fmt.Sprintf("Group %d not found", id))
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch group details", err)
	}
	return c.JSON(http.StatusOK, g)
}

// ByCode looks a group up by its join code.
func (h *GroupHandler) ByCode(c echo.Context) error {
	code := strings.TrimSpace(c.Param("group_code"))
	if len(code) != 6 {
		return errorJSON(c, http.StatusBadRequest, "group_code must be exactly 6 characters")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	g, err := h.Groups.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "Group not found with that code")
	}
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch group", err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GroupHandler) Members(c echo.Context) error {
	id, ok := positiveParam(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid group_id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ms, err := h.Groups.Members(ctx, id)
	if err != nil {
		return serverError(c, h.Log, "Failed to fetch group members", err)
	}
	return c.JSON(http.StatusOK, ms)
}

// Leave removes the caller from a group.  The creator cannot leave.
func (h *GroupHandler) Leave(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	id, ok := positiveParam(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid group_id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.Groups.Leave(ctx, uid, id)
	switch {
	case errors.Is(err, repository.ErrCreatorCannotLeave):
		return errorJSON(c, http.StatusBadRequest, "Group creator cannot leave the group. Delete the group instead.")
	case errors.Is(err, repository.ErrNotMember):
		return errorJSON(c, http.StatusBadRequest, "You are not a member of this group")
	case err != nil:
		return serverError(c, h.Log, "Failed to leave group", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully left the group", "left_group": n})
}

// Delete removes a group the caller created.
func (h *GroupHandler) Delete(c echo.Context) error {
	uid, ok := callerID(c)
	if !ok {
		return auth.Unauthorized(c)
	}
	id, ok := positiveParam(c, "group_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid group_id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.Groups.Delete(ctx, id, uid)
	switch {
	case errors.Is(err, repository.ErrGroupNotFound):
		return errorJSON(c, http.StatusNotFound, "Group not found")
	case errors.Is(err, repository.ErrNotGroupCreator):
		return errorJSON(c, http.StatusForbidden, "Only the group creator can delete the group")
	case err != nil:
		return serverError(c, h.Log, "Failed to delete group", err)
	}
	h.Log.Info("group deleted", zap.Int64("group_id", id), zap.Int64("user_id", uid))
	return c.JSON(http.StatusOK, model.DeleteResult{Message: "Group successfully deleted", DeletedCount: n})
}
