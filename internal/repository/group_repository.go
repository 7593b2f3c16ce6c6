package repository

import (
	"context"
	"strings"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
	"github.com/prajwalvathreya/nba-project-backend/internal/model"
)

type GroupRepo struct{ Proc database.Caller }

func NewGroupRepo(proc database.Caller) *GroupRepo { return &GroupRepo{Proc: proc} }

// Create makes a group owned by creatorID; the procedure generates the code
// and adds the creator as first member.
func (r *GroupRepo) Create(ctx context.Context, name string, creatorID int64) (model.Group, error) {
	recs, err := r.Proc.Call(ctx, "create_group", name, creatorID)
	if err != nil {
		return model.Group{}, err
	}
	if len(recs) == 0 {
		return model.Group{}, ErrEmptyResult
	}
	return decodeGroup(recs[0]), nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id int64) (model.Group, error) {
	return r.one(ctx, "get_group_by_id", id)
}

// GetByCode looks a group up by its code, case-insensitively.
func (r *GroupRepo) GetByCode(ctx context.Context, code string) (model.Group, error) {
	return r.one(ctx, "get_group_by_code", strings.ToUpper(code))
}

func (r *GroupRepo) one(ctx context.Context, proc string, arg any) (model.Group, error) {
	recs, err := r.Proc.Call(ctx, proc, arg)
	if err != nil {
		return model.Group{}, err
	}
	if len(recs) == 0 {
		return model.Group{}, ErrGroupNotFound
	}
	return decodeGroup(recs[0]), nil
}

// ListForUser returns every group userID belongs to.
func (r *GroupRepo) ListForUser(ctx context.Context, userID int64) ([]model.Group, error) {
	recs, err := r.Proc.Call(ctx, "get_user_groups", userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Group, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeGroup(rec))
	}
	return out, nil
}

// Join adds userID to the group with code.
func (r *GroupRepo) Join(ctx context.Context, userID int64, code string) (model.Group, error) {
	recs, err := r.Proc.Call(ctx, "join_group", userID, strings.ToUpper(code))
	if err != nil {
		return model.Group{}, translate(err,
			signal{match: "group not found", target: ErrGroupNotFound},
			signal{match: "already a member", target: ErrAlreadyMember},
		)
	}
	if len(recs) == 0 {
		return model.Group{}, ErrEmptyResult
	}
	return decodeGroup(recs[0]), nil
}

// Leave removes userID from groupID and returns the number of memberships
// removed.
func (r *GroupRepo) Leave(ctx context.Context, userID, groupID int64) (int64, error) {
	recs, err := r.Proc.Call(ctx, "leave_group", userID, groupID)
	if err != nil {
		return 0, translate(err,
			signal{match: "creator cannot leave", target: ErrCreatorCannotLeave},
			signal{match: "not a member", target: ErrNotMember},
		)
	}
	if len(recs) == 0 {
		return 0, ErrEmptyResult
	}
	return recs[0].Int64("left_group"), nil
}

func (r *GroupRepo) Members(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	recs, err := r.Proc.Call(ctx, "get_group_members", groupID)
	if err != nil {
		return nil, err
	}
	out := make([]model.GroupMember, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decodeMember(rec))
	}
	return out, nil
}

// Delete removes the group with all memberships, predictions and
// leaderboard rows.  Only the creator may delete.
func (r *GroupRepo) Delete(ctx context.Context, groupID, userID int64) (int64, error) {
	recs, err := r.Proc.Call(ctx, "delete_group", groupID, userID)
	if err != nil {
		return 0, translate(err,
			signal{match: "group not found", target: ErrGroupNotFound},
			signal{match: "only the group creator", target: ErrNotGroupCreator},
		)
	}
	if len(recs) == 0 {
		return 0, ErrEmptyResult
	}
	return recs[0].Int64("deleted_count"), nil
}
