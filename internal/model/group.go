package model

import "time"

// Group is a prediction league joined through its six character code.
// The optional fields are only filled by the procedures that join on
// membership (get_user_groups, get_group_by_id).
type Group struct {
	GroupID         int64      `json:"group_id"`
	GroupCode       string     `json:"group_code"`
	GroupName       string     `json:"group_name"`
	CreatorID       int64      `json:"creator_id"`
	CreationDate    time.Time  `json:"creation_date"`
	CreatorUsername *string    `json:"creator_username"`
	MemberCount     *int64     `json:"member_count"`
	IsCreator       *bool      `json:"is_creator"`
	JoinedDate      *time.Time `json:"joined_date"`
}

// GroupMember is one row of get_group_members.
type GroupMember struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	JoinedDate   time.Time `json:"joined_date"`
	IsCreator    bool      `json:"is_creator"`
	TotalPoints  int64     `json:"total_points"`
	RankPosition *int64    `json:"rank_position"`
}
