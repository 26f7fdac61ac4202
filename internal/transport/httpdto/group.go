package httpdto

import (
	"parley-chat/internal/services"
)

type CreateGroupRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Members     []int64 `json:"members"`
}

type EditGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateMembersRequest struct {
	Add    []int64 `json:"add"`
	Delete []int64 `json:"delete"`
}

type ListGroupsResponse struct {
	UserGroups []services.GroupInfo `json:"user_groups"`
}
