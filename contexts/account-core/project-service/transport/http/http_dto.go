package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Table   string `json:"table,omitempty"`
}

type ProjectPayload struct {
	Code        string    `json:"code"`
	SafeName    string    `json:"safe_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code,omitempty"`
}

type CreateProjectResponse struct {
	Status string         `json:"status"`
	Data   ProjectPayload `json:"data"`
}

type GetProjectResponse struct {
	Status string `json:"status"`
	Data   struct {
		Project ProjectPayload `json:"project"`
		Tier    string         `json:"access_level"`
	} `json:"data"`
}

type ListProjectsResponse struct {
	Status string           `json:"status"`
	Data   []ProjectPayload `json:"data"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type UpdateProjectResponse struct {
	Status string         `json:"status"`
	Data   ProjectPayload `json:"data"`
}

type DeleteProjectResponse struct {
	Status string         `json:"status"`
	Data   ProjectPayload `json:"data"`
}

type GrantAccessRequest struct {
	Email string `json:"email"`
	Tier  string `json:"access_level"`
}

type GrantAccessResponse struct {
	Status string `json:"status"`
	Data   struct {
		Tier string `json:"access_level"`
	} `json:"data"`
}

type ResolveAccessResponse struct {
	Status string `json:"status"`
	Data   struct {
		Tier string `json:"access_level"`
	} `json:"data"`
}
