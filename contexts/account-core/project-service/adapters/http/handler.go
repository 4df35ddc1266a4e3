package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"carbono/contexts/account-core/project-service/application"
	"carbono/contexts/account-core/project-service/domain/entities"
	httptransport "carbono/contexts/account-core/project-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateProjectHandler(ctx context.Context, actingEmail string, req httptransport.CreateProjectRequest) (httptransport.CreateProjectResponse, error) {
	project, err := h.Service.CreateProject(ctx, application.CreateProjectInput{
		OwnerEmail:  strings.TrimSpace(actingEmail),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Code:        strings.TrimSpace(req.Code),
	})
	if err != nil {
		return httptransport.CreateProjectResponse{}, err
	}
	return httptransport.CreateProjectResponse{
		Status: "success",
		Data:   toPayload(project),
	}, nil
}

func (h Handler) GetProjectHandler(ctx context.Context, actingEmail string, code string) (httptransport.GetProjectResponse, error) {
	view, err := h.Service.GetProject(ctx, strings.TrimSpace(actingEmail), strings.TrimSpace(code))
	if err != nil {
		return httptransport.GetProjectResponse{}, err
	}
	resp := httptransport.GetProjectResponse{Status: "success"}
	resp.Data.Project = toPayload(view.Project)
	resp.Data.Tier = string(view.Tier)
	return resp, nil
}

func (h Handler) ListProjectsHandler(ctx context.Context, actingEmail string) (httptransport.ListProjectsResponse, error) {
	items, err := h.Service.ListProjects(ctx, strings.TrimSpace(actingEmail))
	if err != nil {
		return httptransport.ListProjectsResponse{}, err
	}
	payloads := make([]httptransport.ProjectPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, toPayload(item))
	}
	return httptransport.ListProjectsResponse{
		Status: "success",
		Data:   payloads,
	}, nil
}

func (h Handler) UpdateProjectHandler(ctx context.Context, actingEmail string, code string, req httptransport.UpdateProjectRequest) (httptransport.UpdateProjectResponse, error) {
	project, err := h.Service.UpdateProject(ctx, strings.TrimSpace(actingEmail), strings.TrimSpace(code), req.Name, req.Description)
	if err != nil {
		return httptransport.UpdateProjectResponse{}, err
	}
	return httptransport.UpdateProjectResponse{
		Status: "success",
		Data:   toPayload(project),
	}, nil
}

func (h Handler) DeleteProjectHandler(ctx context.Context, actingEmail string, code string) (httptransport.DeleteProjectResponse, error) {
	project, err := h.Service.DeleteProject(ctx, strings.TrimSpace(actingEmail), strings.TrimSpace(code))
	if err != nil {
		return httptransport.DeleteProjectResponse{}, err
	}
	return httptransport.DeleteProjectResponse{
		Status: "success",
		Data:   toPayload(project),
	}, nil
}

func (h Handler) GrantAccessHandler(ctx context.Context, actingEmail string, code string, req httptransport.GrantAccessRequest) (httptransport.GrantAccessResponse, error) {
	tier, err := h.Service.GrantAccess(ctx, strings.TrimSpace(actingEmail), strings.TrimSpace(code), strings.TrimSpace(req.Email), req.Tier)
	if err != nil {
		return httptransport.GrantAccessResponse{}, err
	}
	resp := httptransport.GrantAccessResponse{Status: "success"}
	resp.Data.Tier = string(tier)
	return resp, nil
}

func (h Handler) ResolveAccessHandler(ctx context.Context, actingEmail string, code string) (httptransport.ResolveAccessResponse, error) {
	tier, _, err := h.Service.ResolveAccess(ctx, strings.TrimSpace(actingEmail), strings.TrimSpace(code))
	if err != nil {
		return httptransport.ResolveAccessResponse{}, err
	}
	resp := httptransport.ResolveAccessResponse{Status: "success"}
	resp.Data.Tier = string(tier)
	return resp, nil
}

func toPayload(project entities.Project) httptransport.ProjectPayload {
	return httptransport.ProjectPayload{
		Code:        project.Code,
		SafeName:    project.SafeName,
		Name:        project.Name,
		Description: project.Description,
		Created:     project.Created,
		Modified:    project.Modified,
	}
}
