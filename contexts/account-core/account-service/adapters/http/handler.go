package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"carbono/contexts/account-core/account-service/application"
	httptransport "carbono/contexts/account-core/account-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.RegisterResponse, error) {
	account, err := h.Service.Register(ctx, application.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Code:     strings.TrimSpace(req.Code),
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	resp := httptransport.RegisterResponse{Status: "success"}
	resp.Data.Code = account.Code
	resp.Data.Name = account.Name
	resp.Data.Email = account.Email
	return resp, nil
}

func (h Handler) GetProfileHandler(ctx context.Context, code string) (httptransport.GetProfileResponse, error) {
	account, err := h.Service.GetProfile(ctx, strings.TrimSpace(code))
	if err != nil {
		return httptransport.GetProfileResponse{}, err
	}
	resp := httptransport.GetProfileResponse{Status: "success"}
	resp.Data.Code = account.Code
	resp.Data.Name = account.Name
	resp.Data.Email = account.Email
	return resp, nil
}

func (h Handler) UserInfoHandler(ctx context.Context, req httptransport.UserInfoRequest) (httptransport.UserInfoResponse, error) {
	account, err := h.Service.GetUserInfo(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return httptransport.UserInfoResponse{}, err
	}
	resp := httptransport.UserInfoResponse{Status: "success"}
	resp.Data.Code = account.Code
	resp.Data.Name = account.Name
	resp.Data.Email = account.Email
	return resp, nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	if err := h.Service.Login(ctx, strings.TrimSpace(req.Email), req.Password); err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{Status: "success"}, nil
}
