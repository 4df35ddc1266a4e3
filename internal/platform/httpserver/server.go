package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	accountservice "carbono/contexts/account-core/account-service"
	accounthttp "carbono/contexts/account-core/account-service/transport/http"
	projectservice "carbono/contexts/account-core/project-service"
	projecthttp "carbono/contexts/account-core/project-service/transport/http"

	_ "carbono/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	accounts      accountservice.Module
	projects      projectservice.Module
	enableSwagger bool
}

func New(
	accounts accountservice.Module,
	projects projectservice.Module,
	logger *slog.Logger,
	addr string,
	enableSwagger bool,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		accounts:      accounts,
		projects:      projects,
		enableSwagger: enableSwagger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	if s.enableSwagger {
		s.mux.Handle("/swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	s.mux.HandleFunc("POST /account-manager/profiles", s.handleRegister)
	s.mux.HandleFunc("GET /account-manager/profiles/{code}", s.handleGetProfile)
	s.mux.HandleFunc("POST /account-manager/user-info", s.handleUserInfo)
	s.mux.HandleFunc("POST /account-manager/login", s.handleLogin)

	s.mux.HandleFunc("POST /account-manager/projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /account-manager/projects", s.handleListProjects)
	s.mux.HandleFunc("GET /account-manager/projects/{code}", s.handleGetProject)
	s.mux.HandleFunc("PUT /account-manager/projects/{code}", s.handleUpdateProject)
	s.mux.HandleFunc("DELETE /account-manager/projects/{code}", s.handleDeleteProject)
	s.mux.HandleFunc("POST /account-manager/projects/{code}/access", s.handleGrantAccess)
	s.mux.HandleFunc("GET /account-manager/projects/{code}/access", s.handleResolveAccess)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RegisterRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	resp, err := s.accounts.Handler.GetProfileHandler(r.Context(), code)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.UserInfoRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.UserInfoHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if !s.decodeJSON(w, r, &req, writeAccountError) {
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	var req projecthttp.CreateProjectRequest
	if !s.decodeJSON(w, r, &req, writeProjectError) {
		return
	}
	resp, err := s.projects.Handler.CreateProjectHandler(r.Context(), actingEmail, req)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	resp, err := s.projects.Handler.ListProjectsHandler(r.Context(), actingEmail)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	code := strings.TrimSpace(r.PathValue("code"))
	resp, err := s.projects.Handler.GetProjectHandler(r.Context(), actingEmail, code)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	var req projecthttp.UpdateProjectRequest
	if !s.decodeJSON(w, r, &req, writeProjectError) {
		return
	}
	code := strings.TrimSpace(r.PathValue("code"))
	resp, err := s.projects.Handler.UpdateProjectHandler(r.Context(), actingEmail, code, req)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	code := strings.TrimSpace(r.PathValue("code"))
	resp, err := s.projects.Handler.DeleteProjectHandler(r.Context(), actingEmail, code)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	var req projecthttp.GrantAccessRequest
	if !s.decodeJSON(w, r, &req, writeProjectError) {
		return
	}
	code := strings.TrimSpace(r.PathValue("code"))
	resp, err := s.projects.Handler.GrantAccessHandler(r.Context(), actingEmail, code, req)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveAccess(w http.ResponseWriter, r *http.Request) {
	actingEmail, ok := requireActingUser(w, r, writeProjectError)
	if !ok {
		return
	}
	code := strings.TrimSpace(r.PathValue("code"))
	resp, err := s.projects.Handler.ResolveAccessHandler(r.Context(), actingEmail, code)
	if err != nil {
		writeProjectDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type writeErrorFunc func(w http.ResponseWriter, status int, code string, message string)

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, target any, writeError writeErrorFunc) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func requireActingUser(w http.ResponseWriter, r *http.Request, writeError writeErrorFunc) (string, bool) {
	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	if email == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Email header is required")
		return "", false
	}
	return email, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
