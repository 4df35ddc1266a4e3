package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Table   string `json:"table,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

type RegisterResponse struct {
	Status string `json:"status"`
	Data   struct {
		Code  string `json:"code"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
}

type GetProfileResponse struct {
	Status string `json:"status"`
	Data   struct {
		Code  string `json:"code"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
}

type UserInfoRequest struct {
	Email string `json:"email"`
}

type UserInfoResponse struct {
	Status string `json:"status"`
	Data   struct {
		Code  string `json:"code"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status string `json:"status"`
}
