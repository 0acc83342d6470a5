package model

type AuthResponse struct {
	Token     string `json:"token,omitempty"`
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
}

type ErrorResponse struct {
	IsSuccess bool     `json:"isSuccess"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Errors    []string `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RoleResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalUsers int    `json:"totalUsers"`
}

type MeResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}
