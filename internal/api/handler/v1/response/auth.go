package response

import (
	"github.com/bazarkampus/bazar-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
