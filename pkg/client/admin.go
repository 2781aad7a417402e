package client

import (
	"context"
	"net/url"
	"strconv"
)

// AdminService wraps the user-management endpoints. All calls require a
// session belonging to an admin account.
type AdminService struct {
	client *Client
}

type UserPage struct {
	Items []User `json:"items"`
	Total int    `json:"total"`
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var result UserPage
	err := s.client.get(ctx, "/admin/users", query, &result)
	return result, err
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (s *AdminService) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	var user User
	err := s.client.post(ctx, "/admin/users", input, &user)
	return user, err
}

type UpdateUserInput struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) error {
	return s.client.put(ctx, "/admin/users/"+url.PathEscape(id), input, nil)
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/admin/users/"+url.PathEscape(id))
}

func (s *AdminService) ResetPassword(ctx context.Context, id string, newPassword string) error {
	return s.client.put(ctx, "/admin/users/"+url.PathEscape(id)+"/reset-password", map[string]string{
		"newPassword": newPassword,
	}, nil)
}
