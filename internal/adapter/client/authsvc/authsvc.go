package authsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/salescore/backend/internal/adapter/config"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// Client verifies bearer tokens against the auth collaborator. Unlike
// stock calls, a failure here is fatal to the request.
type Client struct {
	host        string
	http        *http.Client
	permissions port.PermissionStore
	logger      *zap.Logger
}

func NewClient(cfg *config.Auth, permissions port.PermissionStore, log *zap.Logger) (*Client, error) {
	return &Client{
		host:        cfg.HostString,
		http:        &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		permissions: permissions,
		logger:      log,
	}, nil
}

type verifyResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status"`
}

func (c *Client) Verify(ctx context.Context, token string) (*port.Principal, error) {
	requestStr := "http://" + c.host + "/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("auth verify request failed", zap.Error(err))
		return nil, domain.ErrCollaboratorUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("unexpected status from auth verify", zap.Int("status", resp.StatusCode))
		return nil, domain.ErrCollaboratorUnavailable
	}

	var result verifyResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	principal := &port.Principal{
		ID:          result.ID,
		Email:       result.Email,
		Role:        result.Role,
		Status:      result.Status,
		Permissions: result.Permissions,
	}

	// Role-level overrides live in the external store, never in process
	// memory. Losing them degrades to base permissions.
	overrides, err := c.permissions.Overrides(ctx, result.Role)
	if err != nil {
		c.logger.Warn("permission overrides unavailable",
			zap.String("role", result.Role), zap.Error(err))
		return principal, nil
	}
	for _, perm := range overrides {
		if !principal.HasPermission(perm) {
			principal.Permissions = append(principal.Permissions, perm)
		}
	}

	return principal, nil
}
