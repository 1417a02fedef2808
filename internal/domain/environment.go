package domain

import "time"

type Environment struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	TenantID         string     `json:"tenantId"`
	CustomProperties Properties `json:"customProperties"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type CreateEnvironmentRequest struct {
	Name             string      `json:"name"`
	CustomProperties *Properties `json:"customProperties,omitempty"`
}

type UpdateEnvironmentRequest struct {
	Name string `json:"name,omitempty"`
}
