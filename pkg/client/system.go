package client

import "context"

type SystemService struct {
	client *Client
}

type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health hits the unauthenticated health endpoint.
func (s *SystemService) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	err := s.client.getUnversioned(ctx, "/healthz", &status)
	return status, err
}

type SystemInfo struct {
	Version     string   `json:"version"`
	Environment string   `json:"environment"`
	GoVersion   string   `json:"go_version"`
	UptimeSecs  int64    `json:"uptime_secs"`
	Models      []string `json:"models"`
}

func (s *SystemService) Info(ctx context.Context) (SystemInfo, error) {
	var info SystemInfo
	err := s.client.get(ctx, "/system/info", nil, &info)
	return info, err
}
