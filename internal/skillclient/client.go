package skillclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-ems/internal/events"
)

// Client submits skill batches to the skills service. The call is
// best-effort: callers must not roll back their own writes on failure.
type Client interface {
	CreateSkills(ctx context.Context, skills []events.SkillPayload) error
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// New builds a client against the skills service base URL,
// e.g. http://localhost:9092/skills.
func New(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) CreateSkills(ctx context.Context, skills []events.SkillPayload) error {
	body, err := json.Marshal(skills)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/createSkills", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("skills service returned status %d", resp.StatusCode)
	}

	return nil
}
