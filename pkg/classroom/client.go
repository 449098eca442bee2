package classroom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/acadhub/gradebook-api/pkg/config"
)

// CourseWorkScore is a single scored submission pulled from the classroom platform.
type CourseWorkScore struct {
	StudentEmail string    `json:"student_email"`
	CourseWorkID string    `json:"course_work_id"`
	Title        string    `json:"title"`
	Score        *float64  `json:"score"`
	MaxScore     *float64  `json:"max_score"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Client talks to the external classroom platform's coursework API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New constructs a classroom client from configuration.
func New(cfg config.ClassroomConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// CourseScores fetches all scored coursework submissions for a course.
func (c *Client) CourseScores(ctx context.Context, courseID string) ([]CourseWorkScore, error) {
	url := fmt.Sprintf("%s/v1/courses/%s/scores", c.baseURL, courseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build classroom request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch course scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classroom API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Scores []CourseWorkScore `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode course scores: %w", err)
	}
	return payload.Scores, nil
}
