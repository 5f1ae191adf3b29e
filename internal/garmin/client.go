package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Connect API gateway
const DefaultBaseURL = "https://connectapi.garmin.com"

const dateParamLayout = "2006-01-02"

// Client is a Garmin Connect API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
	baseURL     string
}

// NewClient creates a client that authenticates via the token source
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
		baseURL:     DefaultBaseURL,
	}
}

// NewClientWithBaseURL points the client at an alternate gateway.
// Tests use this with httptest servers.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(),
		baseURL:     baseURL,
	}
}

// GetUserProfile fetches the signed-in user's profile
func (c *Client) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	resp, err := c.get(ctx, "/userprofile-service/socialProfile", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &profile, nil
}

// GetActivities fetches one page of the activity list, newest first
func (c *Client) GetActivities(ctx context.Context, start, limit int) ([]Activity, error) {
	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.get(ctx, "/activitylist-service/activities/search/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}
	return activities, nil
}

// GetActivitiesSince pages through the activity list until it reaches
// entries older than 'after'. The API returns newest first, so paging
// stops at the first stale entry.
func (c *Client) GetActivitiesSince(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]Activity, error) {
	var all []Activity
	start := 0
	const pageSize = 100

	for {
		page, err := c.GetActivities(ctx, start, pageSize)
		if err != nil {
			return all, fmt.Errorf("fetching activities from offset %d: %w", start, err)
		}
		if len(page) == 0 {
			break
		}

		done := false
		for _, a := range page {
			if !after.IsZero() && a.StartTimeGMT.Before(after) {
				done = true
				break
			}
			all = append(all, a)
		}

		if onProgress != nil {
			onProgress(len(all))
		}
		if done || len(page) < pageSize {
			break
		}
		start += pageSize
	}

	return all, nil
}

// GetDailySummary fetches steps, resting HR, stress and body battery
// for one calendar day.
func (c *Client) GetDailySummary(ctx context.Context, day time.Time) (*DailySummary, error) {
	params := url.Values{}
	params.Set("calendarDate", day.Format(dateParamLayout))

	resp, err := c.get(ctx, "/usersummary-service/usersummary/daily", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var summary DailySummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decoding daily summary: %w", err)
	}
	return &summary, nil
}

// GetSleep fetches the nightly sleep summary for one day
func (c *Client) GetSleep(ctx context.Context, day time.Time) (*SleepData, error) {
	params := url.Values{}
	params.Set("date", day.Format(dateParamLayout))

	resp, err := c.get(ctx, "/wellness-service/wellness/dailySleepData", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sleep SleepData
	if err := json.NewDecoder(resp.Body).Decode(&sleep); err != nil {
		return nil, fmt.Errorf("decoding sleep data: %w", err)
	}
	return &sleep, nil
}

// GetHRV fetches the nightly HRV summary for one day
func (c *Client) GetHRV(ctx context.Context, day time.Time) (*HRVSummary, error) {
	resp, err := c.get(ctx, "/hrv-service/hrv/"+day.Format(dateParamLayout), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var hrv HRVSummary
	if err := json.NewDecoder(resp.Body).Decode(&hrv); err != nil {
		return nil, fmt.Errorf("decoding hrv summary: %w", err)
	}
	return &hrv, nil
}

// GetMaxMetrics fetches the VO2max estimate for one day
func (c *Client) GetMaxMetrics(ctx context.Context, day time.Time) (*MaxMetrics, error) {
	resp, err := c.get(ctx, "/metrics-service/metrics/maxmet/daily/"+day.Format(dateParamLayout), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var metrics MaxMetrics
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		return nil, fmt.Errorf("decoding max metrics: %w", err)
	}
	return &metrics, nil
}

// RateLimitRemaining reports the requests left in the current window
func (c *Client) RateLimitRemaining() int {
	return c.rateLimiter.Remaining()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
