package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// eventFields are the properties requested for each event; the rest of the
// Graph event resource is never read.
var eventFields = []string{
	"id", "subject", "bodyPreview", "isAllDay", "isCancelled", "sensitivity",
	"showAs", "start", "end", "location", "isReminderOn", "reminderMinutesBeforeStart",
}

// Client reads calendars from Microsoft Graph.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a client sending requests through hc, which must add
// authorisation. An empty baseURL means the public Graph v1.0 endpoint.
func NewClient(hc *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = graphBaseURL
	}
	return &Client{httpClient: hc, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// DateTimeZone is a Graph dateTimeTimeZone value.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// CalendarEvent is the subset of a Graph event resource that is imported.
type CalendarEvent struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	BodyPreview string       `json:"bodyPreview"`
	IsAllDay    bool         `json:"isAllDay"`
	IsCancelled bool         `json:"isCancelled"`
	Sensitivity string       `json:"sensitivity"` // normal, personal, private, confidential
	ShowAs      string       `json:"showAs"`      // free, tentative, busy, oof, workingElsewhere, unknown
	Start       DateTimeZone `json:"start"`
	End         DateTimeZone `json:"end"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	IsReminderOn               bool `json:"isReminderOn"`
	ReminderMinutesBeforeStart int  `json:"reminderMinutesBeforeStart"`
}

// Error is a non-2xx answer from Graph.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("graph API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("graph API error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// decodeError builds an Error from a Graph error body, keeping the raw body
// when it is not the documented {"error": {...}} shape.
func decodeError(status int, body []byte) *Error {
	var wrapped struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Code != "" {
		return &Error{StatusCode: status, Code: wrapped.Error.Code, Message: wrapped.Error.Message}
	}
	return &Error{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// calendarViewResponse is one page of a calendarView listing.
type calendarViewResponse struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

func (c *Client) calendarViewURL(from, to time.Time) string {
	q := url.Values{}
	q.Set("startDateTime", from.UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.UTC().Format(time.RFC3339))
	q.Set("$select", strings.Join(eventFields, ","))
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", "100")
	return c.baseURL + "/me/calendarView?" + q.Encode()
}

// getPage fetches one page. timezone sets the zone Graph reports times in.
func (c *Client) getPage(ctx context.Context, endpoint, timezone string) (calendarViewResponse, error) {
	var page calendarViewResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return page, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if timezone != "" {
		req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page, fmt.Errorf("graph API request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return page, decodeError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return page, fmt.Errorf("decoding graph response: %w", err)
	}
	return page, nil
}

// GetCalendarView fetches the events overlapping [from, to], following
// @odata.nextLink until the last page. timezone is an IANA name such as
// "Europe/Berlin"; "" means UTC.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	var all []CalendarEvent
	for endpoint := c.calendarViewURL(from, to); endpoint != ""; {
		page, err := c.getPage(ctx, endpoint, timezone)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Value...)
		endpoint = page.NextLink
	}
	return all, nil
}
