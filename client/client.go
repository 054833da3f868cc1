// Package client is a small Go client for the Mindful Haven API. It plays
// the role the web client's fetch wrappers played: every user-scoped call
// carries the external identity id explicitly, there is no ambient
// "current user".
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	baseURL     string
	clerkUserID string
	httpClient  *http.Client
}

// New builds a client for baseURL. clerkUserID is the caller's external
// identity id and may be empty for anonymous reads.
func New(baseURL, clerkUserID string) *Client {
	return &Client{
		baseURL:     baseURL,
		clerkUserID: clerkUserID,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Details    []string        `json:"details"`
	Pagination *Pagination     `json:"pagination"`
}

// APIError is a non-2xx response translated into the server's error
// envelope.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*Pagination, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Proxies and load balancers answer with HTML or empty bodies;
		// keep the status code instead of leaking a decoder error.
		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Details: env.Details}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decoding data: %w", err)
		}
	}
	return env.Pagination, nil
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Author        Author      `json:"author"`
	Category      CategoryRef `json:"category"`
	FeaturedImage string      `json:"featuredImage"`
	Tags          []string    `json:"tags"`
	IsPublished   bool        `json:"isPublished"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type Comment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Post    string `json:"post"`
	Author  struct {
		ID              string `json:"id"`
		Username        string `json:"username"`
		ProfileImageURL string `json:"profileImageUrl"`
	} `json:"author"`
	IsEdited  bool      `json:"isEdited"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LikeStatus struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type BookmarkStatus struct {
	Bookmarked    bool  `json:"bookmarked"`
	BookmarkCount int64 `json:"bookmarkCount"`
}

type ListPostsOptions struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

func (c *Client) Posts(ctx context.Context, opts ListPostsOptions) ([]Post, *Pagination, error) {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Category != "" {
		query.Set("category", opts.Category)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var posts []Post
	p, err := c.do(ctx, http.MethodGet, "/api/posts", query, nil, &posts)
	if err != nil {
		return nil, nil, err
	}
	return posts, p, nil
}

func (c *Client) Post(ctx context.Context, id string) (*Post, error) {
	var post Post
	if _, err := c.do(ctx, http.MethodGet, "/api/posts/"+id, nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

type CreatePostInput struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	IsPublished   bool     `json:"isPublished"`
}

// CreatedPost is the create response: author and category are bare ids,
// not the joined documents the read endpoints return.
type CreatedPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	Category      string    `json:"category"`
	FeaturedImage string    `json:"featuredImage"`
	Tags          []string  `json:"tags"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (c *Client) CreatePost(ctx context.Context, input CreatePostInput) (*CreatedPost, error) {
	body := struct {
		CreatePostInput
		ClerkUserID string `json:"clerkUserId"`
	}{input, c.clerkUserID}

	var post CreatedPost
	if _, err := c.do(ctx, http.MethodPost, "/api/posts", nil, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) Comments(ctx context.Context, postID string, page, limit int) ([]Comment, *Pagination, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var comments []Comment
	p, err := c.do(ctx, http.MethodGet, "/api/posts/"+postID+"/comments", query, nil, &comments)
	if err != nil {
		return nil, nil, err
	}
	return comments, p, nil
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) (*Comment, error) {
	body := map[string]string{"content": content, "clerkUserId": c.clerkUserID}

	var comment Comment
	if _, err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/comments", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (*LikeStatus, error) {
	body := map[string]string{"clerkUserId": c.clerkUserID}

	var status LikeStatus
	if _, err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/like", nil, body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) LikeStatus(ctx context.Context, postID string) (*LikeStatus, error) {
	query := url.Values{}
	if c.clerkUserID != "" {
		query.Set("clerkUserId", c.clerkUserID)
	}

	var status LikeStatus
	if _, err := c.do(ctx, http.MethodGet, "/api/posts/"+postID+"/likes", query, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) ToggleBookmark(ctx context.Context, postID string) (*BookmarkStatus, error) {
	body := map[string]string{"clerkUserId": c.clerkUserID}

	var status BookmarkStatus
	if _, err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/bookmark", nil, body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

type User struct {
	ID              string    `json:"id"`
	ClerkUserID     string    `json:"clerkUserId"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FindOrCreateUser registers the client's identity with the user
// directory, returning the existing record unchanged when it is already
// known.
func (c *Client) FindOrCreateUser(ctx context.Context, email, username string) (*User, error) {
	body := map[string]string{
		"clerkUserId": c.clerkUserID,
		"email":       email,
		"username":    username,
	}

	var user User
	if _, err := c.do(ctx, http.MethodPost, "/api/users", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
