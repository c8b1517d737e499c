package client

import (
	"context"
	"net/http"
	"net/url"

	"toolhaven/pkg/viewstate"
)

func criteriaQuery(c viewstate.Criteria) url.Values {
	q := url.Values{}
	if c.Category != "" && c.Category != viewstate.CategoryAll {
		q.Set("category", c.Category)
	}
	if c.Search != "" {
		q.Set("search", c.Search)
	}
	return q
}

func (c *Client) ListBlogs(ctx context.Context, crit viewstate.Criteria) ([]Blog, error) {
	var blogs []Blog
	if err := c.do(ctx, http.MethodGet, "/v1/blogs", criteriaQuery(crit), nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) GetBlog(ctx context.Context, slug string) (Blog, error) {
	var blog Blog
	err := c.do(ctx, http.MethodGet, "/v1/blogs/"+url.PathEscape(slug), nil, nil, &blog)
	return blog, err
}

func (c *Client) LikeBlog(ctx context.Context, slug string) (int64, error) {
	var resp struct {
		Likes int64 `json:"likes"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/blogs/"+url.PathEscape(slug)+"/like", nil, nil, &resp)
	return resp.Likes, err
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/v1/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) ListTools(ctx context.Context, crit viewstate.Criteria) ([]Tool, error) {
	var tools []Tool
	if err := c.do(ctx, http.MethodGet, "/v1/tools", criteriaQuery(crit), nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (c *Client) GetTool(ctx context.Context, slug string) (Tool, error) {
	var tool Tool
	err := c.do(ctx, http.MethodGet, "/v1/tools/"+url.PathEscape(slug), nil, nil, &tool)
	return tool, err
}

func (c *Client) SubscribeNewsletter(ctx context.Context, email string) (bool, error) {
	var resp struct {
		Subscribed bool `json:"subscribed"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/newsletter", nil, map[string]string{"email": email}, &resp)
	return resp.Subscribed, err
}

func (c *Client) SubmitContact(ctx context.Context, form ContactForm) (bool, error) {
	var resp struct {
		Sent bool `json:"sent"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/contact", nil, form, &resp)
	return resp.Sent, err
}

// BlogFetcher adapts the client to a viewstate collection for the blog list
// page.
func (c *Client) BlogFetcher() viewstate.Fetcher[Blog] {
	return func(ctx context.Context, crit viewstate.Criteria) ([]Blog, error) {
		return c.ListBlogs(ctx, crit)
	}
}

// ToolFetcher adapts the client to a viewstate collection for the tool
// directory page.
func (c *Client) ToolFetcher() viewstate.Fetcher[Tool] {
	return func(ctx context.Context, crit viewstate.Criteria) ([]Tool, error) {
		return c.ListTools(ctx, crit)
	}
}

// BlogPage fetches posts and categories concurrently and joins them: either
// failure yields one coherent error for the page, never a partial render.
func (c *Client) BlogPage(ctx context.Context, crit viewstate.Criteria) ([]Blog, []Category, error) {
	var (
		blogs   []Blog
		cats    []Category
		blogErr error
		catErr  error
		done    = make(chan struct{})
	)
	go func() {
		defer close(done)
		cats, catErr = c.ListCategories(ctx)
	}()
	blogs, blogErr = c.ListBlogs(ctx, crit)
	<-done
	if blogErr != nil {
		return nil, nil, blogErr
	}
	if catErr != nil {
		return nil, nil, catErr
	}
	return blogs, cats, nil
}
