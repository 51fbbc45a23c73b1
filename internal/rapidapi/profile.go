package rapidapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/autotouch/outbound/internal/model"
)

// ProfileSections selects the optional sections of a profile lookup. Every
// flag is sent explicitly, so unset sections are requested as false.
type ProfileSections struct {
	Skills           bool
	Certifications   bool
	Publications     bool
	Honors           bool
	Volunteers       bool
	Projects         bool
	Patents          bool
	Courses          bool
	Organizations    bool
	ProfileStatus    bool
	CompanyPublicURL bool
}

// PostsParams pages through a profile's activity.
type PostsParams struct {
	PostType        string // defaults to "posts"
	Start           int
	PaginationToken string
}

// CommentsParams pages through the comments of a post.
type CommentsParams struct {
	SortBy          string // defaults to "Most relevant"
	Page            int    // defaults to 1
	PaginationToken string
}

// ReactionsParams pages through the reactions of a post.
type ReactionsParams struct {
	ReactionType string // defaults to "ALL"
	Page         int    // defaults to 1
}

// ProfileClient queries the LinkedIn profile data API.
type ProfileClient struct {
	*Client
}

// NewProfileClient creates a LinkedIn profile data client.
func NewProfileClient(apiKey, host string, httpClient *http.Client) (*ProfileClient, error) {
	if host == "" {
		host = DefaultLinkedInProfileHost
	}
	c, err := NewClient(apiKey, host, httpClient)
	if err != nil {
		return nil, err
	}
	return &ProfileClient{Client: c}, nil
}

// ProfileDetails enriches a LinkedIn profile URL.
func (c *ProfileClient) ProfileDetails(ctx context.Context, linkedinURL string, s ProfileSections) (*model.APIResponse, error) {
	if linkedinURL == "" {
		return nil, errors.New("profile details: linkedin url is required")
	}
	q := query{}.
		text("linkedin_url", linkedinURL).
		boolean("include_skills", &s.Skills).
		boolean("include_certifications", &s.Certifications).
		boolean("include_publications", &s.Publications).
		boolean("include_honors", &s.Honors).
		boolean("include_volunteers", &s.Volunteers).
		boolean("include_projects", &s.Projects).
		boolean("include_patents", &s.Patents).
		boolean("include_courses", &s.Courses).
		boolean("include_organizations", &s.Organizations).
		boolean("include_profile_status", &s.ProfileStatus).
		boolean("include_company_public_url", &s.CompanyPublicURL)
	return c.Get(ctx, "/enrich-lead", q.values())
}

// ProfilePosts lists a profile's posts.
func (c *ProfileClient) ProfilePosts(ctx context.Context, linkedinURL string, p PostsParams) (*model.APIResponse, error) {
	if linkedinURL == "" {
		return nil, errors.New("profile posts: linkedin url is required")
	}
	if p.PostType == "" {
		p.PostType = "posts"
	}
	q := query{}.
		text("linkedin_url", linkedinURL).
		text("type", p.PostType).
		integer("start", &p.Start).
		text("pagination_token", p.PaginationToken)
	return c.Get(ctx, "/get-profile-posts", q.values())
}

// PostComments lists the comments on a post.
func (c *ProfileClient) PostComments(ctx context.Context, urn string, p CommentsParams) (*model.APIResponse, error) {
	if urn == "" {
		return nil, errors.New("post comments: urn is required")
	}
	if p.SortBy == "" {
		p.SortBy = "Most relevant"
	}
	if p.Page < 1 {
		p.Page = 1
	}
	q := query{}.
		text("urn", urn).
		text("sort_by", p.SortBy).
		integer("page", &p.Page).
		text("pagination_token", p.PaginationToken)
	return c.Get(ctx, "/get-post-comments", q.values())
}

// PostReactions lists the reactions on a post.
func (c *ProfileClient) PostReactions(ctx context.Context, urn string, p ReactionsParams) (*model.APIResponse, error) {
	if urn == "" {
		return nil, errors.New("post reactions: urn is required")
	}
	if p.ReactionType == "" {
		p.ReactionType = "ALL"
	}
	if p.Page < 1 {
		p.Page = 1
	}
	q := query{}.
		text("urn", urn).
		text("type", p.ReactionType).
		integer("page", &p.Page)
	return c.Get(ctx, "/get-post-reactions", q.values())
}

// SearchPosts runs a post search with a provider-defined JSON payload.
func (c *ProfileClient) SearchPosts(ctx context.Context, payload map[string]any) (*model.APIResponse, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	return c.Post(ctx, "/search-posts", payload)
}
