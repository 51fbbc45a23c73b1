package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/config"
	"github.com/autotouch/outbound/internal/rapidapi"
)

var (
	profileSections  rapidapi.ProfileSections
	profilePosts     rapidapi.PostsParams
	profileComments  rapidapi.CommentsParams
	profileReactions rapidapi.ReactionsParams
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Query the LinkedIn profile data API",
}

var profileDetailsCmd = &cobra.Command{
	Use:   "details <linkedin-url>",
	Short: "Fetch profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileClient(cmd, func(c *rapidapi.ProfileClient) error {
			resp, err := c.ProfileDetails(cmd.Context(), args[0], profileSections)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

var profilePostsCmd = &cobra.Command{
	Use:   "posts <linkedin-url>",
	Short: "Fetch a profile's recent posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileClient(cmd, func(c *rapidapi.ProfileClient) error {
			resp, err := c.ProfilePosts(cmd.Context(), args[0], profilePosts)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

var profileCommentsCmd = &cobra.Command{
	Use:   "comments <post-urn>",
	Short: "Fetch the comments on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileClient(cmd, func(c *rapidapi.ProfileClient) error {
			resp, err := c.PostComments(cmd.Context(), args[0], profileComments)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

var profileReactionsCmd = &cobra.Command{
	Use:   "reactions <post-urn>",
	Short: "Fetch the reactions on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfileClient(cmd, func(c *rapidapi.ProfileClient) error {
			resp, err := c.PostReactions(cmd.Context(), args[0], profileReactions)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

var profileSearchPostsCmd = &cobra.Command{
	Use:   "search-posts <json-payload>",
	Short: "Search posts with a raw JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload map[string]any
		if err := json.Unmarshal([]byte(args[0]), &payload); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
		return withProfileClient(cmd, func(c *rapidapi.ProfileClient) error {
			resp, err := c.SearchPosts(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

func init() {
	fl := profileDetailsCmd.Flags()
	fl.BoolVar(&profileSections.Skills, "skills", false, "include skills")
	fl.BoolVar(&profileSections.Certifications, "certifications", false, "include certifications")
	fl.BoolVar(&profileSections.Publications, "publications", false, "include publications")
	fl.BoolVar(&profileSections.Honors, "honors", false, "include honors")
	fl.BoolVar(&profileSections.Volunteers, "volunteers", false, "include volunteer experience")
	fl.BoolVar(&profileSections.Projects, "projects", false, "include projects")
	fl.BoolVar(&profileSections.Patents, "patents", false, "include patents")
	fl.BoolVar(&profileSections.Courses, "courses", false, "include courses")
	fl.BoolVar(&profileSections.Organizations, "organizations", false, "include organizations")
	fl.BoolVar(&profileSections.ProfileStatus, "profile-status", false, "include profile status")
	fl.BoolVar(&profileSections.CompanyPublicURL, "company-public-url", false, "include company public URLs")

	profilePostsCmd.Flags().StringVar(&profilePosts.PostType, "type", "posts", "activity type")
	profilePostsCmd.Flags().IntVar(&profilePosts.Start, "start", 0, "result offset")
	profilePostsCmd.Flags().StringVar(&profilePosts.PaginationToken, "pagination-token", "", "token from the previous page")

	profileCommentsCmd.Flags().StringVar(&profileComments.SortBy, "sort-by", "Most relevant", "comment order")
	profileCommentsCmd.Flags().IntVar(&profileComments.Page, "page", 1, "page number")
	profileCommentsCmd.Flags().StringVar(&profileComments.PaginationToken, "pagination-token", "", "token from the previous page")

	profileReactionsCmd.Flags().StringVar(&profileReactions.ReactionType, "reaction-type", "ALL", "reaction type")
	profileReactionsCmd.Flags().IntVar(&profileReactions.Page, "page", 1, "page number")

	profileCmd.AddCommand(profileDetailsCmd, profilePostsCmd, profileCommentsCmd, profileReactionsCmd, profileSearchPostsCmd)
	rootCmd.AddCommand(profileCmd)
}

func withProfileClient(cmd *cobra.Command, fn func(*rapidapi.ProfileClient) error) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	c, err := newProfileClient(cfg)
	if err != nil {
		return err
	}
	return fn(c)
}

func newProfileClient(cfg *config.Config) (*rapidapi.ProfileClient, error) {
	return rapidapi.NewProfileClient(cfg.RapidAPI.APIKey, cfg.RapidAPI.LinkedInProfileHost,
		&http.Client{Timeout: cfg.RapidAPI.Timeout})
}
