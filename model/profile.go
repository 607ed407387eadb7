package model

import "time"

type GithubProfile struct {
	Login           string           `json:"login"`
	Name            string           `json:"name"`
	AvatarURL       string           `json:"avatar_url"`
	HTMLURL         string           `json:"html_url"`
	Followers       int              `json:"followers"`
	Following       int              `json:"following"`
	PublicRepos     int              `json:"public_repos"`
	PublicGists     int              `json:"public_gists"`
	CreatedAt       time.Time        `json:"created_at"`
	TotalStars      int              `json:"total_stars"`
	TotalForks      int              `json:"total_forks"`
	Languages       []RankedLanguage `json:"languages"`
	OtherPercentage int              `json:"other_percentage"`
}
