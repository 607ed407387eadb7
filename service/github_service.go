package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FlorianRuen/profile-stats-backend/config"
	"github.com/FlorianRuen/profile-stats-backend/model"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

type GithubService interface {
	FetchProfile(ctx context.Context, query model.ProfileQuery) (model.GithubProfile, error)
	FetchTopLanguages(ctx context.Context, query model.ProfileQuery) ([]model.RankedLanguage, error)
	ListRepositories(ctx context.Context, username string) ([]*github.Repository, error)
	GetLanguages(ctx context.Context, owner string, repo string) (model.LanguageByteMap, error)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	aggregator        LanguageAggregator
	config            config.Config
}

// NewGithubService returns a service also used as the languages source of its own aggregator
// every github request consume one token of the local rate limiter
// ListLanguages rate limit = 60 calls per hour for non-authenticated and 5000 calls for authenticated
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	s := &githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}

	s.aggregator = NewLanguageAggregator(config, s)
	return s
}

// NewGithubClient setup the github client, authenticated when a token is configured
// we create it here and pass it to Github service to easily improve tests with mock client
func NewGithubClient(ctx context.Context, cfg config.Config) *github.Client {
	httpClient := &http.Client{}

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Github.Token}))
	}

	httpClient.Timeout = time.Duration(cfg.Github.RequestTimeoutSeconds) * time.Second
	return github.NewClient(httpClient)
}

// NewGithubRateLimiter execute a first request to github to fetch current rate limits
// and consume the tokens already used, so the local limiter is right even if external requests were made
func NewGithubRateLimiter(ctx context.Context, githubClient *github.Client) (*rate.Limiter, error) {
	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, err
	}

	if rateLimits == nil || rateLimits.Core == nil {
		return nil, model.ErrInvalidData
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	rateLimiter := rate.NewLimiter(rate.Every(time.Hour/time.Duration(max(rateLimits.Core.Limit, 1))), rateLimits.Core.Limit)

	if !rateLimiter.AllowN(time.Now(), rateLimits.Core.Limit-rateLimits.Core.Remaining) {
		return nil, model.ErrRateLimiter
	}

	return rateLimiter, nil
}

// FetchProfile load the user account, aggregate stars and forks of all its repositories
// and compute the top languages. The languages step never fails, a repository without
// languages (or failing) simply does not contribute
func (s *githubService) FetchProfile(ctx context.Context, query model.ProfileQuery) (model.GithubProfile, error) {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.GithubProfile{}, model.ErrRateLimitReached
	}

	log.WithField("username", query.Username).Info("fetch github profile")

	user, _, err := s.githubClient.Users.Get(ctx, query.Username)
	if err != nil {
		return model.GithubProfile{}, s.handleUserRequestErrors(query.Username, err)
	}

	if user == nil || user.Login == nil {
		return model.GithubProfile{}, model.ErrInvalidData
	}

	repositories, err := s.ListRepositories(ctx, query.Username)
	if err != nil {
		return model.GithubProfile{}, err
	}

	profile := model.GithubProfile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		PublicGists: user.GetPublicGists(),
		CreatedAt:   user.GetCreatedAt().Time,
	}

	for _, r := range repositories {
		profile.TotalStars += r.GetStargazersCount()
		profile.TotalForks += r.GetForksCount()
	}

	limit := query.LanguagesLimit(s.config.Github.DefaultLanguagesLimit)
	profile.Languages = s.aggregator.FetchTopLanguages(ctx, repositoriesWithLanguages(repositories), limit)
	profile.OtherPercentage = model.OtherPercentage(profile.Languages)

	return profile, nil
}

// FetchTopLanguages only compute the languages part of the profile
func (s *githubService) FetchTopLanguages(ctx context.Context, query model.ProfileQuery) ([]model.RankedLanguage, error) {
	repositories, err := s.ListRepositories(ctx, query.Username)
	if err != nil {
		return []model.RankedLanguage{}, err
	}

	limit := query.LanguagesLimit(s.config.Github.DefaultLanguagesLimit)
	return s.aggregator.FetchTopLanguages(ctx, repositoriesWithLanguages(repositories), limit), nil
}

// ListRepositories load all public repositories of a user, 100 per page
func (s *githubService) ListRepositories(ctx context.Context, username string) ([]*github.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{
			Page:    1,
			PerPage: 100,
		},
	}

	repositories := make([]*github.Repository, 0)

	for {
		if !s.githubRateLimiter.Allow() {
			log.WithField("username", username).Warning("not enought requests in rate limiter to list all repositories")
			return nil, model.ErrRateLimitReached
		}

		page, resp, err := s.githubClient.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, s.handleUserRequestErrors(username, err)
		}

		for _, r := range page {
			if r == nil {
				continue
			}

			repositories = append(repositories, r)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	log.WithFields(log.Fields{
		"username":             username,
		"numberOfRepositories": len(repositories),
	}).Debug("repositories listed from github")

	return repositories, nil
}

// GetLanguages get the languages for a specific repository
// when the local rate limiter is exhausted only this repository fails
func (s *githubService) GetLanguages(ctx context.Context, owner string, repo string) (model.LanguageByteMap, error) {
	if !s.githubRateLimiter.Allow() {
		return nil, model.ErrRateLimitReached
	}

	log.WithFields(log.Fields{
		"owner":      owner,
		"repository": repo,
	}).Debug("fetch languages for repository")

	res, _, err := s.githubClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, s.HandleRequestErrors(err)
	}

	languages := make(model.LanguageByteMap, len(res))
	for name, bytes := range res {
		if bytes < 0 {
			return nil, model.ErrInvalidData
		}

		languages[name] = int64(bytes)
	}

	return languages, nil
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
// errors are not logged here, a failing repository is expected and reported once by the aggregator
func (s *githubService) HandleRequestErrors(err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseRateLimitErr *github.AbuseRateLimitError

	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseRateLimitErr) {
		// drain the limiter, returns false only when it is already empty
		s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst())
		return model.ErrRateLimitReached
	}

	return fmt.Errorf("%w: %s", model.ErrFetch, err.Error())
}

// handleUserRequestErrors is used for requests scoped to a user, where a 404 means the user does not exist
// these errors fail the whole request, so they are logged here
func (s *githubService) handleUserRequestErrors(username string, err error) error {
	var responseErr *github.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil && responseErr.Response.StatusCode == http.StatusNotFound {
		log.WithField("username", username).Info("github user not found")
		return model.ErrUserNotFound
	}

	err = s.HandleRequestErrors(err)

	if errors.Is(err, model.ErrRateLimitReached) {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
	} else {
		log.WithField("username", username).WithError(err).Error("error catched when fetching data from github")
	}

	return err
}

// repositoriesWithLanguages keep repositories with a main language
// if the main language is not available, ListLanguages would return an empty list,
// skipping them save some requests regarding to the rate limit
func repositoriesWithLanguages(repositories []*github.Repository) []model.RepositoryRef {
	refs := make([]model.RepositoryRef, 0, len(repositories))

	for _, r := range repositories {
		if r.Language == nil || r.GetOwner().GetLogin() == "" || r.GetName() == "" {
			log.WithField("repositoryID", r.GetID()).Debug("repository without most used language. skipped from loading languages list")
			continue
		}

		refs = append(refs, model.RepositoryRef{
			Owner: r.GetOwner().GetLogin(),
			Name:  r.GetName(),
		})
	}

	return refs
}
