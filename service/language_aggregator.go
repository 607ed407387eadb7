package service

import (
	"context"
	"math"
	"sort"

	"github.com/FlorianRuen/profile-stats-backend/config"
	"github.com/FlorianRuen/profile-stats-backend/model"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

// LanguageSource returns the bytes per language of a single repository
type LanguageSource interface {
	GetLanguages(ctx context.Context, owner string, repo string) (model.LanguageByteMap, error)
}

type LanguageAggregator interface {
	FetchTopLanguages(ctx context.Context, repositories []model.RepositoryRef, limit int) []model.RankedLanguage
}

type languageAggregator struct {
	source LanguageSource
	config config.Config
}

func NewLanguageAggregator(config config.Config, source LanguageSource) LanguageAggregator {
	return languageAggregator{
		source: source,
		config: config,
	}
}

// settled outcome of the languages fetch for one repository
type languageFetchResult struct {
	repository model.RepositoryRef
	languages  model.LanguageByteMap
	err        error
}

// FetchTopLanguages fetches languages of all repositories in parallel, merges them
// and returns the top languages with their percentage of all bytes.
// A failing repository only contributes nothing, this function never fails
func (a languageAggregator) FetchTopLanguages(ctx context.Context, repositories []model.RepositoryRef, limit int) []model.RankedLanguage {
	results := a.fetchAllSettled(ctx, repositories)

	// accumulate only when every fetch has settled, keeping input order
	totals := model.NewLanguageTotals()
	failures := 0

	for _, result := range results {
		if result.err != nil {
			failures++
			log.WithFields(log.Fields{
				"owner":      result.repository.Owner,
				"repository": result.repository.Name,
			}).WithError(result.err).Warning("unable to fetch repository languages. skipped from aggregation")

			continue
		}

		totals.Add(result.languages)
	}

	ranked := RankLanguages(totals, limit)

	log.WithFields(log.Fields{
		"numberOfRepositories": len(repositories),
		"failedRepositories":   failures,
		"distinctLanguages":    totals.Len(),
		"returnedLanguages":    len(ranked),
	}).Debug("languages aggregated")

	return ranked
}

// fetchAllSettled waits for every fetch to finish, successfully or not
// each goroutine only writes its own slot, so no lock is required
func (a languageAggregator) fetchAllSettled(ctx context.Context, repositories []model.RepositoryRef) []languageFetchResult {
	results := make([]languageFetchResult, len(repositories))

	parallelTasks := a.config.Tasks.MaxParallelTasksAllowed
	if parallelTasks < 1 {
		parallelTasks = 1
	}

	swg := sizedwaitgroup.New(parallelTasks)

	for i, r := range repositories {
		results[i].repository = r

		// AddWithContext alone may still acquire a slot on a cancelled context
		if err := ctx.Err(); err != nil {
			results[i].err = err
			continue
		}

		if err := swg.AddWithContext(ctx); err != nil {
			results[i].err = err
			continue
		}

		go func(i int, r model.RepositoryRef) {
			defer swg.Done()
			results[i].languages, results[i].err = a.source.GetLanguages(ctx, r.Owner, r.Name)
		}(i, r)
	}

	log.Debug("waiting for all languages fetches to be settled")
	swg.Wait()

	return results
}

// RankLanguages sorts the totals by descending bytes and computes the percentage
// of every language before keeping only the first limit entries.
// Percentages are rounded independently (half away from zero), so the full list sums to 100 give or take rounding
func RankLanguages(totals *model.LanguageTotals, limit int) []model.RankedLanguage {
	ranked := make([]model.RankedLanguage, 0)

	totalBytes := totals.TotalBytes()
	if totalBytes == 0 || limit <= 0 {
		return ranked
	}

	for _, name := range totals.Names() {
		ranked = append(ranked, model.RankedLanguage{
			Name:  name,
			Bytes: totals.Bytes(name),
		})
	}

	// stable to keep accumulation order between languages with the same bytes
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Bytes > ranked[j].Bytes
	})

	for i := range ranked {
		ranked[i].Percentage = int(math.Round(float64(ranked[i].Bytes) / float64(totalBytes) * 100))
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
