package matching

import (
	"context"
	"errors"
	"math/rand"

	"github.com/rs/zerolog"
)

// Cap on candidates returned per search.
const maxCandidates = 50

// PhotoConfig holds the ranking thresholds the service hands to RankPhotos.
type PhotoConfig struct {
	MaxPhotos int
	MinLikes  int
}

// Service orchestrates the search pipeline: parameter derivation, the
// external search call, filtering, exclusion of already-decided candidates,
// shuffling and truncation. External failures are logged and absorbed into
// empty results; the caller decides whether to retry.
type Service struct {
	client     Client
	exclusions ExclusionSource
	search     SearchConfig
	photos     PhotoConfig
	rng        *rand.Rand // nil means the shared, locked global source
	log        zerolog.Logger
}

// NewService wires the pipeline. rng may be nil in production; tests inject a
// fixed-seed source so results can be asserted by set equality.
func NewService(client Client, exclusions ExclusionSource, search SearchConfig, photos PhotoConfig, rng *rand.Rand, log zerolog.Logger) *Service {
	return &Service{
		client:     client,
		exclusions: exclusions,
		search:     search,
		photos:     photos,
		rng:        rng,
		log:        log,
	}
}

// FindCandidates runs the full pipeline for a requester. Candidates the
// requester has blacklisted or already been shown are excluded. The surviving
// order is explicitly randomized for diversity across repeated calls, then
// capped at 50.
func (s *Service) FindCandidates(ctx context.Context, p Profile) []Candidate {
	params := BuildSearchParams(p, s.search, s.log)

	raw, err := s.client.SearchProfiles(ctx, params)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", p.ID).Msg("profile search failed")
		return []Candidate{}
	}

	candidates := FilterCandidates(raw)

	excluded := make(map[int64]struct{})
	for _, id := range s.exclusions.ListBlacklist(ctx, p.ID) {
		excluded[id] = struct{}{}
	}
	for _, id := range s.exclusions.ListViewed(ctx, p.ID) {
		excluded[id] = struct{}{}
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if _, skip := excluded[c.ID]; !skip {
			kept = append(kept, c)
		}
	}
	candidates = kept

	s.shuffle(candidates)
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	s.log.Info().
		Int64("user_id", p.ID).
		Int("count", len(candidates)).
		Msg("candidate search complete")
	return candidates
}

// RankedPhotos fetches and ranks a candidate's profile photos. A
// privacy-restricted profile is an empty result, not a failure.
func (s *Service) RankedPhotos(ctx context.Context, candidateID int64) []RankedPhoto {
	photos, err := s.client.FetchPhotos(ctx, candidateID)
	if err != nil {
		if errors.Is(err, ErrPrivacyRestricted) {
			s.log.Debug().Int64("candidate_id", candidateID).Msg("private profile, no photos")
		} else {
			s.log.Error().Err(err).Int64("candidate_id", candidateID).Msg("photo fetch failed")
		}
		return []RankedPhoto{}
	}
	return RankPhotos(photos, s.photos.MaxPhotos, s.photos.MinLikes)
}

func (s *Service) shuffle(candidates []Candidate) {
	swap := func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	if s.rng != nil {
		s.rng.Shuffle(len(candidates), swap)
		return
	}
	rand.Shuffle(len(candidates), swap)
}
