package matching

import "sort"

// Fewer qualifying photos than this and the threshold is abandoned in favor
// of the full sorted list. Never return an emptier result than necessary just
// because engagement is low.
const minQualifying = 3

// RankPhotos orders photos by engagement score (likes + comments), descending
// and stable on ties, keeps those with at least minLikes likes, and truncates
// to maxCount. Empty input yields an empty slice.
func RankPhotos(photos []RawPhoto, maxCount, minLikes int) []RankedPhoto {
	type scored struct {
		photo RankedPhoto
		likes int
	}
	ranked := make([]scored, 0, len(photos))
	for _, p := range photos {
		ranked = append(ranked, scored{
			photo: RankedPhoto{
				ID:      p.ID,
				OwnerID: p.OwnerID,
				URL:     p.URL,
				Score:   p.Likes + p.Comments,
			},
			likes: p.Likes,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].photo.Score > ranked[j].photo.Score
	})

	// The threshold is on likes, not on the combined score.
	popular := make([]scored, 0, len(ranked))
	for _, s := range ranked {
		if s.likes >= minLikes {
			popular = append(popular, s)
		}
	}
	if len(popular) < minQualifying {
		popular = ranked
	}

	if len(popular) > maxCount {
		popular = popular[:maxCount]
	}
	out := make([]RankedPhoto, len(popular))
	for i, s := range popular {
		out[i] = s.photo
	}
	return out
}
