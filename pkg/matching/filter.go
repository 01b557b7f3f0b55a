package matching

import "strings"

// VK substitutes a generic camera icon for profiles without a real photo; the
// placeholder is recognizable by its URL.
const placeholderPhotoMarker = "camera"

// FilterCandidates drops deactivated profiles and profiles without a usable
// photo, and normalizes the survivors into the Candidate shape. Source order
// is preserved; deduplication against already-seen candidates is the
// caller's job via the interaction store.
func FilterCandidates(raw []RawCandidate) []Candidate {
	candidates := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		if r.Deactivated != "" {
			continue
		}
		if r.PhotoURL == "" || strings.Contains(r.PhotoURL, placeholderPhotoMarker) {
			continue
		}
		c := Candidate{
			ID:        r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			City:      r.City,
			Sex:       r.Sex,
		}
		if age, ok := CalculateAge(r.BirthDate); ok {
			c.Age = &age
		}
		candidates = append(candidates, c)
	}
	return candidates
}
