package rapidapi

import "github.com/yourorg/lead-scout/internal/models"

// DedupeByAddress keeps the first property for each exact address string.
// Properties without an address are never merged.
func DedupeByAddress(props []models.Property) []models.Property {
	out := make([]models.Property, 0, len(props))
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p.Address != "" {
			if _, dup := seen[p.Address]; dup {
				continue
			}
			seen[p.Address] = struct{}{}
		}
		out = append(out, p)
	}
	return out
}
