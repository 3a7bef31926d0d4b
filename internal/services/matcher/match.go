package matcher

import (
	"strings"
	"time"

	"threatdash/internal/domain"
	"threatdash/internal/ports"
)

// CheckThreat reports which platforms in area are exposed to threatID.
// Issues yield critical matches, concessions yield regeneration matches, and
// critical matches always come first. Validation happens before either
// dataset is inspected.
func CheckThreat(areas ports.Areas, area, threatID string, issues, concessions domain.Dataset, now time.Time) (domain.MatchResult, error) {
	norm, threat, err := validate(areas, area, threatID)
	if err != nil {
		return domain.MatchResult{}, err
	}

	matches := []domain.Match{}
	matches = collect(matches, issues, norm, threat, domain.MatchCritical, domain.MessageCritical, now)
	matches = collect(matches, concessions, norm, threat, domain.MatchRegeneration, domain.MessageRegeneration, now)

	return domain.MatchResult{
		Area:         norm,
		Threat:       threat,
		Matches:      matches,
		TotalMatches: len(matches),
	}, nil
}

func validate(areas ports.Areas, area, threatID string) (string, string, error) {
	norm, err := areas.Normalize(area)
	if err != nil {
		return "", "", err
	}
	threat := strings.TrimSpace(threatID)
	if threat == "" {
		return "", "", domain.InvalidArgument("Missing required field: threat")
	}
	return norm, threat, nil
}

func collect(dst []domain.Match, ds domain.Dataset, area, threat string, typ domain.MatchType, msg string, now time.Time) []domain.Match {
	product, ok := firstProductForArea(ds, area)
	if !ok {
		return dst
	}
	for _, p := range product.Platforms {
		if !p.Affected(threat) {
			continue
		}
		dst = append(dst, domain.Match{
			Platform:  p.Name,
			Message:   msg,
			Area:      area,
			Threat:    threat,
			Type:      typ,
			Timestamp: now,
		})
	}
	return dst
}

// firstProductForArea returns the first product tagged with area in source
// order. Later products for the same area are not consulted.
func firstProductForArea(ds domain.Dataset, area string) (domain.Product, bool) {
	for _, p := range ds.Products {
		if p.Area == area {
			return p, true
		}
	}
	return domain.Product{}, false
}

// GroupByArea buckets products by their area, keeping source order inside
// each bucket. Areas are reported verbatim without validation.
func GroupByArea(ds domain.Dataset) map[string][]domain.Product {
	out := make(map[string][]domain.Product)
	for _, p := range ds.Products {
		out[p.Area] = append(out[p.Area], p)
	}
	return out
}

// AreaOrder lists the distinct areas of ds in first-appearance order.
func AreaOrder(ds domain.Dataset) []string {
	seen := make(map[string]struct{})
	var order []string
	for _, p := range ds.Products {
		if _, ok := seen[p.Area]; ok {
			continue
		}
		seen[p.Area] = struct{}{}
		order = append(order, p.Area)
	}
	return order
}
