package permits

import (
	"strings"
	"unicode"

	"github.com/flipwell/compintel/internal/domain"
)

// ExtractLicense pulls the first run of six or more digits out of free-text
// contact info, the shape license numbers take in source records. Returns ""
// when no such run exists; a license is never synthesized.
func ExtractLicense(info string) string {
	start := -1
	for i, r := range info {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start >= 6 {
				return info[start:i]
			}
			start = -1
		}
	}
	if start >= 0 && len(info)-start >= 6 {
		return info[start:]
	}
	return ""
}

// NormalizeParties fills in missing license fields from each party's raw name
// text. Party text otherwise passes through untouched; reconciliation of
// names is not this core's concern.
func NormalizeParties(parties []domain.Party) []domain.Party {
	if len(parties) == 0 {
		return nil
	}
	out := make([]domain.Party, len(parties))
	for i, p := range parties {
		if p.License == "" {
			p.License = ExtractLicense(p.Name)
		}
		p.Name = strings.TrimSpace(p.Name)
		out[i] = p
	}
	return out
}
