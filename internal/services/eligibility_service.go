package services

import (
	"strings"

	"reliefmarket/internal/repos"
)

// EligibilityService answers whether a zip code falls inside any currently
// active disaster zone.
type EligibilityService struct {
	Zones *repos.ZoneRepo

	// LegacyCityMatch additionally accepts a zip code that appears as a
	// lowercase substring of any zone city name. Controlled by
	// ELIGIBILITY_LEGACY_CITY_MATCH; set it to false for strict zip matching.
	LegacyCityMatch bool
}

func NewEligibilityService(zones *repos.ZoneRepo, legacyCityMatch bool) *EligibilityService {
	return &EligibilityService{Zones: zones, LegacyCityMatch: legacyCityMatch}
}

func (s *EligibilityService) Eligible(zipCode string) (bool, error) {
	zones, err := s.Zones.ListActive()
	if err != nil {
		return false, err
	}
	needle := strings.ToLower(zipCode)
	for _, z := range zones {
		for _, zip := range z.ZipCodes {
			if zip == zipCode {
				return true, nil
			}
		}
		if s.LegacyCityMatch {
			for _, city := range z.Cities {
				if strings.Contains(strings.ToLower(city), needle) {
					return true, nil
				}
			}
		}
	}
	return false, nil
}
