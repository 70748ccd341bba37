package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or blank search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidLimit signals a non-positive result limit.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidCoordinates signals a latitude/longitude outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidRadius signals a non-positive or oversized search radius.
	ErrInvalidRadius = errors.New("invalid radius")
	// ErrUnknownCategory signals an amenity category outside the supported set.
	ErrUnknownCategory = errors.New("unknown amenity category")
	// ErrUnknownLayer signals an infrastructure layer outside the supported set.
	ErrUnknownLayer = errors.New("unknown infrastructure layer")

	// ErrProviderUnavailable signals a geocoding provider failure (network, status, payload).
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	// ErrGeodataUnavailable signals a geodata query service failure.
	ErrGeodataUnavailable = errors.New("geodata service unavailable")
)

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	for _, s := range []error{
		ErrInvalidQuery, ErrInvalidLimit, ErrInvalidCoordinates,
		ErrInvalidRadius, ErrUnknownCategory, ErrUnknownLayer,
	} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
