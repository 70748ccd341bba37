// Package geodex is a Go client for a running geodex server.
//
// It resolves Vietnamese free-text locations and lists amenities and transit
// infrastructure around a point, returning the same domain values the server
// encodes.
//
//	client, _ := geodex.New("http://localhost:8080", geodex.WithAPIKey(key))
//	places, _ := client.Resolve(ctx, "Chợ Bến Thành", 5)
//	near, _ := client.FetchAmenities(ctx, geodex.AmenityQuery{
//	    Center:       geodex.Point{Lat: 10.7725, Lng: 106.6980},
//	    RadiusMeters: 800,
//	    Categories:   []geodex.Category{geodex.Education, geodex.Healthcare},
//	})
//
// Server-side failures come back as *APIError. Validation and upstream
// failures unwrap to the exported sentinels, so errors.Is works across the wire.
package geodex
