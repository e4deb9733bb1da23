// Package domain models nearby-event discovery: locations, normalized event
// records, categories, queries and their ranked results.
//
// # Distance Model
//
// Distances are great-circle kilometres from the Haversine formula on a
// sphere of radius 6371 km:
//
//	h = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlon/2)
//	d = 2·R·atan2(√h, √(1−h))
//
// Distance(A, A) is 0 and Distance(A, B) equals Distance(B, A). Asking for the
// distance to a missing point returns [ErrNoLocation]; there is no sentinel
// "infinite" distance.
//
// # Categories
//
// Providers label events with free text ("Rock Concert", "NBA Basketball").
// [Classify] folds that text into one of five categories by case-insensitive
// substring match, checked in this order:
//
//	music, concert                                          → MUSIC
//	sports, basketball, football, hockey, soccer, baseball → SPORTS
//	arts, theatre, theater, dance, opera, ballet           → ARTS_THEATRE
//	film, movie, cinema                                     → FILM
//	anything else                                           → MISCELLANEOUS
//
// # Errors
//
// [ValidationError] and [NotFoundError] reach callers. [TransportError] and
// [ParseError] are produced and absorbed inside adapters: a failed upstream
// call looks like an empty candidate list, and one malformed event never
// drops the rest of its batch.
//
// # Persistence Format
//
// [Event] marshals to the JSON shape used for per-user saved-event lists:
//
//	{"id", "name", "description", "category", "imageUrl", "startTime",
//	 "location": {"address", "latitude", "longitude"}}
package domain
