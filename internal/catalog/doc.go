// Package catalog reads the two remote decoration catalogs.
//
// A catalog is an HTTP endpoint that answers a bare GET with the JSON array of
// every identifier it currently knows, and a GET with an "ids" query parameter
// with the descriptive records for those identifiers. Two catalogs are known:
//
//   - KindGuild: guild hall upgrades; only records typed "Decoration" are kept
//   - KindHomestead: homestead decorations
//
// Bulk queries are capped at MaxBatchSize identifiers per request. Every
// failure is reported as either a *TransportError (the catalog could not be
// reached or answered with a non-2xx status) or a *MalformedPayloadError (the
// body did not have the expected shape). No partial results are returned.
package catalog
