// Package services talks to the remote learning catalog.
//
// # Catalog Interface
//
// [Catalog] abstracts the feed of tracks (songs and podcast clips) and learning goals.
// [CatalogService] implements it over HTTP against the catalog API.
//
// # Authentication
//
// When a client ID and secret are configured, [CatalogService] authenticates with the
// OAuth2 client credentials flow. The [clientcredentials.Config] client fetches and refreshes tokens on its own.
// Without credentials requests are sent unauthenticated.
//
// # Media
//
// Track audio locations may be relative to the media base URL; [CatalogService.ResolveAudio] makes them absolute.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : non-2xx response, with the server's detail message when present
//   - [shared.ErrServiceUnavailable] : transport failure
//   - [shared.ErrTrackNotFound] : 404 for a single track
package services
