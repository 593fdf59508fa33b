// Package services defines the [LyricsService] interface for lyrics providers and implements it for Lyrics.ovh.
//
// # Lyrics.ovh Implementation
//
// [LyricsOVHService] issues a single GET to {base}/{artist}/{title} with both segments percent-encoded.
// There is no retry, no caching, and no timeout beyond what the supplied [http.Client] carries.
// An optional client-side rate limit can be attached with [LyricsOVHService.SetRateLimit].
//
// # Error Handling
//
// Every failure is returned as a [*LookupError] whose Error() is the message shown to the user.
// Its kind matches one of the shared sentinels with [errors.Is]:
//   - [shared.ErrLyricsNotFound] : HTTP 404, or a 2xx body without lyrics
//   - [shared.ErrServiceFailure] : any other non-2xx status, or an unreadable body
//   - [shared.ErrTransport] : no response at all; the message is the transport error text
package services
