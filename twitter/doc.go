// Package twitter provides a synchronous client for the Twitter v2 API, with
// the v1.1 endpoints that v2 lacks: direct messages, media upload, trends,
// geo and account settings. Embed fetches oEmbed markup from the publish host.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: the transport. It signs requests with OAuth 1.0a or a bearer
//     token, retries network errors and 5xx responses, records rate limits
//     and turns non-2xx responses into *APIError.
//   - Models: User, Tweet, Media, Poll, Space, List and Message, decoded from
//     the v2 envelope with expansions resolved from "includes".
//   - Paginator: page-by-page access to list endpoints with cached pages.
//   - API: the interface the Client implements, for testability.
//
// # Usage
//
//	client, err := twitter.NewClient(
//		twitter.Credentials{BearerToken: os.Getenv("TWITTER_BEARER_TOKEN")},
//		twitter.WithTimeout(10*time.Second),
//		twitter.WithCache(cache.NewMemory(1000)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	user, err := client.UserByUsername(ctx, "golang")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	timeline, err := client.Timeline(ctx, user.ID, twitter.TimelineOptions{ExcludeRetweets: true})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for {
//		for _, t := range timeline.Content() {
//			fmt.Println(t.Text)
//		}
//		if err := timeline.NextPage(ctx); err != nil {
//			break
//		}
//	}
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError and match the status
// sentinels with errors.Is:
//
//	if errors.Is(err, twitter.ErrTooManyRequests) {
//		// back off
//	}
//
// Lookups of missing or protected objects answer 200 with an error body and
// are returned as *ResourceError, matching ErrResourceNotFound,
// ErrUnauthorizedForResource or ErrDisallowedResource. IsNotFound covers both
// forms.
//
// # Logging
//
// The client writes to the logger from the logging package, which is silent
// until the application configures it. Requests are logged at debug, retries
// and rate-limit waits at warn and response bodies at trace.
package twitter
