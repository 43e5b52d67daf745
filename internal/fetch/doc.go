// Package fetch retrieves encyclopedia articles over HTTP.
//
// A Client performs one logical "fetch article by endpoint" operation per
// call to Fetch and is safe for concurrent use by many goroutines. It
// combines three mechanisms:
//
//   - AdmissionPool: a token pool bounding the number of requests in flight.
//     A token is held only from just before the request is sent until the
//     response headers arrive; reading and parsing the body happen outside it.
//   - Retry: transport errors and non-2xx responses other than 404 are retried
//     up to a fixed number of attempts. 404 is terminal on the first attempt.
//   - BackoffSignal: a flag shared by every caller of the Client. A worker that
//     sees a retryable failure raises it for the length of its backoff sleep;
//     other workers that observe it sleep instead of sending new requests.
//
// After a successful response the endpoint the server actually served
// (following redirects) is compared with the requested one; the returned
// article carries the served endpoint, and callers record the redirect.
//
// # Usage
//
//	client, err := fetch.New(fetch.WithBaseURL(fetch.DefaultBaseURL))
//	if err != nil { ... }
//	defer client.Close()
//	doc, err := client.Fetch(ctx, "Go_(programming_language)")
package fetch
