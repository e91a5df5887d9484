// Package httputil provides HTTP helpers shared by registry clients.
//
// [Retry] re-runs an operation with exponential backoff while it keeps
// failing with a [RetryableError]. Transport code wraps transient failures
// (dial errors, 5xx responses) with [Retryable]; everything else, such as a
// 404 or a malformed body, fails immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx, url)
//	})
//
// Cancelling ctx aborts the wait between attempts and returns ctx.Err().
package httputil
