// Package dhis2 is a client for the DHIS2 REST API.
//
// The client wraps [github.com/go-resty/resty/v2] with HTTP Basic
// authentication, a concurrency cap, per-call timeouts and
// retry-with-backoff, and decodes JSON responses.
//
//	client, err := dhis2.New("admin", "district", "https://play.dhis2.org")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	out, err := client.Get(ctx, "organisationUnits",
//	    dhis2.WithParams(map[string]string{"paging": "false"}))
//
// # Retry behaviour
//
// Transport errors, timeouts and 5xx responses are retried up to three
// attempts with an exponential backoff bounded to [1s, 10s]. A 400
// response, or any other non-5xx error status, is never retried.
// Malformed JSON on a success status propagates as-is and is never
// retried either. Tune the policy with [WithRetry].
//
// # Sessions
//
// The pooled session is created on first use and shared by all
// requests. [Client.Close] is explicit and idempotent; it is never
// called on the caller's behalf, and a request after Close creates a
// fresh session. This asymmetry is deliberate so one client can be
// reused across several scoped blocks.
//
// # Logging
//
// Pass a zap SugaredLogger via [WithLogger] to see request failures
// and retry warnings; the default logger discards everything.
// [NewFromEnv] builds a client, including a live logger, from DHIS2_*
// environment variables.
package dhis2
