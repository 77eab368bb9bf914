// Package llm wraps an OpenAI-compatible chat completion endpoint for the
// reviewer roles.
//
// The client forces JSON-only responses, tolerates the streaming/legacy
// response shapes some providers return, and retries rate limits, server
// errors, and timeouts with exponential backoff (honoring Retry-After) up to
// a bounded attempt count. Retry sleeps are injectable so tests run without
// waiting.
package llm
