package api

import "context"

// PathResolver builds request URLs from the registered alias table.
//
// Services depend on this instead of the base URL so URL building can be
// tested without a server.
type PathResolver interface {
	// apiURL returns the absolute URL for alias + action + params.
	// Example: apiURL("contentApiBaseUrl", "GetById", P("id", 5)) ->
	// "https://host/umbraco/backoffice/UmbracoApi/Content/GetById?id=5"
	apiURL(alias, action string, params ...Param) (string, error)
}

// HTTPExecutor sends a request through the interceptor chain.
//
// A non-nil error is either a *ResourceError (HTTP or transport failure)
// or an *AuthError (401 that re-authentication could not recover).
type HTTPExecutor interface {
	send(ctx context.Context, req *Request) (*Response, error)
}

// Requester combines PathResolver and HTTPExecutor to provide
// the complete request surface used by resource helpers.
//
// Example usage in tests:
//
//	type fakeRequester struct{ sent []*Request }
//	func (f *fakeRequester) apiURL(a, act string, p ...Param) (string, error) { return a + "/" + act, nil }
//	func (f *fakeRequester) send(ctx context.Context, r *Request) (*Response, error) { ... }
type Requester interface {
	PathResolver
	HTTPExecutor
}
