// Package testrail is the remote operations client for the test management
// system.
//
// All traffic goes through a Transport, which exposes the two primitives the
// rest of the package is built on: SendGet and SendPost. HTTPTransport is the
// production implementation; tests substitute an httptest server or a fake.
//
// Client maps the five remote operation families (suite, section, case, step
// text, run) onto typed requests and parses every response with gjson, so
// both the legacy bare-array list responses and the paginated
// {"_links": {"next": ...}, "cases": [...]} shape are understood.
//
// Case bodies are produced by the pure functions in casebody.go. Their output
// is the wire contract existing suites were created with and must not drift:
//
//	||| Row | Test Step
//	|| 2 | GIVEN a deployed service
//	|| 3 | <nbsp>check the dashboard
//	MSG-0042
package testrail
