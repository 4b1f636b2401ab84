package model

// RuleSettings configures how calls are classified. The zero value is not
// useful; start from DefaultRuleSettings.
type RuleSettings struct {
	// ValidationModule is the module whose check export validates responses.
	ValidationModule string
	// ValidationFunctions are callee names treated as validation calls.
	ValidationFunctions []string
	// NetworkModule is the module whose exports perform requests.
	NetworkModule string
	// NetworkNamespaces are identifiers whose member calls are requests.
	NetworkNamespaces []string
	// NetworkFunctions are identifiers called directly to perform a request.
	NetworkFunctions []string
	// NetworkHelpers are members of a network namespace that do not send a
	// request (http.url, http.file, ...).
	NetworkHelpers []string
	// SharedDataFactories are constructors whose arguments run once and are
	// shared between virtual users.
	SharedDataFactories []string
}

// DefaultRuleSettings returns the classification used for stock k6 scripts.
func DefaultRuleSettings() RuleSettings {
	return RuleSettings{
		ValidationModule:    "k6",
		ValidationFunctions: []string{"check"},
		NetworkModule:       "k6/http",
		NetworkNamespaces:   []string{"http"},
		NetworkFunctions:    []string{"fetch"},
		NetworkHelpers:      []string{"url", "file", "cookieJar", "expectedStatuses", "setResponseCallback"},
		SharedDataFactories: []string{"SharedArray"},
	}
}
