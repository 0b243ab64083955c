package config

import "strings"

const (
	// DevelopmentOrigin is the backend used by non-production builds without an override.
	DevelopmentOrigin = "http://localhost:5000"
	// ProxyPath is the same-origin path production deployments forward to the backend.
	ProxyPath = "/backend"
)

type OriginInput struct {
	ExplicitOverride  string
	IsProductionBuild bool
}

// Origin is the resolved backend origin. It is either an absolute http(s) URL or a relative
// proxy path. The zero value is not usable; build it with ResolveOrigin.
type Origin struct {
	value string
}

// ResolveOrigin applies, in order: relative override, absolute override, production proxy
// path, development origin. Overrides are returned verbatim.
func ResolveOrigin(in OriginInput) Origin {
	override := in.ExplicitOverride
	switch {
	case strings.HasPrefix(override, "/"):
		return Origin{value: override}
	case hasHTTPScheme(override):
		return Origin{value: override}
	case in.IsProductionBuild:
		return Origin{value: ProxyPath}
	default:
		return Origin{value: DevelopmentOrigin}
	}
}

func (o Origin) String() string {
	return o.value
}

func (o Origin) IsProxyPath() bool {
	return strings.HasPrefix(o.value, "/")
}

func (o Origin) IsSecure() bool {
	return strings.HasPrefix(strings.ToLower(o.value), "https://")
}

func hasHTTPScheme(value string) bool {
	lower := strings.ToLower(value)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
