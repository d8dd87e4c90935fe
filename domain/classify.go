package domain

import (
	"regexp"
	"strings"
)

var (
	starkDomainRegex      = regexp.MustCompile(`^(?:[a-z0-9-]{1,48}(?:[a-z0-9-]{1,48}[a-z0-9-])?\.)*[a-z0-9-]{1,48}\.stark$`)
	starkRootDomainRegex  = regexp.MustCompile(`^[a-z0-9-]{1,48}\.stark$`)
	braavosSubdomainRegex = regexp.MustCompile(`^[a-z0-9-]{1,48}\.braavos\.stark$`)
	xplorerSubdomainRegex = regexp.MustCompile(`^[a-z0-9-]{1,48}\.xplorer\.stark$`)
)

// IsStarkDomain reports whether domain is a well formed, dot separated
// .stark name of any depth.
func IsStarkDomain(domain string) bool {
	return starkDomainRegex.MatchString(domain)
}

func IsStarkRootDomain(domain string) bool {
	return starkRootDomainRegex.MatchString(domain)
}

// IsSubdomain only counts dots; it does not validate the labels.
func IsSubdomain(domain string) bool {
	return strings.Count(domain, ".") > 1
}

func IsBraavosSubdomain(domain string) bool {
	return braavosSubdomainRegex.MatchString(domain)
}

func IsXplorerSubdomain(domain string) bool {
	return xplorerSubdomainRegex.MatchString(domain)
}
