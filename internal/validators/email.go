package validators

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const lookupTimeout = 3 * time.Second

var (
	syntax   = validator.New()
	resolver = net.DefaultResolver
)

// IsEmailDomainValid accepts an address whose domain has MX records or,
// failing that, resolves to an address.
func IsEmailDomainValid(email string) bool {
	if syntax.Var(email, "required,email") != nil {
		return false
	}

	domain := email[strings.LastIndex(email, "@")+1:]

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	if mx, err := resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
