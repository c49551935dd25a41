package middleware

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Policy requires the caller's token to carry a claim of ClaimType.
// An empty ClaimType only requires an authenticated caller.
type Policy struct {
	Name      string
	ClaimType string
}

// Policies is a set of named authorization policies.
type Policies map[string]Policy

// NewPolicies registers the given policies by name.
func NewPolicies(policies ...Policy) Policies {
	p := make(Policies, len(policies))
	for _, policy := range policies {
		p[policy.Name] = policy
	}
	return p
}

// Require returns a middleware enforcing the named policy. It must run after
// AuthRequired. Unknown policy names panic so misconfigured routes fail at startup.
func (p Policies) Require(name string) fiber.Handler {
	policy, ok := p[name]
	if !ok {
		panic(fmt.Sprintf("authorization policy %q is not registered", name))
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication is required",
			})
		}
		if policy.ClaimType == "" {
			return c.Next()
		}
		if _, has := claims[policy.ClaimType]; !has {
			log.Printf("Policy %s denied for user %v: missing claim %s", policy.Name, claims["sub"], policy.ClaimType)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not have permission to perform this action",
			})
		}
		return c.Next()
	}
}
