package inspect

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"
)

var toValidate = map[string]string{
	"aud": "api://default",
	"cid": os.Getenv("OKTA_CLIENT_ID"),
}

// requireBearerToken wraps h so it only runs once the request's bearer
// token has been verified against Okta, unless BTREE_INSPECT_OKTA_DOMAIN
// is unset, in which case the gate is a no-op — the inspector is meant
// to run unauthenticated against a local tree during development and
// only needs the gate when exposed beyond localhost.
func requireBearerToken(h gin.HandlerFunc) gin.HandlerFunc {
	domain := os.Getenv("BTREE_INSPECT_OKTA_DOMAIN")
	if domain == "" {
		return h
	}
	return func(c *gin.Context) {
		if verify(c, domain) {
			h(c)
		}
	}
}

func verify(c *gin.Context, domain string) bool {
	token := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(token, "Bearer ") {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return false
	}
	token = strings.TrimPrefix(token, "Bearer ")

	verifierSetup := jwtverifier.JwtVerifier{
		Issuer:           "https://" + domain + "/oauth2/default",
		ClaimsToValidate: toValidate,
	}
	verifier := verifierSetup.New()
	if _, err := verifier.VerifyAccessToken(token); err != nil {
		c.String(http.StatusForbidden, err.Error())
		return false
	}
	return true
}
