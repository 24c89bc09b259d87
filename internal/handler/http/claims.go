package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// requestClaims pulls the tenant and actor identity off the verified token.
// AuthRequired already rejected tokens without a company scope, so an empty
// result here means the route was mounted outside the auth group.
func requestClaims(r *http.Request) (companyID string, userID string, ok bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", false
	}

	companyID, _ = claims["company_id"].(string)
	userID, _ = claims["user_id"].(string)
	if companyID == "" || userID == "" {
		return "", "", false
	}

	return companyID, userID, true
}
