// Package jwt signs and validates the bearer tokens used by the API.
//
// Tokens are HS256 JWTs signed with a shared secret. Their payload carries
// the user id under "id" and, for administrators, role "admin":
//
//	svc, err := jwt.NewService(jwt.Config{
//	    Secret:         cfg.JWT.Secret,
//	    Issuer:         cfg.JWT.Issuer,
//	    ExpirationMins: cfg.JWT.ExpirationMins,
//	})
//
//	token, err := svc.Sign(jwt.Claims{UserID: "user:1", Role: jwt.RoleAdmin})
//
//	claims, err := svc.Validate(token)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the client to sign in again
//	}
package jwt
