package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/vault/internal/errors"
)

// sharePurpose marks a token as a share capability so tokens minted for other
// purposes can never be replayed against the shared download endpoint.
const sharePurpose = "share"

// shareClaims is the JWT claim set carried by share tokens. The subject holds
// the object ID; the token deliberately carries no caller identity.
type shareClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// JWTShareTokenService implements ShareTokenService using HS256-signed JWTs.
// Tokens are self-contained capabilities: possession grants access, there is
// no server-side token state and no revocation.
type JWTShareTokenService struct {
	signingKey []byte
}

// NewJWTShareTokenService creates a share token service signing with the
// purpose-derived share signing key, never the raw server secret.
func NewJWTShareTokenService(signingKey []byte) *JWTShareTokenService {
	return &JWTShareTokenService{signingKey: signingKey}
}

// Issue creates a signed token granting read access to objectID until expiry.
func (j *JWTShareTokenService) Issue(objectID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, shareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   objectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose: sharePurpose,
	})

	tokenString, err := token.SignedString(j.signingKey)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign share token")
	}

	return tokenString, expiresAt, nil
}

// Verify checks signature, purpose and expiry and returns the object ID the
// token grants access to. Signature verification happens before any claim is
// trusted, so a tampered token never reaches the catalog.
func (j *JWTShareTokenService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &shareClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return j.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperrors.ErrTokenExpired
		}
		return uuid.Nil, apperrors.Wrap(apperrors.ErrTokenInvalid, err.Error())
	}

	if !token.Valid || claims.Purpose != sharePurpose {
		return uuid.Nil, apperrors.ErrTokenInvalid
	}

	objectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrTokenInvalid, "malformed subject")
	}

	return objectID, nil
}
