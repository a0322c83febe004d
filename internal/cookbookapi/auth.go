package cookbookapi

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 5 * time.Minute

// tokenSigner issues short-lived HS256 bearer tokens from an "id:hexsecret" key.
type tokenSigner struct {
	id     string
	secret []byte
	now    func() time.Time
}

func newTokenSigner(key string) (*tokenSigner, error) {
	keyParts := strings.Split(key, ":")
	if len(keyParts) != 2 {
		return nil, fmt.Errorf("invalid api key format: expected id:secret")
	}

	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret hex: %w", err)
	}

	return &tokenSigner{id: keyParts[0], secret: secret, now: time.Now}, nil
}

func (s *tokenSigner) token() (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"aud": "recipe-planner",
	})
	token.Header["kid"] = s.id

	return token.SignedString(s.secret)
}
