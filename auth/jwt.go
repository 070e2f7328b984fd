package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"event-manager-backend/model"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("invalid actor token")

// Claims is what an actor token carries besides the registered claims.
type Claims struct {
	ID    int64
	Name  string
	Roles []string
}

func checkInterval(claims jwt.MapClaims, interval time.Duration) bool {
	var ok bool
	switch exp := claims["exp"].(type) {
	case float64:
		t1 := time.Unix(int64(exp), 0)
		t2 := time.Now().Add(interval * -1)
		ok = t2.Before(t1)
	case json.Number:
		v, _ := exp.Int64()
		t1 := time.Unix(v, 0)
		t2 := time.Now().Add(interval * -1)
		ok = t2.Before(t1)
	}

	return ok
}

// VerifyActorToken checks an HS256 actor token. Tokens expired for less than
// interval are still accepted.
func VerifyActorToken(token string, secret []byte, interval time.Duration) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})

	var verr *jwt.ValidationError
	if err != nil && errors.As(err, &verr) && verr.Errors == jwt.ValidationErrorExpired {
		claims, valid := parsed.Claims.(jwt.MapClaims)
		if !valid || !checkInterval(claims, interval) {
			return nil, fmt.Errorf("verifyActorToken: token expired: %w", ErrInvalidToken)
		}
		return readClaims(claims)
	}

	if err != nil {
		return nil, fmt.Errorf("verifyActorToken: %v: %w", err, ErrInvalidToken)
	}

	if !parsed.Valid || parsed.Header["alg"] != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("verifyActorToken: %w", ErrInvalidToken)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("verifyActorToken: could not parse claims: %w", ErrInvalidToken)
	}
	return readClaims(claims)
}

func readClaims(claims jwt.MapClaims) (*Claims, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("readClaims: missing subject: %w", ErrInvalidToken)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("readClaims: invalid subject %q: %w", sub, ErrInvalidToken)
	}

	c := &Claims{ID: id}
	c.Name, _ = claims["name"].(string)
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	}
	return c, nil
}

// IssueActorToken signs a token for the actor, valid for ttl.
func IssueActorToken(secret []byte, actor *model.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(actor.ID, 10),
		"name":  actor.Name,
		"roles": actor.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("issueActorToken: %w", err)
	}
	return s, nil
}
