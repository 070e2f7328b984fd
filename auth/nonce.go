package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// A nonce stays valid for one to two 12h periods, like a WordPress nonce.
var nonceOpts = totp.ValidateOpts{
	Period:    43200,
	Skew:      1,
	Digits:    otp.DigitsEight,
	Algorithm: otp.AlgorithmSHA256,
}

// Nonces issues anti-forgery tokens bound to an action and an actor.
type Nonces struct {
	secret []byte
	now    func() time.Time
}

func NewNonces(secret []byte) *Nonces {
	return &Nonces{secret: secret, now: time.Now}
}

func (n *Nonces) key(action string, actorID int64) string {
	mac := hmac.New(sha256.New, n.secret)
	fmt.Fprintf(mac, "%s|%d", action, actorID)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
}

// Create returns the nonce for action. An empty string means the nonce could not be built.
func (n *Nonces) Create(action string, actorID int64) string {
	code, err := totp.GenerateCodeCustom(n.key(action, actorID), n.now().UTC(), nonceOpts)
	if err != nil {
		return ""
	}
	return code
}

func (n *Nonces) Verify(nonce, action string, actorID int64) bool {
	if nonce == "" {
		return false
	}
	ok, err := totp.ValidateCustom(nonce, n.key(action, actorID), n.now().UTC(), nonceOpts)
	return err == nil && ok
}
