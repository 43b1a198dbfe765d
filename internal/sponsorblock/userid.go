package sponsorblock

import (
	"crypto/rand"
	"math/big"
)

const (
	userIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	userIDLength   = 32
)

// NewUserID returns a fresh anonymous submitter id. A new id is drawn for
// every submission so contributions cannot be linked to each other.
func NewUserID() (string, error) {
	return randomString(userIDAlphabet, userIDLength)
}

func randomString(alphabet string, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
