package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	tokenLen  = 4
	tokenMin  = 1000
	tokenSpan = 9000
)

// generateToken returns a random 4-digit pickup code in [1000, 9999].
func generateToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(tokenSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+tokenMin, 10), nil
}

func validToken(token string) bool {
	if len(token) != tokenLen {
		return false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
