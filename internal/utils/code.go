package utils

import "crypto/rand"

// codeAlphabet is the character set used for booking references and
// transaction ids.  Ten characters over 36 symbols give a 36^10 space,
// large enough that a single crypto-random draw collides with negligible
// probability; the tickets.pnr_number UNIQUE column catches the rest.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewPNR returns a 10-character booking reference drawn from A-Z0-9.
func NewPNR() (string, error) {
	return randomCode(10)
}

// NewTransactionID returns a payment transaction id of the form
// "TXN" followed by 15 characters from A-Z0-9.
func NewTransactionID() (string, error) {
	code, err := randomCode(15)
	if err != nil {
		return "", err
	}
	return "TXN" + code, nil
}

// randomCode draws n characters from codeAlphabet using crypto/rand.
// Bytes >= 252 are discarded so the modulo does not skew the
// distribution (252 is the largest multiple of 36 below 256).
func randomCode(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 252 {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
