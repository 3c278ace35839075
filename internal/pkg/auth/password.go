package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost used for the access passphrase
const BcryptCost = 12

// HashPassphrase hashes the local access passphrase for the config file
func HashPassphrase(passphrase string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassphrase compares a passphrase with its stored hash
func CheckPassphrase(hashed, passphrase string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(passphrase))
	return err == nil
}
