// Package keygen generates root credentials and discovers local SSH keys.
//
// Passwords are generated with crypto/rand and guaranteed to satisfy the
// provider's complexity rules: at least three characters from each of the
// uppercase, lowercase, digit, and symbol classes, with a total length above
// the provider minimum of 11 and below the maximum of 128.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+"

	// perClassMin is the minimum number of characters drawn from each class.
	perClassMin = 3

	// PasswordLength is the total generated password length. Linode accepts
	// 11-128 characters for a root password.
	PasswordLength = 24
)

// GeneratePassword returns a random root password satisfying the complexity
// policy described in the package comment.
func GeneratePassword() (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	chars := make([]byte, 0, PasswordLength)

	for _, class := range classes {
		for i := 0; i < perClassMin; i++ {
			c, err := randomChar(class)
			if err != nil {
				return "", err
			}
			chars = append(chars, c)
		}
	}

	all := upperChars + lowerChars + digitChars + symbolChars
	for len(chars) < PasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}
	return string(chars), nil
}

func randomChar(from string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(from))))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random character: %w", err)
	}
	return from[n.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle using crypto/rand so the mandatory
// class characters do not cluster at the front.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to shuffle password: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

// DiscoverAuthorizedKey returns the first parseable SSH public key found
// under dir (typically ~/.ssh), in authorized_keys format. It returns an
// empty string when no key exists; a missing key is not an error.
func DiscoverAuthorizedKey(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pub"))
	if err != nil {
		return ""
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		key, _, _, _, err := ssh.ParseAuthorizedKey(data)
		if err != nil {
			continue
		}
		return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))
	}
	return ""
}

// DefaultSSHDir returns the conventional SSH key directory for the current
// user, or an empty string when the home directory cannot be determined.
func DefaultSSHDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh")
}
