package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Argon2Config tunes the Argon2id password hashing parameters.
type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var (
	argonMu  sync.RWMutex
	argonCfg = Argon2Config{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
)

// ConfigureArgon2 overrides the package-wide hashing parameters. Zero fields
// keep their current values.
func ConfigureArgon2(cfg Argon2Config) error {
	argonMu.Lock()
	defer argonMu.Unlock()

	if cfg.Memory > 0 {
		argonCfg.Memory = cfg.Memory
	}
	if cfg.Iterations > 0 {
		argonCfg.Iterations = cfg.Iterations
	}
	if cfg.Parallelism > 0 {
		argonCfg.Parallelism = cfg.Parallelism
	}
	if cfg.SaltLength > 0 {
		if cfg.SaltLength < 8 {
			return fmt.Errorf("salt length must be at least 8 bytes")
		}
		argonCfg.SaltLength = cfg.SaltLength
	}
	if cfg.KeyLength > 0 {
		if cfg.KeyLength < 16 {
			return fmt.Errorf("key length must be at least 16 bytes")
		}
		argonCfg.KeyLength = cfg.KeyLength
	}

	return nil
}

func currentArgon2() Argon2Config {
	argonMu.RLock()
	defer argonMu.RUnlock()
	return argonCfg
}

// HashPassword generates an Argon2id hash for the provided password.
// The resulting string is encoded as "salt:hash" with both components base64-encoded.
func HashPassword(password string) (string, error) {
	cfg := currentArgon2()

	salt := make([]byte, cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, cfg.KeyLength)
	encodedSalt := base64.StdEncoding.EncodeToString(salt)
	encodedHash := base64.StdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%s:%s", encodedSalt, encodedHash), nil
}

// VerifyPassword compares the provided password against a stored Argon2id hash.
func VerifyPassword(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	parts := strings.Split(encoded, ":")
	if len(parts) != 2 {
		return false, fmt.Errorf("invalid password hash format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}

	storedHash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	cfg := currentArgon2()
	computed := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, uint32(len(storedHash)))

	if subtle.ConstantTimeCompare(computed, storedHash) == 1 {
		return true, nil
	}

	return false, nil
}
