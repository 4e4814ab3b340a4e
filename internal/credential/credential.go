// Package credential はパスワードとPINの一方向ハッシュ化と検証を提供する。
// PBKDF2-SHA256とハッシュごとのランダムソルトを使用し、
// 検証はハッシュ長に対して一定時間で行う。
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// algorithm はエンコード済みハッシュの識別子。
	algorithm = "pbkdf2_sha256"

	defaultIterations = 210000
	saltLength        = 16
	keyLength         = 32
)

// Service は資格情報のハッシュ化と検証を行う。
type Service struct {
	iterations int
}

// NewService はデフォルトの反復回数でServiceを生成する。
func NewService() *Service {
	return &Service{iterations: defaultIterations}
}

// NewServiceWithIterations は反復回数を指定してServiceを生成する。
// テストで低コスト設定にする場合に使用する。
func NewServiceWithIterations(iterations int) *Service {
	if iterations < 1 {
		iterations = defaultIterations
	}
	return &Service{iterations: iterations}
}

// HashPassword は平文パスワードをハッシュ化して返す。
// 呼び出しごとに独立したランダムソルトを生成する。
func (s *Service) HashPassword(plaintext string) (string, error) {
	return s.hash(plaintext)
}

// HashPIN は平文PINをハッシュ化して返す。
// パスワードと同じKDFを使用する。
func (s *Service) HashPIN(plaintext string) (string, error) {
	return s.hash(plaintext)
}

// Verify は平文がエンコード済みハッシュと一致するかを検証する。
// ハッシュが空または形式不正の場合はfalseを返す（フェイルクローズ）。
// 比較はハッシュ長に対して一定時間で行う。
func (s *Service) Verify(plaintext, encoded string) bool {
	iterations, salt, expected, err := decode(encoded)
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(plaintext), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// hash は平文をエンコード済みハッシュ形式
// "pbkdf2_sha256$<iterations>$<b64 salt>$<b64 key>" に変換する。
func (s *Service) hash(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), salt, s.iterations, keyLength, sha256.New)

	return fmt.Sprintf("%s$%d$%s$%s",
		algorithm,
		s.iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// decode はエンコード済みハッシュを反復回数、ソルト、鍵に分解する。
func decode(encoded string) (int, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != algorithm {
		return 0, nil, nil, fmt.Errorf("unsupported hash format")
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations < 1 {
		return 0, nil, nil, fmt.Errorf("invalid iteration count")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("invalid key encoding: %w", err)
	}

	return iterations, salt, key, nil
}
