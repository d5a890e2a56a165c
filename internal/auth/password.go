// Package auth implements password hashing and session token issuance.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-HMAC-SHA256 parameters. Changing any of them invalidates every
// stored hash.
const (
	SaltSize       = 16
	hashIterations = 10000
	hashKeySize    = 32
)

// GenerateSalt 生成 16 字节的随机盐
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	return salt, nil
}

// DeriveHash 使用 PBKDF2 派生密码哈希，结果为 base64 字符串
// 相同的密码和盐总是得到相同的结果
func DeriveHash(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeySize, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// VerifyPassword 重新计算哈希并与存储值比较
func VerifyPassword(password, hash string, salt []byte) bool {
	derived := DeriveHash(password, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}
