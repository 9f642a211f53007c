package utils

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// 门禁密码长度约束（字符数）
const (
	MinSecretLength = 4
	MaxSecretLength = 20
)

// HashSecret 使用 bcrypt 对PIN或门禁码进行哈希处理
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckSecretHash 比较明文与哈希值
func CheckSecretHash(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}

// ValidSecretLength 校验密码长度是否在允许范围内，按字符数而非字节数计
func ValidSecretLength(secret string) bool {
	length := utf8.RuneCountInString(secret)
	return length >= MinSecretLength && length <= MaxSecretLength
}
