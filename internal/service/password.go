package service

import (
	"crypto/sha256"
	"edu_core_backend/internal/util"
	"encoding/base64"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// prehash 先做 SHA-256 再交给 bcrypt：任意长度的输入都落在 bcrypt 的 72 字节上限以内，
// 长密码的尾部不会被截断忽略。
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func ValidatePassword(password string, maxLen int) error {
	if password == "" {
		return util.ErrPasswordRequired
	}
	if maxLen > 0 && utf8.RuneCountInString(password) > maxLen {
		return util.ErrPasswordTooLong
	}
	return nil
}

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword 哈希格式错误时返回 false，不返回错误
func VerifyPassword(plain, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), prehash(plain)) == nil
}
