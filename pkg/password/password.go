package password

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash 用户不存在时参与一次比对，使两种登录失败耗时一致
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lobby-server/dummy"), bcrypt.DefaultCost)

// Hash 生成密码哈希
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 校验密码
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyDummy 对固定哈希做一次比对，结果总是 false
func VerifyDummy(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
	return false
}
