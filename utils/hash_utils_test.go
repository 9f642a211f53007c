package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.True(t, CheckSecretHash("1234", hash))
	assert.False(t, CheckSecretHash("4321", hash))

	// 同一密码两次哈希得到不同盐值
	other, err := HashSecret("1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestValidSecretLength(t *testing.T) {
	assert.False(t, ValidSecretLength(""))
	assert.False(t, ValidSecretLength("123"))
	assert.True(t, ValidSecretLength("1234"))
	assert.True(t, ValidSecretLength(strings.Repeat("x", 20)))
	assert.False(t, ValidSecretLength(strings.Repeat("x", 21)))

	// 多字节字符按字符数计，不按字节数计
	assert.True(t, ValidSecretLength("门禁密码"))
	assert.True(t, ValidSecretLength(strings.Repeat("码", 20)))
	assert.False(t, ValidSecretLength(strings.Repeat("码", 21)))
	assert.False(t, ValidSecretLength("码码码"))
}

func TestRandomAccessCode(t *testing.T) {
	code := RandomAccessCode()
	assert.NotEmpty(t, code)
	assert.NotContains(t, code, "-")

	// 连续生成不重复
	assert.NotEqual(t, code, RandomAccessCode())
}
