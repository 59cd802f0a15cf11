package order

import (
	"encoding/hex"
	"strings"
)

// ProductRefLength 商品引用固定为 24 位十六进制（12 字节）
const ProductRefLength = 24

// IsProductRef reports whether ref is already a well-formed 24-hex reference.
func IsProductRef(ref string) bool {
	if len(ref) != ProductRefLength {
		return false
	}
	_, err := hex.DecodeString(ref)
	return err == nil
}

// NormalizeProductRef 把客户端提供的商品引用转为 24 位小写十六进制。
// 非十六进制输入先按字节做 hex 编码；不足 24 位左侧补 0，超出保留末尾 24 位。
// coerced 为 true 时订单需要人工复核。
func NormalizeProductRef(ref string) (normalized string, coerced bool, err error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", false, NewValidationError(ErrInvalidProductRef, "items.product", "product reference is required")
	}

	lower := strings.ToLower(trimmed)
	if IsProductRef(lower) {
		return lower, false, nil
	}

	if _, decodeErr := hex.DecodeString(evenLength(lower)); decodeErr != nil {
		lower = hex.EncodeToString([]byte(trimmed))
	}
	if len(lower) > ProductRefLength {
		return lower[len(lower)-ProductRefLength:], true, nil
	}
	return strings.Repeat("0", ProductRefLength-len(lower)) + lower, true, nil
}

func evenLength(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}
