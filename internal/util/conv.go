package util

import (
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseOptionalUint 空字符串或非法值返回 nil
func ParseOptionalUint(s string) *uint {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

// ParseOptionalBool 只接受 true/false/1/0，其他值视为未提供
func ParseOptionalBool(s string) *bool {
	b, err := strconv.ParseBool(s)
	if s == "" || err != nil {
		return nil
	}
	return &b
}
