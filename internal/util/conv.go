package util

import (
	"strconv"
)

// ParseUintParam 解析路径中的数字 ID，非法或为 0 时返回校验错误
func ParseUintParam(s, name string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ValidationError("invalid " + name)
	}
	return uint(id), nil
}

// ParsePage 解析 page/limit 查询参数；两者都缺省时返回 ok=false，表示不分页
func ParsePage(pageStr, limitStr string) (page, limit int, ok bool, err error) {
	if pageStr == "" && limitStr == "" {
		return 0, 0, false, nil
	}
	page, limit = 1, DefaultPageLimit
	if pageStr != "" {
		if page, err = strconv.Atoi(pageStr); err != nil || page < 1 {
			return 0, 0, false, ValidationError("invalid page")
		}
	}
	if limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 1 {
			return 0, 0, false, ValidationError("invalid limit")
		}
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, true, nil
}
