package shared

// Principal 发起操作的身份，由认证中间件从令牌中解析
type Principal struct {
	ID      string
	IsAdmin bool
}

// CanAccess 本人或管理员
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin || (p.ID != "" && p.ID == ownerID)
}

// RequireAdmin 非管理员返回 ForbiddenError
func (p Principal) RequireAdmin(entity string) error {
	if p.IsAdmin {
		return nil
	}
	return NewError(ErrForbidden, nil, entity, "", "admin privileges required", 1)
}
