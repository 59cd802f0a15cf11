/*
Package user 用户在本服务中只读：账号、OAuth 与资料维护由外部系统负责，
这里只解析列表和导出需要展示的姓名与邮箱。
*/
package user

import "context"

// Profile 用户资料的只读投影
type Profile struct {
	ID      string
	Name    string
	Email   string
	IsAdmin bool
}

// Directory 按 ID 批量解析用户资料；不存在的 ID 不出现在结果中
type Directory interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]Profile, error)
}
