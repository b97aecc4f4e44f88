package client

// Route 页面守卫的跳转结果
type Route int

const (
	RouteLoading Route = iota
	RouteLogin
	RouteHome
	RouteAllowed
)

func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteLogin:
		return "login"
	case RouteHome:
		return "home"
	default:
		return "allowed"
	}
}

// SessionView 只读的会话快照
type SessionView interface {
	Snapshot() State
}

// GuardSignedIn 身份确定前一律等待
func GuardSignedIn(s State) Route {
	switch {
	case s.Loading:
		return RouteLoading
	case s.Identity == nil:
		return RouteLogin
	default:
		return RouteAllowed
	}
}

// GuardAdmin 角色查询完成后才判断，非管理员回首页
func GuardAdmin(s State) Route {
	if r := GuardSignedIn(s); r != RouteAllowed {
		return r
	}
	switch {
	case s.RolesPending:
		return RouteLoading
	case !s.IsAdmin && !s.IsSuperAdmin:
		return RouteHome
	default:
		return RouteAllowed
	}
}
