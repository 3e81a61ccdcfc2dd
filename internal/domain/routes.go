package domain

// DashboardKind selects the layout template a route belongs to.
type DashboardKind string

const (
	DashboardUser  DashboardKind = "user"
	DashboardAgent DashboardKind = "agent"
	DashboardAdmin DashboardKind = "admin"
)

// RouteCatalog is a fixed, ordered set of required frontend routes for
// one dashboard. Catalogs are versioned contracts, not runtime state.
type RouteCatalog struct {
	Dashboard DashboardKind
	Routes    []string
}

// UserRoutes lists the routes every user dashboard must expose.
var UserRoutes = RouteCatalog{
	Dashboard: DashboardUser,
	Routes: []string{
		"/dashboard",
		"/send-money",
		"/load-wallet",
		"/withdraw",
		"/transactions",
		"/recipients",
		"/exchange-rates",
		"/profile",
		"/settings",
		"/kyc",
		"/support",
		"/notifications",
	},
}

// AgentRoutes lists the routes every agent dashboard must expose.
var AgentRoutes = RouteCatalog{
	Dashboard: DashboardAgent,
	Routes: []string{
		"/agent/dashboard",
		"/agent/float",
		"/agent/deposits",
		"/agent/withdrawals",
		"/agent/customers",
		"/agent/commissions",
		"/agent/reports",
	},
}

// AdminRoutes lists the routes every admin dashboard must expose.
var AdminRoutes = RouteCatalog{
	Dashboard: DashboardAdmin,
	Routes: []string{
		"/admin/dashboard",
		"/admin/users",
		"/admin/agents",
		"/admin/transactions",
		"/admin/wallets",
		"/admin/exchange-rates",
		"/admin/kyc-approvals",
		"/admin/sms-logs",
		"/admin/system-accounts",
		"/admin/reports",
		"/admin/settings",
		"/admin/audit-logs",
	},
}

// AllCatalogs returns the three catalogs in audit order.
func AllCatalogs() []RouteCatalog {
	return []RouteCatalog{UserRoutes, AgentRoutes, AdminRoutes}
}

// KindForRoute selects the dashboard a route belongs to by prefix.
func KindForRoute(route string) DashboardKind {
	switch {
	case hasSegmentPrefix(route, "/agent"):
		return DashboardAgent
	case hasSegmentPrefix(route, "/admin"):
		return DashboardAdmin
	default:
		return DashboardUser
	}
}

func hasSegmentPrefix(route, prefix string) bool {
	if route == prefix {
		return true
	}
	return len(route) > len(prefix) && route[:len(prefix)] == prefix && route[len(prefix)] == '/'
}

// PageExtensions is the accepted extension set for route files, checked
// in order: markup components first, plain scripts second.
var PageExtensions = []string{".tsx", ".jsx", ".ts", ".js"}
