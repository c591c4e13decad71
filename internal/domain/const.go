package domain

const (
	SessionUserCtxKey = "acme-sessionUser"
)

const (
	SessionCookieName = "acme_session"
)

const (
	InvoicesPath  = "/dashboard/invoices"
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
)

// RevalidateChannel is the redis channel carrying RevalidationEvents.
const RevalidateChannel = "acme:revalidate"
