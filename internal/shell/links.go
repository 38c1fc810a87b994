package shell

import "strings"

// Title is the brand shown in the nav bar and as the content heading.
const Title = "CatTrack"

// BrandPath is where the brand link points; it redirects to the dashboard.
const BrandPath = "/"

const (
	DashboardPath    = "/dashboard"
	TransactionsPath = "/transactions"
)

// NavLink is a tab in the nav bar.
type NavLink struct {
	Label string
	Path  string
}

// Links are the shell's tabs, in display order.
var Links = []NavLink{
	{Label: "Dashboard", Path: DashboardPath},
	{Label: "Transactions", Path: TransactionsPath},
}

// Active reports whether the link matches current: the same path or a child
// of it.
func (l NavLink) Active(current string) bool {
	current = CleanPath(current)
	return current == l.Path || strings.HasPrefix(current, l.Path+"/")
}
