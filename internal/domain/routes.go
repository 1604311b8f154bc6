package domain

import "net/url"

// Client-side routes.
const (
	RouteLogin         = "/"
	RouteVerifyOTP     = "/otpverify"
	RouteResetPassword = "/resetpsw"
	RouteCustomerList  = "/user/customers"
	RouteCustomerForm  = "/user/customers/customer-form"
	routeCustomerView  = "/user/customers/view"
)

// CustomerFormRoute returns the create route for an empty id, else the edit route.
func CustomerFormRoute(id string) string {
	if id == "" {
		return RouteCustomerForm
	}
	return RouteCustomerForm + "/" + url.PathEscape(id)
}

// CustomerViewRoute returns the detail route for id.
func CustomerViewRoute(id string) string {
	return routeCustomerView + "/" + url.PathEscape(id)
}
