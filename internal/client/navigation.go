package client

import (
	"slices"

	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
)

// Rutas de pantallas.
const (
	RouteLogin             = "/login"
	RouteRegister          = "/register"
	RouteDashboardAdmin    = "/dashboard-admin"
	RouteDashboardVendedor = "/dashboard-vendedor"
	RouteDashboardCliente  = "/dashboard-cliente"
	RouteProducts          = "/admin/productos"
	RouteUsers             = "/admin/usuarios"
	RouteSalesAll          = "/admin/ventas"
	RouteReport            = "/admin/reporte-ventas"
	RouteCreateSale        = "/crear-venta"
	RouteMySales           = "/mis-ventas"
	RouteMyPurchases       = "/mis-compras"
)

var screenRoles = map[string][]string{
	RouteDashboardAdmin:    {entity.RoleAdmin},
	RouteProducts:          {entity.RoleAdmin},
	RouteUsers:             {entity.RoleAdmin},
	RouteSalesAll:          {entity.RoleAdmin},
	RouteReport:            {entity.RoleAdmin},
	RouteDashboardVendedor: {entity.RoleVendedor},
	RouteCreateSale:        {entity.RoleVendedor, entity.RoleAdmin},
	RouteMySales:           {entity.RoleVendedor, entity.RoleAdmin},
	RouteDashboardCliente:  {entity.RoleCliente},
	RouteMyPurchases:       {entity.RoleCliente},
}

// Home pantalla inicial tras el login según el rol. Sin rol conocido vuelve al login.
func Home(role string) string {
	switch role {
	case entity.RoleAdmin:
		return RouteDashboardAdmin
	case entity.RoleVendedor:
		return RouteDashboardVendedor
	case entity.RoleCliente:
		return RouteDashboardCliente
	}
	return RouteLogin
}

// CanAccess indica si role puede abrir route. Login y registro son públicos.
func CanAccess(role, route string) bool {
	if route == RouteLogin || route == RouteRegister {
		return true
	}
	roles, ok := screenRoles[route]
	return ok && slices.Contains(roles, role)
}
