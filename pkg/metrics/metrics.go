// Package metrics define las métricas Prometheus propias de la aplicación.
// Las variables se registran vía promauto en el registry por defecto al importar
// el paquete; /metrics las expone sin autenticación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// LoginsTotal cuenta logins exitosos por modo de autenticación.
// Label mode: "local" o "keycloak".
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total de inicios de sesión exitosos, por modo de autenticación.",
	},
	[]string{"mode"},
)

// LoginFailuresTotal cuenta intentos de login rechazados (credenciales inválidas).
var LoginFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total de intentos de login con credenciales inválidas.",
	},
)

// OrdersCreatedTotal cuenta órdenes creadas (estado pending).
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total de órdenes creadas.",
	},
)

// OrderTransitionsTotal cuenta transiciones de estado aplicadas a órdenes.
// Label status: "approved" o "rejected".
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total de transiciones de estado de órdenes, por estado final.",
	},
	[]string{"status"},
)

// AuditDroppedTotal cuenta registros de auditoría descartados por buffer lleno.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_records_dropped_total",
		Help:      "Total de registros de auditoría descartados (buffer lleno).",
	},
)
