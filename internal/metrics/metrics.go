package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики жизненного цикла инцидентов и входов администратора
var (
	IncidentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incidents_created_total",
		Help: "Total number of incidents reported through the public endpoint.",
	})

	IncidentsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incidents_resolved_total",
		Help: "Total number of incidents marked resolved by admins.",
	})

	IncidentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "incidents_deleted_total",
		Help: "Total number of incidents deleted by admins.",
	})

	AdminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_logins_total",
		Help: "Total number of admin login attempts by result.",
	}, []string{"result"})
)
