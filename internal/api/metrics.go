package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CommandsTotal counts handled slash commands by command name.
var CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "debits",
	Name:      "commands_total",
	Help:      "Total slash commands handled.",
}, []string{"command"})

// SchedulerReportsSent counts weekly leaderboard reports posted.
var SchedulerReportsSent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "debits",
	Subsystem: "scheduler",
	Name:      "reports_sent_total",
	Help:      "Total weekly leaderboard reports posted.",
})

// SchedulerResets counts automatic monthly ledger resets performed.
var SchedulerResets = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "debits",
	Subsystem: "scheduler",
	Name:      "resets_total",
	Help:      "Total automatic monthly ledger resets performed.",
})

// NotifyFailures counts messages dropped after the fallback retry also failed.
var NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "debits",
	Name:      "notify_failures_total",
	Help:      "Total outbound messages dropped after the fallback channel retry failed.",
})
