package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramCommandsReceivedTotal,
		telegramAdminCommandsTotal,
		telegramRateLimitTriggeredTotal,
		telegramUnauthorizedTotal,
		telegramSendFailuresTotal,
	)
}

var (
	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Bot commands received, by command.",
		},
		[]string{"command"},
	)

	telegramAdminCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_admin_commands_total",
			Help: "Uses of /setcommands and /deletecache, by whether the sender was an admin.",
		},
		[]string{"command", "status"}, // status: 'authorized', 'unauthorized'
	)

	telegramRateLimitTriggeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_rate_limit_triggered_total",
			Help: "Links refused because the sender used up the per-minute budget.",
		},
	)

	telegramUnauthorizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_unauthorized_total",
			Help: "Messages dropped because the sender is not on the trusted list.",
		},
	)

	telegramSendFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_send_failures_total",
			Help: "Outgoing messages that Telegram rejected.",
		},
	)
)

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncAdminCommand(command, status string) {
	telegramAdminCommandsTotal.WithLabelValues(norm(command), norm(status)).Inc()
}

func IncRateLimitTriggered() { telegramRateLimitTriggeredTotal.Inc() }
func IncUnauthorized() { telegramUnauthorizedTotal.Inc() }
func IncSendFailure() { telegramSendFailuresTotal.Inc() }
