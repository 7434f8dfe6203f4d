package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
)

const namespace = "polybot"

// Metrics holds every collector the bot exports.
type Metrics struct {
	pollTicks          prometheus.Counter
	pollDuration       prometheus.Histogram
	fetchErrors        *prometheus.CounterVec
	quotePrice         *prometheus.GaugeVec
	subscriberFailures prometheus.Counter

	rewardsCredited    prometheus.Counter
	rewardAmount       prometheus.Counter
	referralRejections *prometheus.CounterVec
	integrityFailures  prometheus.Counter

	writerRows    prometheus.Counter
	writerErrors  prometheus.Counter
	writerDropped prometheus.Counter

	streamClients prometheus.Gauge
	botCommands   *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ticks_total",
			Help:      "Number of completed price poll ticks",
		}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of the fetch phase of a poll tick",
			Buckets:   prometheus.DefBuckets,
		}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_fetch_errors_total",
			Help:      "Number of degraded quotes per symbol",
		}, []string{"symbol"}),
		quotePrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_usd",
			Help:      "Latest successfully fetched USD price per symbol",
		}, []string{"symbol"}),
		subscriberFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriber_failures_total",
			Help:      "Number of price subscribers that returned an error or panicked",
		}),
		rewardsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referral_credits_total",
			Help:      "Number of referral reward credits applied",
		}),
		rewardAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referral_credited_usd_total",
			Help:      "Total USD credited to referrers",
		}),
		referralRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referral_rejections_total",
			Help:      "Number of rejected referral code applications by reason",
		}, []string{"reason"}),
		integrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referral_integrity_failures_total",
			Help:      "Number of referrer graph integrity violations detected",
		}),
		writerRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writer_rows_total",
			Help:      "Number of price rows written to the database",
		}),
		writerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writer_errors_total",
			Help:      "Number of failed price batch inserts",
		}),
		writerDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writer_dropped_total",
			Help:      "Number of price rows dropped due to buffer overflow",
		}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_clients",
			Help:      "Number of connected price stream clients",
		}),
		botCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_commands_total",
			Help:      "Number of bot commands handled",
		}, []string{"command"}),
	}

	reg.MustRegister(
		m.pollTicks,
		m.pollDuration,
		m.fetchErrors,
		m.quotePrice,
		m.subscriberFailures,
		m.rewardsCredited,
		m.rewardAmount,
		m.referralRejections,
		m.integrityFailures,
		m.writerRows,
		m.writerErrors,
		m.writerDropped,
		m.streamClients,
		m.botCommands,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObservePoll records one finished tick and how long its fetches took.
func (m *Metrics) ObservePoll(seconds float64) {
	if m == nil {
		return
	}
	m.pollTicks.Inc()
	m.pollDuration.Observe(seconds)
}

// FetchError counts a degraded quote for symbol.
func (m *Metrics) FetchError(symbol string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(symbol).Inc()
}

// SetPrice records the latest good price for symbol.
func (m *Metrics) SetPrice(symbol string, price decimal.Decimal) {
	if m == nil {
		return
	}
	m.quotePrice.WithLabelValues(symbol).Set(price.InexactFloat64())
}

// SubscriberFailure counts a failed or panicking subscriber.
func (m *Metrics) SubscriberFailure() {
	if m == nil {
		return
	}
	m.subscriberFailures.Inc()
}

// RewardCredited counts one credit of amount.
func (m *Metrics) RewardCredited(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.rewardsCredited.Inc()
	m.rewardAmount.Add(amount.InexactFloat64())
}

// ReferralRejected counts a rejection by reason.
func (m *Metrics) ReferralRejected(reason string) {
	if m == nil {
		return
	}
	m.referralRejections.WithLabelValues(reason).Inc()
}

// IntegrityFailure counts a detected referrer cycle.
func (m *Metrics) IntegrityFailure() {
	if m == nil {
		return
	}
	m.integrityFailures.Inc()
}

// RowsWritten counts rows persisted by the price writer.
func (m *Metrics) RowsWritten(n int) {
	if m == nil {
		return
	}
	m.writerRows.Add(float64(n))
}

// WriteError counts a failed batch insert.
func (m *Metrics) WriteError() {
	if m == nil {
		return
	}
	m.writerErrors.Inc()
}

// RowsDropped counts rows lost to buffer overflow.
func (m *Metrics) RowsDropped(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.writerDropped.Add(float64(n))
}

// StreamClientConnected adjusts the connected client gauge by delta.
func (m *Metrics) StreamClientConnected(delta int) {
	if m == nil {
		return
	}
	m.streamClients.Add(float64(delta))
}

// BotCommand counts a handled bot command.
func (m *Metrics) BotCommand(command string) {
	if m == nil {
		return
	}
	m.botCommands.WithLabelValues(command).Inc()
}
