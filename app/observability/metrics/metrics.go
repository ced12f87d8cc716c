package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RegisterRequestsTotal      metric.Int64Counter
	RegisterDurationSeconds    metric.Float64Histogram
	LoginRequestsTotal         metric.Int64Counter
	RevokedTokensTotal         metric.Int64Counter
	JournalEntriesCreatedTotal metric.Int64Counter
	DbQueryDurationSeconds     metric.Float64Histogram
	DbQueryErrorsTotal         metric.Int64Counter
	NotificationsFailedTotal   metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Only the first call has effect.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("JournalHub")
		m := &AppMetrics{}

		m.RegisterRequestsTotal = counter(meter, "register_requests_total", "Total number of register requests completed", "{request}")
		m.RegisterDurationSeconds = histogram(meter, "register_duration_seconds", "Duration of register requests in seconds")
		m.LoginRequestsTotal = counter(meter, "login_requests_total", "Total number of login attempts", "{request}")
		m.RevokedTokensTotal = counter(meter, "revoked_tokens_total", "Total number of tokens added to the revocation registry", "{token}")
		m.JournalEntriesCreatedTotal = counter(meter, "journal_entries_created_total", "Total number of journal entries created", "{entry}")
		m.DbQueryDurationSeconds = histogram(meter, "db_query_duration_seconds", "Duration of database queries in seconds")
		m.DbQueryErrorsTotal = counter(meter, "db_query_errors_total", "Total number of database query errors", "{error}")
		m.NotificationsFailedTotal = counter(meter, "notifications_failed_total", "Total number of emails that could not be delivered", "{email}")

		appMetrics = m
	})
}

func counter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return c
}

func histogram(meter metric.Meter, name, desc string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return h
}

// Get returns the instruments, initializing them against the current provider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// RecordDBQuery records the latency of one database call and counts it as an error when err is set.
func RecordDBQuery(ctx context.Context, collection, operation string, start time.Time, err error) {
	m := Get()
	attrs := metric.WithAttributes(
		attribute.String("db.collection", collection),
		attribute.String("db.operation", operation),
	)
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
