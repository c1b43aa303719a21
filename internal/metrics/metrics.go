package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provisioning stages used as the "stage" label.
const (
	StageValidate  = "validate"
	StageAllocate  = "allocate"
	StageAppKey    = "app_key"
	StageTokens    = "tokens"
	StageRegister  = "register"
	StagePackage   = "package"
	StageCompleted = "completed"
)

// Metrics holds Prometheus collectors for enrollment operations.
// All methods are safe on a nil receiver.
type Metrics struct {
	ProvisionOutcomes    *prometheus.CounterVec
	ProvisionDurationMs  prometheus.Histogram
	IDCollisions         prometheus.Counter
	AppKeyCreations      *prometheus.CounterVec
	RegistrationOutcomes *prometheus.CounterVec
	DeviceOperations     *prometheus.CounterVec
}

// New registers and returns enrollment collectors on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ProvisionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deviceprov_provision_total",
			Help: "Provision requests by the stage at which they finished",
		}, []string{"stage"}),
		ProvisionDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "deviceprov_provision_duration_ms",
			Help:    "Duration of provision requests in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		IDCollisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "deviceprov_device_id_collisions_total",
			Help: "Allocated device ids that were already enrolled",
		}),
		AppKeyCreations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deviceprov_app_key_creations_total",
			Help: "Application key creation attempts by result",
		}, []string{"device_type", "result"}),
		RegistrationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deviceprov_registrations_total",
			Help: "Device registrations by result (enrolled, declined, fault)",
		}, []string{"result"}),
		DeviceOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deviceprov_device_operations_total",
			Help: "Remove/update/get/list operations by result",
		}, []string{"operation", "result"}),
	}
}

func (m *Metrics) ProvisionFinished(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProvisionOutcomes.WithLabelValues(stage).Inc()
	m.ProvisionDurationMs.Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) IDCollision() {
	if m == nil {
		return
	}
	m.IDCollisions.Inc()
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.RegistrationOutcomes.WithLabelValues(result).Inc()
}

func (m *Metrics) DeviceOperation(operation, result string) {
	if m == nil {
		return
	}
	m.DeviceOperations.WithLabelValues(operation, result).Inc()
}

// ApplicationKeyCreated and ApplicationKeyCreationFailed make Metrics an
// appkey.Observer.
func (m *Metrics) ApplicationKeyCreated(deviceType string) {
	if m == nil {
		return
	}
	m.AppKeyCreations.WithLabelValues(deviceType, "created").Inc()
}

func (m *Metrics) ApplicationKeyCreationFailed(deviceType string) {
	if m == nil {
		return
	}
	m.AppKeyCreations.WithLabelValues(deviceType, "failed").Inc()
}
